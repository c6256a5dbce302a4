/*
snapshot.go - Single-year aggregation

PURPOSE:
  Collapses every projected item into one year's financial picture:
  totals, net worth, cash flow, and the per-category asset breakdown.

THE NUMBERS:
  TotalAssets      = sum of asset series values (gross)
  NetWorth         = TotalAssets - outstanding loan balances
  TotalIncome      = sum of income series values
  TotalCommitments = sum of |commitment values| (series is stored negative,
                     display is positive)
  EventImpact      = signed sum of event values
  CashFlow         = TotalIncome - TotalCommitments + EventImpact

LOANS:
  Loans reduce net worth but never the gross asset series. No amortization
  is modeled, so the deduction is the flat sum of attached loan balances.
  Both gross and net are exposed so callers can choose.

WARNINGS:
  Projectors emit warnings across their whole range; a snapshot keeps only
  those stamped with its own year.

SEE ALSO:
  - project.go: The series being aggregated
  - projection.go: The year loop building one snapshot per year
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// YEARLY SNAPSHOT
// =============================================================================

// YearlySnapshot is one year's fully aggregated financial picture.
type YearlySnapshot struct {
	Year int

	TotalAssets      decimal.Decimal
	NetWorth         decimal.Decimal
	TotalIncome      decimal.Decimal
	TotalCommitments decimal.Decimal
	EventImpact      decimal.Decimal
	CashFlow         decimal.Decimal

	AssetsByCategory map[string]decimal.Decimal

	Items    []ProjectionItem
	Warnings []Warning
}

// BuildSnapshot projects the whole plan and aggregates the given year.
// Callers looping over many years should project once with ProjectPlan and
// aggregate with SnapshotForYear instead of paying the projection per year.
func BuildSnapshot(year int, plan FinancialPlan, startYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) YearlySnapshot {
	items := ProjectPlan(plan, startYear, year, assumptions, overrides)
	return SnapshotForYear(year, items, TotalLoanBalance(plan.Assets))
}

// SnapshotForYear aggregates already-projected items for a single year.
func SnapshotForYear(year int, items []ProjectionItem, loanBalance decimal.Decimal) YearlySnapshot {
	snap := YearlySnapshot{
		Year:             year,
		TotalAssets:      decimalZero,
		TotalIncome:      decimalZero,
		TotalCommitments: decimalZero,
		EventImpact:      decimalZero,
		AssetsByCategory: make(map[string]decimal.Decimal),
		Items:            items,
	}

	for _, item := range items {
		value := item.ValueAt(year)

		switch item.Kind {
		case KindAsset:
			snap.TotalAssets = snap.TotalAssets.Add(value)
			snap.AssetsByCategory[item.Category] = snap.AssetsByCategory[item.Category].Add(value)
		case KindIncome:
			snap.TotalIncome = snap.TotalIncome.Add(value)
		case KindCommitment:
			// Series is negative; display totals are positive.
			snap.TotalCommitments = snap.TotalCommitments.Add(value.Abs())
		case KindEvent:
			snap.EventImpact = snap.EventImpact.Add(value)
		}

		for _, w := range item.Warnings {
			if w.Year == year {
				snap.Warnings = append(snap.Warnings, w)
			}
		}
	}

	snap.NetWorth = snap.TotalAssets.Sub(loanBalance)
	snap.CashFlow = snap.TotalIncome.Sub(snap.TotalCommitments).Add(snap.EventImpact)
	return snap
}

// TotalLoanBalance sums the outstanding loan balances attached to assets.
func TotalLoanBalance(assets []Asset) decimal.Decimal {
	total := decimalZero
	for _, a := range assets {
		for _, l := range a.Loans {
			total = total.Add(l.Balance)
		}
	}
	return total
}
