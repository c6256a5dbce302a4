/*
projection.go - The year-loop orchestrator

PURPOSE:
  Drives the full projection: resolves which assumptions/overrides apply
  (scenario or plan), defaults the year range, projects every entity once,
  builds one snapshot per year in ascending order, and accumulates the
  per-category multi-year totals and the overall warning count.

SCENARIOS:
  An explicitly supplied scenario wins. Failing that, the plan's active
  scenario (if named) applies. Failing that, the plan's own assumptions
  and overrides. A scenario supersedes entirely - no merging.

DEFAULTS:
  StartYear: current calendar year
  EndYear:   StartYear + 50 (a 51-year horizon)

CATEGORY TOTALS:
  CategoryTotals is seeded with a fixed, well-known category list so charts
  render stable series even for sparse plans, then extended with whatever
  additional categories the plan actually uses. The pseudo-categories
  "Income" and "Commitments" carry the yearly income/commitment totals.

PERFORMANCE:
  O(years x items). Projection happens once; the per-year loop only sums.
  The computation is synchronous and pure, so concurrent invocations for
  different plans need no coordination.

SEE ALSO:
  - snapshot.go: SnapshotForYear
  - project.go: ProjectPlan
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHorizonYears is the number of years projected beyond the start
// year when no end year is requested.
const DefaultHorizonYears = 50

// DefaultCategories seeds CategoryTotals so every summary carries the same
// baseline series, populated or not. "Income" and "Commitments" are
// pseudo-categories holding the yearly flow totals.
var DefaultCategories = []string{
	"ISA", "SIPP", "Property", "Cash", "Premium Bonds",
	"Investment", "Crypto", "Other", "Income", "Commitments",
}

const (
	categoryTotalIncome      = "Income"
	categoryTotalCommitments = "Commitments"
)

// =============================================================================
// REQUEST / SUMMARY
// =============================================================================

// ProjectionRequest selects the scenario and year range for a projection.
// The zero value means: plan's own scenario selection, current year, and
// the default 51-year horizon.
type ProjectionRequest struct {
	// Scenario supersedes the plan's assumptions/overrides when non-nil.
	Scenario *Scenario

	// StartYear of the projection; 0 means the current calendar year.
	StartYear int

	// EndYear of the projection, inclusive; 0 means StartYear + 50.
	EndYear int
}

// ProjectionSummary is the full ordered sequence of snapshots plus
// cross-year aggregates.
type ProjectionSummary struct {
	StartYear int
	EndYear   int

	// Snapshots, one per year, ascending.
	Snapshots []YearlySnapshot

	// CategoryTotals maps category -> year -> value across all years.
	CategoryTotals map[string]map[int]decimal.Decimal

	// TotalWarnings is the sum of every snapshot's warning count.
	TotalWarnings int
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// CalculateProjections computes the multi-year projection for a plan.
// It is a pure function: identical inputs produce identical output, and the
// plan is never mutated. The only failure mode is a caller contract
// violation; malformed business data degrades to warnings instead.
func CalculateProjections(plan FinancialPlan, req ProjectionRequest) (*ProjectionSummary, error) {
	startYear := req.StartYear
	if startYear == 0 {
		startYear = time.Now().Year()
	}
	endYear := req.EndYear
	if endYear == 0 {
		endYear = startYear + DefaultHorizonYears
	}
	if endYear < startYear {
		return nil, &YearRangeError{StartYear: startYear, EndYear: endYear}
	}

	assumptions, overrides, err := effectiveAssumptions(plan, req.Scenario)
	if err != nil {
		return nil, err
	}

	items := ProjectPlan(plan, startYear, endYear, assumptions, overrides)
	loanBalance := TotalLoanBalance(plan.Assets)

	summary := &ProjectionSummary{
		StartYear:      startYear,
		EndYear:        endYear,
		Snapshots:      make([]YearlySnapshot, 0, endYear-startYear+1),
		CategoryTotals: seedCategoryTotals(),
	}

	for year := startYear; year <= endYear; year++ {
		snap := SnapshotForYear(year, items, loanBalance)
		summary.Snapshots = append(summary.Snapshots, snap)
		summary.TotalWarnings += len(snap.Warnings)

		for category, value := range snap.AssetsByCategory {
			if summary.CategoryTotals[category] == nil {
				summary.CategoryTotals[category] = make(map[int]decimal.Decimal)
			}
			summary.CategoryTotals[category][year] = value
		}
		summary.CategoryTotals[categoryTotalIncome][year] = snap.TotalIncome
		summary.CategoryTotals[categoryTotalCommitments][year] = snap.TotalCommitments
	}

	return summary, nil
}

// effectiveAssumptions picks the assumptions/overrides pair in force:
// explicit scenario, then the plan's active scenario, then the plan's own.
func effectiveAssumptions(plan FinancialPlan, scenario *Scenario) (PlanAssumptions, []AssumptionOverride, error) {
	if scenario != nil {
		return scenario.Assumptions, scenario.Overrides, nil
	}
	if plan.ActiveScenarioID != "" {
		active := plan.ActiveScenario()
		if active == nil {
			return PlanAssumptions{}, nil, ErrScenarioNotFound
		}
		return active.Assumptions, active.Overrides, nil
	}
	return plan.Assumptions, plan.Overrides, nil
}

func seedCategoryTotals() map[string]map[int]decimal.Decimal {
	totals := make(map[string]map[int]decimal.Decimal, len(DefaultCategories))
	for _, c := range DefaultCategories {
		totals[c] = make(map[int]decimal.Decimal)
	}
	return totals
}
