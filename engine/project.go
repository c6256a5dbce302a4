/*
project.go - Per-entity series projection

PURPOSE:
  Produces a {year -> value} series for a single entity across the full
  requested range. Four variants share the same shape:

  Asset:      seed currentValue, compound by (growth - inflation) each year,
              honor manual per-year value pins, clamp non-cash negatives.
  Income:     zero outside [StartYear, EndYear]; inside, annualize the
              per-period amount and compound by the growth rate from the
              item's own start year.
  Commitment: like income but compounds by the inflation rate and the
              series is stored negative (outflow).
  Event:      signed amount in its year, or every year of its recurrence;
              events contributing nothing in the range are omitted.

KEY INSIGHT:
  Every series begins at the PLAN's start year, not the entity's. Years
  outside an entity's activation window hold explicit zeros, so snapshots
  can sum blindly without re-checking windows.

  Rates are re-resolved for every year because overrides can be windowed:
  a 2%-until-2030 override must stop mattering in 2031.

WARNINGS:
  Projectors emit warnings for the year they detect a problem in, across
  the whole range. The snapshot layer filters to the year it reports on.

SEE ALSO:
  - rates.go: ResolveRate, HasApplicableOverride
  - snapshot.go: Aggregation of projected items
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// PROJECTION ITEM - One entity's full projected series
// =============================================================================

// ProjectionItem is one entity's yearly value series plus metadata.
type ProjectionItem struct {
	ID       ItemID
	Name     string
	Kind     EntityKind
	Category string

	// Values maps every year of [startYear, endYear] to the projected
	// value. Commitments are negative, events are signed.
	Values map[int]decimal.Decimal

	// HasOverrides is true when any rate override applies to this item
	// anywhere in the range. UI highlighting only.
	HasOverrides bool

	Warnings []Warning
}

// ValueAt returns the projected value for a year, zero outside the range.
func (p ProjectionItem) ValueAt(year int) decimal.Decimal {
	if v, ok := p.Values[year]; ok {
		return v
	}
	return decimalZero
}

// =============================================================================
// ASSET PROJECTOR
// =============================================================================

// ProjectAsset compounds an asset's value from the plan start year through
// endYear. Manual value overrides pin the value for their year; subsequent
// years compound forward from the pin.
func ProjectAsset(a Asset, startYear, endYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) ProjectionItem {
	item := a.Item()
	out := ProjectionItem{
		ID:           a.ID,
		Name:         a.Name,
		Kind:         KindAsset,
		Category:     a.Category,
		Values:       make(map[int]decimal.Decimal, endYear-startYear+1),
		HasOverrides: HasApplicableOverride(item, overrides, startYear, endYear),
	}

	value := a.CurrentValue
	if pinned, ok := a.ValueOverrides[startYear]; ok {
		value = pinned
	}
	// The start year gets the same non-cash clamp as every later year; a
	// negative pin must not leak through just because no compounding ran.
	if a.Category != CategoryCash && value.IsNegative() {
		value = decimalZero
		out.Warnings = append(out.Warnings, negativeBalanceWarning(a.Name, startYear))
	}
	out.Values[startYear] = value

	for year := startYear + 1; year <= endYear; year++ {
		growth := ResolveRate(item, RateGrowth, year, assumptions, overrides)
		inflation := ResolveRate(item, RateInflation, year, assumptions, overrides)
		effective := growth.Sub(inflation)

		if effective.Abs().GreaterThan(UnrealisticRateThreshold) {
			out.Warnings = append(out.Warnings, unrealisticGrowthWarning(a.Name, year, effective))
		}

		value = value.Mul(decimalOne.Add(effective.Div(decimalHundred)))
		if pinned, ok := a.ValueOverrides[year]; ok {
			value = pinned
		}

		// Non-cash holdings cannot go negative; cash can (overdraft).
		if a.Category != CategoryCash && value.IsNegative() {
			value = decimalZero
			out.Warnings = append(out.Warnings, negativeBalanceWarning(a.Name, year))
		}

		out.Values[year] = value
	}

	return out
}

// =============================================================================
// INCOME / COMMITMENT PROJECTORS
// =============================================================================

// ProjectIncome builds an income series: zero outside the activation window,
// annualized and compounded by the resolved growth rate inside it.
func ProjectIncome(in Income, startYear, endYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) ProjectionItem {
	item := in.Item()
	out := recurringSeries(recurringInput{
		item:      item,
		name:      in.Name,
		amount:    in.Amount,
		frequency: in.Frequency,
		itemStart: in.StartYear,
		itemEnd:   in.EndYear,
		rateKind:  RateGrowth,
		negate:    false,
	}, startYear, endYear, assumptions, overrides)
	return out
}

// ProjectCommitment builds a commitment series. It compounds by the resolved
// inflation rate and stores values negated to represent outflow.
func ProjectCommitment(c Commitment, startYear, endYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) ProjectionItem {
	item := c.Item()
	out := recurringSeries(recurringInput{
		item:      item,
		name:      c.Name,
		amount:    c.Amount,
		frequency: c.Frequency,
		itemStart: c.StartYear,
		itemEnd:   c.EndYear,
		rateKind:  RateInflation,
		negate:    true,
	}, startYear, endYear, assumptions, overrides)
	return out
}

type recurringInput struct {
	item      Item
	name      string
	amount    decimal.Decimal
	frequency Frequency
	itemStart int
	itemEnd   *int
	rateKind  RateKind
	negate    bool
}

func recurringSeries(in recurringInput, startYear, endYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) ProjectionItem {
	out := ProjectionItem{
		ID:           in.item.ID,
		Name:         in.name,
		Kind:         in.item.Kind,
		Category:     in.item.Category,
		Values:       make(map[int]decimal.Decimal, endYear-startYear+1),
		HasOverrides: HasApplicableOverride(in.item, overrides, startYear, endYear),
	}

	annual := in.amount.Mul(in.frequency.PeriodsPerYear())

	for year := startYear; year <= endYear; year++ {
		if year < in.itemStart || (in.itemEnd != nil && year > *in.itemEnd) {
			out.Values[year] = decimalZero
			continue
		}

		rate := ResolveRate(in.item, in.rateKind, year, assumptions, overrides)
		elapsed := year - in.itemStart
		value := annual.Mul(decimalOne.Add(rate.Div(decimalHundred)).Pow(decimal.NewFromInt(int64(elapsed))))

		// Negative amounts flow through unclamped, unlike assets.
		if value.IsNegative() {
			out.Warnings = append(out.Warnings, negativeAmountWarning(in.item.Kind, in.name, year))
		}

		if in.negate {
			value = value.Neg()
		}
		out.Values[year] = value
	}

	return out
}

// =============================================================================
// EVENT PROJECTOR
// =============================================================================

// ProjectEvent builds an event's signed contribution series. The second
// return is false when the event contributes nothing anywhere in the range;
// such events are dropped from the item list entirely.
func ProjectEvent(e Event, startYear, endYear int) (ProjectionItem, bool) {
	out := ProjectionItem{
		ID:       e.ID,
		Name:     e.Name,
		Kind:     KindEvent,
		Category: e.Type,
		Values:   make(map[int]decimal.Decimal, endYear-startYear+1),
	}

	contributes := false
	for year := startYear; year <= endYear; year++ {
		value := decimalZero
		switch {
		case !e.Recurring:
			if year == e.Year {
				value = e.Amount
			}
		case year >= e.Year && (e.EndYear == nil || year <= *e.EndYear):
			value = e.Amount
		}
		if !value.IsZero() {
			contributes = true
		}
		out.Values[year] = value
	}

	return out, contributes
}

// =============================================================================
// PLAN-WIDE PROJECTION
// =============================================================================

// ProjectPlan runs every projector once across the full range and returns
// the combined item list, assets first, in plan order.
func ProjectPlan(plan FinancialPlan, startYear, endYear int, assumptions PlanAssumptions, overrides []AssumptionOverride) []ProjectionItem {
	items := make([]ProjectionItem, 0, len(plan.Assets)+len(plan.Incomes)+len(plan.Commitments)+len(plan.Events))

	for _, a := range plan.Assets {
		items = append(items, ProjectAsset(a, startYear, endYear, assumptions, overrides))
	}
	for _, in := range plan.Incomes {
		items = append(items, ProjectIncome(in, startYear, endYear, assumptions, overrides))
	}
	for _, c := range plan.Commitments {
		items = append(items, ProjectCommitment(c, startYear, endYear, assumptions, overrides))
	}
	for _, e := range plan.Events {
		if item, ok := ProjectEvent(e, startYear, endYear); ok {
			items = append(items, item)
		}
	}

	return items
}
