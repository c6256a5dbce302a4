/*
rates.go - Rate precedence resolution

PURPOSE:
  Resolves the effective growth or inflation rate for one item in one year
  by walking a fixed precedence chain. This is the contract every projector
  depends on, and the one users reason about when a projection surprises
  them ("why did my ISA grow 10%?").

PRECEDENCE (first match wins):
  1. Item Override      - override targeting this exact entity id
  2. Category Override  - override targeting the item's category
                          (asset type, or the literal "income"/"commitment")
  3. Item Specific      - the item's own declared rate field
  4. Plan Default       - assumptions: inflation -> InflationRate;
                          growth -> Income/CommitmentGrowthRate or
                          AssetGrowthRates[category] with "Other" fallback

  Overrides only participate when their rate kind matches and their optional
  year window contains the year. Resolution always terminates with a numeric
  rate; an empty override list simply falls through.

DESIGN:
  The chain is an explicit ordered rule list rather than a cascade of find
  calls, so the precedence contract is auditable in one place and each tier
  is independently testable. ResolveRate and CurrentRates walk the same
  rules; the preview additionally reports which tier won.

SIDE EFFECTS:
  None. Pure functions throughout.

SEE ALSO:
  - types.go: Item, PlanAssumptions, AssumptionOverride
  - project.go: The projectors calling ResolveRate per year
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// RATE SOURCES - Which precedence tier produced a rate
// =============================================================================

// RateSource labels the precedence tier that produced a resolved rate.
// The labels are user-facing: the assumptions preview UI shows them verbatim.
type RateSource string

const (
	SourceItemOverride     RateSource = "Item Override"
	SourceCategoryOverride RateSource = "Category Override"
	SourceItemSpecific     RateSource = "Item Specific"
	SourcePlanDefault      RateSource = "Plan Default"
)

// =============================================================================
// RULE CHAIN
// =============================================================================

// rateRule is one tier of the precedence chain. resolve reports whether the
// tier matched and, if so, the rate it produced.
type rateRule struct {
	source  RateSource
	resolve func(q rateQuery) (decimal.Decimal, bool)
}

type rateQuery struct {
	item        Item
	kind        RateKind
	year        int
	assumptions PlanAssumptions
	overrides   []AssumptionOverride
}

// rateRules is the precedence chain, in order. The last rule always matches.
var rateRules = []rateRule{
	{SourceItemOverride, resolveItemOverride},
	{SourceCategoryOverride, resolveCategoryOverride},
	{SourceItemSpecific, resolveDeclaredRate},
	{SourcePlanDefault, resolvePlanDefault},
}

// ResolveRate resolves the rate of the given kind for one item in one year,
// as a percentage (5.0 means 5%).
func ResolveRate(item Item, kind RateKind, year int, assumptions PlanAssumptions, overrides []AssumptionOverride) decimal.Decimal {
	rate, _ := resolveWithSource(rateQuery{item, kind, year, assumptions, overrides})
	return rate
}

func resolveWithSource(q rateQuery) (decimal.Decimal, RateSource) {
	for _, rule := range rateRules {
		if rate, ok := rule.resolve(q); ok {
			return rate, rule.source
		}
	}
	// Unreachable: resolvePlanDefault always matches.
	return decimalZero, SourcePlanDefault
}

// =============================================================================
// TIER 1: ITEM-LEVEL OVERRIDE
// =============================================================================

func resolveItemOverride(q rateQuery) (decimal.Decimal, bool) {
	for _, ov := range q.overrides {
		if OverrideTarget(q.item.Kind) != ov.Target {
			continue
		}
		if ov.EntityID != q.item.ID || ov.Kind != q.kind {
			continue
		}
		if !ov.AppliesInYear(q.year) {
			continue
		}
		return ov.Value, true
	}
	return decimalZero, false
}

// =============================================================================
// TIER 2: CATEGORY-LEVEL OVERRIDE
// =============================================================================

func resolveCategoryOverride(q rateQuery) (decimal.Decimal, bool) {
	for _, ov := range q.overrides {
		if ov.Target != TargetCategory {
			continue
		}
		if ov.Category != q.item.Category || ov.Kind != q.kind {
			continue
		}
		if !ov.AppliesInYear(q.year) {
			continue
		}
		return ov.Value, true
	}
	return decimalZero, false
}

// =============================================================================
// TIER 3: THE ITEM'S OWN DECLARED RATE
// =============================================================================

func resolveDeclaredRate(q rateQuery) (decimal.Decimal, bool) {
	switch q.kind {
	case RateGrowth:
		if q.item.DeclaredGrowth != nil {
			return *q.item.DeclaredGrowth, true
		}
	case RateInflation:
		if q.item.DeclaredInflation != nil {
			return *q.item.DeclaredInflation, true
		}
	}
	return decimalZero, false
}

// =============================================================================
// TIER 4: PLAN/SCENARIO DEFAULT (always matches)
// =============================================================================

func resolvePlanDefault(q rateQuery) (decimal.Decimal, bool) {
	if q.kind == RateInflation {
		return q.assumptions.InflationRate, true
	}

	switch q.item.Kind {
	case KindIncome:
		return q.assumptions.IncomeGrowthRate, true
	case KindCommitment:
		return q.assumptions.CommitmentGrowthRate, true
	default:
		if rate, ok := q.assumptions.AssetGrowthRates[q.item.Category]; ok {
			return rate, true
		}
		if rate, ok := q.assumptions.AssetGrowthRates[CategoryOther]; ok {
			return rate, true
		}
		return decimalZero, true
	}
}

// =============================================================================
// RATE PREVIEW - Transparency helper for the assumptions UI
// =============================================================================

// RatePreview reports the resolved growth and inflation rates for one item
// in one year, plus the precedence tier each rate came from.
type RatePreview struct {
	Growth          decimal.Decimal
	Inflation       decimal.Decimal
	GrowthSource    RateSource
	InflationSource RateSource
}

// CurrentRates is a read-only preview of what ResolveRate would produce for
// both rate kinds, used to explain projections to the user.
func CurrentRates(item Item, year int, assumptions PlanAssumptions, overrides []AssumptionOverride) RatePreview {
	growth, growthSrc := resolveWithSource(rateQuery{item, RateGrowth, year, assumptions, overrides})
	inflation, inflationSrc := resolveWithSource(rateQuery{item, RateInflation, year, assumptions, overrides})
	return RatePreview{
		Growth:          growth,
		Inflation:       inflation,
		GrowthSource:    growthSrc,
		InflationSource: inflationSrc,
	}
}

// HasApplicableOverride reports whether any growth or inflation override
// targets the item (directly or via its category) anywhere in [startYear,
// endYear]. Used purely for UI highlighting of overridden items.
func HasApplicableOverride(item Item, overrides []AssumptionOverride, startYear, endYear int) bool {
	for _, ov := range overrides {
		if ov.Kind != RateGrowth && ov.Kind != RateInflation {
			continue
		}
		direct := OverrideTarget(item.Kind) == ov.Target && ov.EntityID == item.ID
		byCategory := ov.Target == TargetCategory && ov.Category == item.Category
		if !direct && !byCategory {
			continue
		}
		if windowOverlaps(ov, startYear, endYear) {
			return true
		}
	}
	return false
}

func windowOverlaps(ov AssumptionOverride, startYear, endYear int) bool {
	if ov.StartYear != nil && *ov.StartYear > endYear {
		return false
	}
	if ov.EndYear != nil && *ov.EndYear < startYear {
		return false
	}
	return true
}
