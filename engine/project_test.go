package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowdej/finapp-sub000/engine"
)

// =============================================================================
// ASSET PROJECTOR TESTS
// =============================================================================

func TestProjectAsset_Compounding(t *testing.T) {
	// GIVEN: An asset of 50000 with 5% growth, 0% inflation
	// WHEN:  Projecting two years
	// THEN:  Start year holds the seed value; year two is 52500

	asset := isaAsset("isa-1", 50000, 5)
	item := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), nil)

	assertAmount(t, 50000, item.ValueAt(2024))
	assertAmount(t, 52500, item.ValueAt(2025))
	assertAmount(t, 55125, item.ValueAt(2026))
	assert.Empty(t, item.Warnings)
}

func TestProjectAsset_InflationReducesEffectiveRate(t *testing.T) {
	asset := isaAsset("isa-1", 10000, 5)
	asset.InflationRate = decPtr(2)

	item := engine.ProjectAsset(asset, 2024, 2025, baseAssumptions(), nil)
	assertAmount(t, 10300, item.ValueAt(2025)) // 5% - 2% = 3%
}

func TestProjectAsset_ManualOverrideCompoundsForward(t *testing.T) {
	// GIVEN: An asset pinned to 75000 in 2025 with 5% growth
	// WHEN:  Projecting past the pin
	// THEN:  2026 compounds from the pin (78750), not the old trajectory

	asset := isaAsset("isa-1", 50000, 5)
	asset.ValueOverrides = map[int]decimal.Decimal{2025: dec(75000)}

	item := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), nil)

	assertAmount(t, 75000, item.ValueAt(2025))
	assertAmount(t, 78750, item.ValueAt(2026))
}

func TestProjectAsset_ManualOverrideAtStartYearReplacesSeed(t *testing.T) {
	asset := isaAsset("isa-1", 50000, 0)
	asset.ValueOverrides = map[int]decimal.Decimal{2024: dec(60000)}

	item := engine.ProjectAsset(asset, 2024, 2025, baseAssumptions(), nil)
	assertAmount(t, 60000, item.ValueAt(2024))
	assertAmount(t, 60000, item.ValueAt(2025))
}

func TestProjectAsset_SeriesStartsAtPlanStartYear(t *testing.T) {
	asset := isaAsset("isa-1", 1000, 0)
	item := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), nil)

	require.Len(t, item.Values, 3)
	assertAmount(t, 1000, item.ValueAt(2024))
}

func TestProjectAsset_NonCashClampedToZero(t *testing.T) {
	// GIVEN: A non-cash asset pinned to a negative value in 2025
	// WHEN:  Projecting that year
	// THEN:  The value is exactly 0 with a single high negative_balance warning

	asset := isaAsset("isa-1", 50000, 0)
	asset.ValueOverrides = map[int]decimal.Decimal{2025: dec(-10000)}

	item := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), nil)

	assert.True(t, item.ValueAt(2025).IsZero(), "clamped to exactly zero")

	warnings := warningsOfType(item.Warnings, engine.WarnNegativeBalance)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2025, warnings[0].Year)
	assert.Equal(t, engine.SeverityHigh, warnings[0].Severity)

	// Compounding continues from zero, not from the negative value.
	assert.True(t, item.ValueAt(2026).IsZero())
}

func TestProjectAsset_NegativePinAtStartYearClamped(t *testing.T) {
	// GIVEN: A non-cash asset pinned to a negative value in the plan's
	//        start year, where no compounding step runs
	// WHEN:  Projecting from that year
	// THEN:  The start year is clamped to exactly 0 with a single high
	//        negative_balance warning, same as any later year

	asset := isaAsset("isa-1", 50000, 0)
	asset.ValueOverrides = map[int]decimal.Decimal{2024: dec(-10000)}

	item := engine.ProjectAsset(asset, 2024, 2025, baseAssumptions(), nil)

	assert.True(t, item.ValueAt(2024).IsZero(), "clamped to exactly zero")

	warnings := warningsOfType(item.Warnings, engine.WarnNegativeBalance)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2024, warnings[0].Year)
	assert.Equal(t, engine.SeverityHigh, warnings[0].Severity)
}

func TestProjectAsset_NegativeFromCompoundingClamped(t *testing.T) {
	// A rate below -100% drives the value negative in one step.
	asset := isaAsset("isa-1", 1000, -150)

	item := engine.ProjectAsset(asset, 2024, 2025, baseAssumptions(), nil)

	assert.True(t, item.ValueAt(2025).IsZero())
	require.Len(t, warningsOfType(item.Warnings, engine.WarnNegativeBalance), 1)
}

func TestProjectAsset_CashMayGoNegative(t *testing.T) {
	// Cash is the one category allowed below zero (overdraft).
	cash := engine.Asset{ID: "cash-1", Name: "cash-1", Category: engine.CategoryCash, CurrentValue: dec(100)}
	cash.ValueOverrides = map[int]decimal.Decimal{2025: dec(-500)}

	item := engine.ProjectAsset(cash, 2024, 2025, baseAssumptions(), nil)

	assertAmount(t, -500, item.ValueAt(2025))
	assert.Empty(t, warningsOfType(item.Warnings, engine.WarnNegativeBalance))
}

func TestProjectAsset_UnrealisticGrowthWarning(t *testing.T) {
	asset := isaAsset("isa-1", 1000, 60)

	item := engine.ProjectAsset(asset, 2024, 2025, baseAssumptions(), nil)

	warnings := warningsOfType(item.Warnings, engine.WarnUnrealisticGrowth)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2025, warnings[0].Year)
	assert.Equal(t, engine.SeverityMedium, warnings[0].Severity)

	// The value is still projected; the bound is a heuristic, not a clamp.
	assertAmount(t, 1600, item.ValueAt(2025))
}

func TestProjectAsset_HasOverridesFlag(t *testing.T) {
	asset := isaAsset("isa-1", 1000, 5)
	overrides := []engine.AssumptionOverride{
		{Target: engine.TargetCategory, Category: "ISA", Kind: engine.RateGrowth, Value: dec(3)},
	}

	with := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), overrides)
	without := engine.ProjectAsset(asset, 2024, 2026, baseAssumptions(), nil)

	assert.True(t, with.HasOverrides)
	assert.False(t, without.HasOverrides)
}

// =============================================================================
// INCOME PROJECTOR TESTS
// =============================================================================

func TestProjectIncome_Annualization(t *testing.T) {
	tests := []struct {
		frequency engine.Frequency
		amount    float64
		annual    float64
	}{
		{engine.FrequencyWeekly, 500, 26000},
		{engine.FrequencyMonthly, 1500, 18000},
		{engine.FrequencyQuarterly, 3000, 12000},
		{engine.FrequencyAnnually, 40000, 40000},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			in := monthlySalary("inc-1", tt.amount, 2024, nil)
			in.Frequency = tt.frequency
			item := engine.ProjectIncome(in, 2024, 2024, baseAssumptions(), nil)
			assertAmount(t, tt.annual, item.ValueAt(2024))
		})
	}
}

func TestProjectIncome_WindowExclusion(t *testing.T) {
	// GIVEN: A monthly income of 5000 active only in 2024
	// WHEN:  Projecting 2024-2025
	// THEN:  60000 in 2024 and exactly 0 in 2025

	in := monthlySalary("inc-1", 5000, 2024, intPtr(2024))
	item := engine.ProjectIncome(in, 2024, 2025, baseAssumptions(), nil)

	assertAmount(t, 60000, item.ValueAt(2024))
	assert.True(t, item.ValueAt(2025).IsZero())
}

func TestProjectIncome_ZeroBeforeItemStart(t *testing.T) {
	// The series still spans the plan range; years before the item's own
	// start year are explicit zeros.
	in := monthlySalary("inc-1", 5000, 2026, nil)
	item := engine.ProjectIncome(in, 2024, 2027, baseAssumptions(), nil)

	assert.True(t, item.ValueAt(2024).IsZero())
	assert.True(t, item.ValueAt(2025).IsZero())
	assertAmount(t, 60000, item.ValueAt(2026))
}

func TestProjectIncome_CompoundsFromItemStartYear(t *testing.T) {
	// GIVEN: A salary starting 2026 with 10% growth, plan starting 2024
	// WHEN:  Projecting 2027
	// THEN:  One year of growth has elapsed since the item start, not three

	in := monthlySalary("inc-1", 1000, 2026, nil)
	in.GrowthRate = decPtr(10)

	item := engine.ProjectIncome(in, 2024, 2027, baseAssumptions(), nil)

	assertAmount(t, 12000, item.ValueAt(2026))
	assertAmount(t, 13200, item.ValueAt(2027))
}

func TestProjectIncome_NegativeAmountWarnsButPassesThrough(t *testing.T) {
	in := monthlySalary("inc-1", -1000, 2024, nil)
	item := engine.ProjectIncome(in, 2024, 2024, baseAssumptions(), nil)

	assertAmount(t, -12000, item.ValueAt(2024))
	warnings := warningsOfType(item.Warnings, engine.WarnNegativeIncome)
	require.Len(t, warnings, 1)
	assert.Equal(t, engine.SeverityMedium, warnings[0].Severity)
}

// =============================================================================
// COMMITMENT PROJECTOR TESTS
// =============================================================================

func TestProjectCommitment_StoredNegative(t *testing.T) {
	c := monthlyRent("rent-1", 1500, 2024, nil)
	item := engine.ProjectCommitment(c, 2024, 2024, baseAssumptions(), nil)

	assertAmount(t, -18000, item.ValueAt(2024))
}

func TestProjectCommitment_CompoundsByInflation(t *testing.T) {
	// Commitments track inflation, not growth.
	c := monthlyRent("rent-1", 1000, 2024, nil)
	assumptions := baseAssumptions()
	assumptions.InflationRate = dec(10)
	assumptions.CommitmentGrowthRate = dec(99) // must be ignored

	item := engine.ProjectCommitment(c, 2024, 2025, baseAssumptions(), nil)
	assertAmount(t, -12000, item.ValueAt(2025))

	item = engine.ProjectCommitment(c, 2024, 2025, assumptions, nil)
	assertAmount(t, -13200, item.ValueAt(2025))
}

func TestProjectCommitment_NegativeAmountWarning(t *testing.T) {
	c := monthlyRent("rent-1", -100, 2024, nil)
	item := engine.ProjectCommitment(c, 2024, 2024, baseAssumptions(), nil)

	require.Len(t, warningsOfType(item.Warnings, engine.WarnNegativeCommitment), 1)
}

// =============================================================================
// EVENT PROJECTOR TESTS
// =============================================================================

func TestProjectEvent_OneOffContributesOnlyInItsYear(t *testing.T) {
	e := engine.Event{ID: "ev-1", Name: "inheritance", Year: 2025, Amount: dec(20000)}

	item, ok := engine.ProjectEvent(e, 2024, 2026)
	require.True(t, ok)

	assert.True(t, item.ValueAt(2024).IsZero())
	assertAmount(t, 20000, item.ValueAt(2025))
	assert.True(t, item.ValueAt(2026).IsZero())
}

func TestProjectEvent_RecurringWithEndYear(t *testing.T) {
	e := engine.Event{
		ID: "ev-1", Name: "school fees", Year: 2024, Amount: dec(-9000),
		Recurring: true, EndYear: intPtr(2025),
	}

	item, ok := engine.ProjectEvent(e, 2024, 2027)
	require.True(t, ok)

	assertAmount(t, -9000, item.ValueAt(2024))
	assertAmount(t, -9000, item.ValueAt(2025))
	assert.True(t, item.ValueAt(2026).IsZero())
}

func TestProjectEvent_RecurringOpenEnded(t *testing.T) {
	e := engine.Event{ID: "ev-1", Name: "ground rent", Year: 2025, Amount: dec(-300), Recurring: true}

	item, ok := engine.ProjectEvent(e, 2024, 2027)
	require.True(t, ok)

	assert.True(t, item.ValueAt(2024).IsZero())
	assertAmount(t, -300, item.ValueAt(2026))
	assertAmount(t, -300, item.ValueAt(2027))
}

func TestProjectEvent_OutsideRangeOmitted(t *testing.T) {
	// GIVEN: A one-off event dated after the projection horizon
	// WHEN:  Projecting
	// THEN:  The event is dropped from the item list entirely

	e := engine.Event{ID: "ev-1", Name: "far future", Year: 2060, Amount: dec(5000)}
	_, ok := engine.ProjectEvent(e, 2024, 2026)
	assert.False(t, ok)
}

func TestProjectEvent_ZeroAmountOmitted(t *testing.T) {
	e := engine.Event{ID: "ev-1", Name: "placeholder", Year: 2025, Amount: dec(0)}
	_, ok := engine.ProjectEvent(e, 2024, 2026)
	assert.False(t, ok)
}
