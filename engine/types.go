/*
Package engine provides the core household financial projection engine.

PURPOSE:
  This package contains the types and algorithms that turn a financial plan
  (people, assets, income, commitments, life events, assumptions) into a
  year-by-year projection: net worth, cash flow, and category breakdowns.

KEY CONCEPTS IN THIS FILE (types.go):
  - FinancialPlan: The full household model, read-only to the engine
  - Asset/Income/Commitment/Event: Projectable entities
  - Item: The normalized, kind-tagged view shared by resolver and projectors
  - PlanAssumptions/AssumptionOverride/Scenario: The rate hierarchy inputs

DESIGN PRINCIPLES:
  1. Purity: Every computation is a pure function of its inputs. The engine
     never mutates a plan and holds no state between invocations.
  2. Precision: Uses decimal.Decimal for money and rates to avoid
     floating-point drift over 50-year compounding horizons.
  3. Degradation over failure: Questionable data produces Warnings attached
     to the relevant year, never a hard error. Only caller contract
     violations (end year before start year) fail.
  4. Explicit kinds: Entities carry an EntityKind tag resolved once at
     normalization, never re-derived by probing field presence.

USAGE:
  summary, err := engine.CalculateProjections(plan, engine.ProjectionRequest{
      StartYear: 2024,
      EndYear:   2054,
  })

SEE ALSO:
  - rates.go: Rate precedence resolution
  - project.go: Per-entity series projection
  - snapshot.go: Single-year aggregation
  - projection.go: The year-loop orchestrator
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shared decimal constants. Compounding over long horizons touches these on
// every year of every item, so they are built once.
var (
	decimalZero    = decimal.Zero
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// =============================================================================
// IDENTIFIERS AND KINDS
// =============================================================================

type PersonID string
type ItemID string

// EntityKind tags every projectable entity. The tag is assigned when a plan
// is normalized (see the factory package) and carried everywhere after that.
type EntityKind string

const (
	KindAsset      EntityKind = "asset"
	KindIncome     EntityKind = "income"
	KindCommitment EntityKind = "commitment"
	KindEvent      EntityKind = "event"
)

// CategoryIncome and CategoryCommitment are the pseudo-categories used by
// category-level overrides to target income and commitment items, alongside
// real asset categories like "ISA" or "Property".
const (
	CategoryIncome     = "income"
	CategoryCommitment = "commitment"
	CategoryCash       = "Cash"
	CategoryOther      = "Other"
)

// =============================================================================
// FREQUENCY - Per-period to annual conversion
// =============================================================================

type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

var frequencyMultipliers = map[Frequency]decimal.Decimal{
	FrequencyWeekly:    decimal.NewFromInt(52),
	FrequencyMonthly:   decimal.NewFromInt(12),
	FrequencyQuarterly: decimal.NewFromInt(4),
	FrequencyAnnually:  decimalOne,
}

// PeriodsPerYear returns the annualization multiplier for the frequency.
// Unknown frequencies behave as annual; the factory rejects them upstream.
func (f Frequency) PeriodsPerYear() decimal.Decimal {
	if m, ok := frequencyMultipliers[f]; ok {
		return m
	}
	return decimalOne
}

// =============================================================================
// PLAN ENTITIES - Constructed by collaborators, read-only to the engine
// =============================================================================

// Person exists for ownership display and retirement-age status elsewhere.
// The engine reads people but never projects or mutates them.
type Person struct {
	ID          PersonID
	Name        string
	DateOfBirth time.Time
	Sex         string
}

// Loan is an outstanding liability attached to an asset. Loans reduce the
// reported net worth but never the gross asset series. No amortization is
// modeled: the balance is treated as flat across the projection.
type Loan struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

// Asset is a holding with a category (ISA, SIPP, Property, Cash, ...),
// optional declared rates, and optional manual value overrides keyed by
// year. Shared ownership implies an equal split between owners.
type Asset struct {
	ID            ItemID
	Name          string
	Category      string
	CurrentValue  decimal.Decimal
	OwnerIDs      []PersonID
	GrowthRate    *decimal.Decimal
	InflationRate *decimal.Decimal
	Loans         []Loan

	// ValueOverrides pins the projected value for specific years. Later
	// years compound forward from the pinned value, not the prior trajectory.
	ValueOverrides map[int]decimal.Decimal
}

// Income is a recurring inflow active between StartYear and EndYear
// (open-ended when EndYear is nil). Amount is per period of Frequency.
type Income struct {
	ID            ItemID
	Name          string
	Amount        decimal.Decimal
	Frequency     Frequency
	StartYear     int
	EndYear       *int
	OwnerIDs      []PersonID
	Destination   string // cash, asset, external
	GrowthRate    *decimal.Decimal
	InflationRate *decimal.Decimal
}

// Commitment is a recurring outflow. Its projected series is stored as
// negative numbers; aggregation normalizes the sign for display.
type Commitment struct {
	ID            ItemID
	Name          string
	Amount        decimal.Decimal
	Frequency     Frequency
	StartYear     int
	EndYear       *int
	OwnerIDs      []PersonID
	Source        string // cash, asset, external
	GrowthRate    *decimal.Decimal
	InflationRate *decimal.Decimal
}

// Event is a one-off or recurring signed cash impact: an inheritance, a car
// purchase, a wedding. A non-recurring event contributes only in Year; a
// recurring one contributes from Year through EndYear (or indefinitely).
type Event struct {
	ID                ItemID
	Name              string
	Year              int
	Amount            decimal.Decimal // signed
	Type              string
	Recurring         bool
	EndYear           *int
	LinkedAssetID     *ItemID
	AffectedPersonIDs []PersonID
}

// =============================================================================
// ASSUMPTIONS, OVERRIDES, SCENARIOS - The rate hierarchy
// =============================================================================

// PlanAssumptions holds the plan-wide default rates and display-only
// demographic settings. Tax labels are never used in projection math.
type PlanAssumptions struct {
	InflationRate        decimal.Decimal
	IncomeGrowthRate     decimal.Decimal
	CommitmentGrowthRate decimal.Decimal
	AssetGrowthRates     map[string]decimal.Decimal // category -> rate
	RetirementAge        int
	LifeExpectancy       int
	TaxRateLabels        map[string]string
}

// RateKind selects which rate field an override or resolution targets.
type RateKind string

const (
	RateGrowth    RateKind = "growth"
	RateInflation RateKind = "inflation"
	RateInterest  RateKind = "interest"
	RateTax       RateKind = "tax"
)

// OverrideTarget says what an override applies to: a single entity of a
// given kind, or an entire category.
type OverrideTarget string

const (
	TargetAsset      OverrideTarget = "asset"
	TargetIncome     OverrideTarget = "income"
	TargetCommitment OverrideTarget = "commitment"
	TargetCategory   OverrideTarget = "category"
)

// AssumptionOverride is a rate correction with precedence over plan
// defaults, optionally windowed to [StartYear, EndYear].
type AssumptionOverride struct {
	Target      OverrideTarget
	EntityID    ItemID // set when Target is asset/income/commitment
	Category    string // set when Target is category
	Kind        RateKind
	Value       decimal.Decimal
	StartYear   *int
	EndYear     *int
	Description string
}

// AppliesInYear reports whether the override's optional window contains year.
func (o AssumptionOverride) AppliesInYear(year int) bool {
	if o.StartYear != nil && year < *o.StartYear {
		return false
	}
	if o.EndYear != nil && year > *o.EndYear {
		return false
	}
	return true
}

// Scenario is a named alternative assumptions+overrides pairing. When active
// it supersedes the plan's own assumptions and overrides entirely.
type Scenario struct {
	ID          string
	Name        string
	Description string
	IsBase      bool
	Assumptions PlanAssumptions
	Overrides   []AssumptionOverride
}

// =============================================================================
// FINANCIAL PLAN - The engine's sole input
// =============================================================================

// FinancialPlan is the full household model. The engine treats it as an
// immutable snapshot; lifecycle and validation belong to collaborators.
type FinancialPlan struct {
	ID            string
	Name          string
	SchemaVersion int

	People      []Person
	Assets      []Asset
	Incomes     []Income
	Commitments []Commitment
	Events      []Event

	Assumptions PlanAssumptions
	Overrides   []AssumptionOverride
	Scenarios   []Scenario

	// ActiveScenarioID selects a scenario whose assumptions/overrides
	// supersede the plan's own. Empty means the plan's own apply.
	ActiveScenarioID string
}

// ActiveScenario returns the plan's active scenario, or nil.
func (p *FinancialPlan) ActiveScenario() *Scenario {
	if p.ActiveScenarioID == "" {
		return nil
	}
	for i := range p.Scenarios {
		if p.Scenarios[i].ID == p.ActiveScenarioID {
			return &p.Scenarios[i]
		}
	}
	return nil
}

// =============================================================================
// ITEM - Normalized view consumed by the rate resolver
// =============================================================================

// Item is the kind-tagged slice of an entity that rate resolution needs.
// Each entity type converts itself exactly once; nothing downstream ever
// inspects concrete entity fields to guess what it is dealing with.
type Item struct {
	Kind              EntityKind
	ID                ItemID
	Category          string
	DeclaredGrowth    *decimal.Decimal
	DeclaredInflation *decimal.Decimal
}

func (a Asset) Item() Item {
	return Item{
		Kind:              KindAsset,
		ID:                a.ID,
		Category:          a.Category,
		DeclaredGrowth:    a.GrowthRate,
		DeclaredInflation: a.InflationRate,
	}
}

func (i Income) Item() Item {
	return Item{
		Kind:              KindIncome,
		ID:                i.ID,
		Category:          CategoryIncome,
		DeclaredGrowth:    i.GrowthRate,
		DeclaredInflation: i.InflationRate,
	}
}

func (c Commitment) Item() Item {
	return Item{
		Kind:              KindCommitment,
		ID:                c.ID,
		Category:          CategoryCommitment,
		DeclaredGrowth:    c.GrowthRate,
		DeclaredInflation: c.InflationRate,
	}
}
