/*
Package factory provides JSON to Go plan conversion.

PURPOSE:
  Converts JSON plan documents into engine.FinancialPlan values. This is
  the normalization and validation boundary the projection engine relies
  on: by the time a plan reaches the engine, every numeric field is a
  decimal, every entity kind is resolved, and the structural rules below
  have been checked. The engine itself never re-validates.

WHY JSON?
  - The UI edits plans as documents and saves them whole
  - The store persists the document opaquely (see store/sqlite)
  - Import/export is the same document with a GUID and schema version

JSON SCHEMA (abridged):
  {
    "id": "b2a7...", "name": "Our Plan", "schema_version": 1,
    "people":  [{"id": "p1", "name": "Jo", "date_of_birth": "1980-04-01"}],
    "assets":  [{"id": "a1", "name": "S&S ISA", "category": "ISA",
                 "current_value": 50000, "growth_rate": 5,
                 "loans": [], "value_overrides": {"2030": 75000}}],
    "incomes": [{"id": "i1", "name": "Salary", "amount": 5000,
                 "frequency": "monthly", "start_year": 2024}],
    "commitments": [...], "events": [...],
    "assumptions": {"inflation_rate": 2.5, "asset_growth_rates": {"ISA": 5}},
    "overrides": [{"target": "category", "category": "ISA",
                   "kind": "growth", "value": 3, "start_year": 2030}],
    "scenarios": [...], "active_scenario_id": ""
  }

VALIDATION RULES:
  - plan name required; unknown frequencies rejected
  - current asset values must not be negative (entry-time invariant)
  - non-cash value overrides must not be negative (cash may overdraft)
  - item end year must not precede its start year
  - override targets and rate kinds must be known values
  - at most one scenario may be marked base
  - an active scenario id must name an existing scenario

NORMALIZATION:
  - missing entity ids are assigned fresh GUIDs
  - year-keyed override maps are re-keyed from strings to ints
  - all money and rate figures become decimals

SEE ALSO:
  - engine/types.go: The target model
  - store/sqlite: Persists the same document
*/
package factory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snowdej/finapp-sub000/engine"
)

const dateLayout = "2006-01-02"

// SchemaVersion is the current plan document version.
const SchemaVersion = 1

// ErrInvalidPlan wraps every validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// ValidationError aggregates all problems found in one document, so the UI
// can show them together instead of one per round-trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPlan }

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type PlanJSON struct {
	ID            string           `json:"id,omitempty"`
	Name          string           `json:"name"`
	SchemaVersion int              `json:"schema_version,omitempty"`
	People        []PersonJSON     `json:"people,omitempty"`
	Assets        []AssetJSON      `json:"assets,omitempty"`
	Incomes       []IncomeJSON     `json:"incomes,omitempty"`
	Commitments   []CommitmentJSON `json:"commitments,omitempty"`
	Events        []EventJSON      `json:"events,omitempty"`
	Assumptions   AssumptionsJSON  `json:"assumptions"`
	Overrides     []OverrideJSON   `json:"overrides,omitempty"`
	Scenarios     []ScenarioJSON   `json:"scenarios,omitempty"`

	ActiveScenarioID string `json:"active_scenario_id,omitempty"`
}

type PersonJSON struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Sex         string `json:"sex,omitempty"`
}

type LoanJSON struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type AssetJSON struct {
	ID             string             `json:"id,omitempty"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	CurrentValue   float64            `json:"current_value"`
	OwnerIDs       []string           `json:"owner_ids,omitempty"`
	GrowthRate     *float64           `json:"growth_rate,omitempty"`
	InflationRate  *float64           `json:"inflation_rate,omitempty"`
	Loans          []LoanJSON         `json:"loans,omitempty"`
	ValueOverrides map[string]float64 `json:"value_overrides,omitempty"`
}

type IncomeJSON struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Amount        float64  `json:"amount"`
	Frequency     string   `json:"frequency"`
	StartYear     int      `json:"start_year"`
	EndYear       *int     `json:"end_year,omitempty"`
	OwnerIDs      []string `json:"owner_ids,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	GrowthRate    *float64 `json:"growth_rate,omitempty"`
	InflationRate *float64 `json:"inflation_rate,omitempty"`
}

type CommitmentJSON struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Amount        float64  `json:"amount"`
	Frequency     string   `json:"frequency"`
	StartYear     int      `json:"start_year"`
	EndYear       *int     `json:"end_year,omitempty"`
	OwnerIDs      []string `json:"owner_ids,omitempty"`
	Source        string   `json:"source,omitempty"`
	GrowthRate    *float64 `json:"growth_rate,omitempty"`
	InflationRate *float64 `json:"inflation_rate,omitempty"`
}

type EventJSON struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Year              int      `json:"year"`
	Amount            float64  `json:"amount"`
	Type              string   `json:"type,omitempty"`
	Recurring         bool     `json:"recurring,omitempty"`
	EndYear           *int     `json:"end_year,omitempty"`
	LinkedAssetID     *string  `json:"linked_asset_id,omitempty"`
	AffectedPersonIDs []string `json:"affected_person_ids,omitempty"`
}

type AssumptionsJSON struct {
	InflationRate        float64            `json:"inflation_rate"`
	IncomeGrowthRate     float64            `json:"income_growth_rate"`
	CommitmentGrowthRate float64            `json:"commitment_growth_rate"`
	AssetGrowthRates     map[string]float64 `json:"asset_growth_rates,omitempty"`
	RetirementAge        int                `json:"retirement_age,omitempty"`
	LifeExpectancy       int                `json:"life_expectancy,omitempty"`
	TaxRateLabels        map[string]string  `json:"tax_rate_labels,omitempty"`
}

type OverrideJSON struct {
	Target      string  `json:"target"`
	EntityID    string  `json:"entity_id,omitempty"`
	Category    string  `json:"category,omitempty"`
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	StartYear   *int    `json:"start_year,omitempty"`
	EndYear     *int    `json:"end_year,omitempty"`
	Description string  `json:"description,omitempty"`
}

type ScenarioJSON struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsBase      bool            `json:"is_base,omitempty"`
	Assumptions AssumptionsJSON `json:"assumptions"`
	Overrides   []OverrideJSON  `json:"overrides,omitempty"`
}

// EnsureIDs assigns fresh GUIDs to the plan and any entity missing one,
// so the stored document and the parsed plan agree on identity.
func (pj *PlanJSON) EnsureIDs() {
	pj.ID = orNewID(pj.ID)
	for i := range pj.People {
		pj.People[i].ID = orNewID(pj.People[i].ID)
	}
	for i := range pj.Assets {
		pj.Assets[i].ID = orNewID(pj.Assets[i].ID)
		for j := range pj.Assets[i].Loans {
			pj.Assets[i].Loans[j].ID = orNewID(pj.Assets[i].Loans[j].ID)
		}
	}
	for i := range pj.Incomes {
		pj.Incomes[i].ID = orNewID(pj.Incomes[i].ID)
	}
	for i := range pj.Commitments {
		pj.Commitments[i].ID = orNewID(pj.Commitments[i].ID)
	}
	for i := range pj.Events {
		pj.Events[i].ID = orNewID(pj.Events[i].ID)
	}
	for i := range pj.Scenarios {
		pj.Scenarios[i].ID = orNewID(pj.Scenarios[i].ID)
	}
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// PlanFactory converts JSON plan documents to engine values.
type PlanFactory struct{}

func NewPlanFactory() *PlanFactory {
	return &PlanFactory{}
}

// ParsePlan parses and validates a JSON document.
func (f *PlanFactory) ParsePlan(document []byte) (*engine.FinancialPlan, error) {
	var pj PlanJSON
	if err := gojson.Unmarshal(document, &pj); err != nil {
		return nil, fmt.Errorf("failed to parse plan document: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts an already-decoded document, validating as it goes.
func (f *PlanFactory) FromJSON(pj PlanJSON) (*engine.FinancialPlan, error) {
	v := &validator{}

	plan := &engine.FinancialPlan{
		ID:               orNewID(pj.ID),
		Name:             pj.Name,
		SchemaVersion:    pj.SchemaVersion,
		Assumptions:      convertAssumptions(pj.Assumptions),
		ActiveScenarioID: pj.ActiveScenarioID,
	}
	if plan.SchemaVersion == 0 {
		plan.SchemaVersion = SchemaVersion
	}
	if pj.Name == "" {
		v.addf("plan name is required")
	}

	for _, p := range pj.People {
		person := engine.Person{ID: engine.PersonID(orNewID(p.ID)), Name: p.Name, Sex: p.Sex}
		if p.DateOfBirth != "" {
			dob, err := time.Parse(dateLayout, p.DateOfBirth)
			if err != nil {
				v.addf("person %s: bad date of birth %q", p.Name, p.DateOfBirth)
			} else {
				person.DateOfBirth = dob
			}
		}
		plan.People = append(plan.People, person)
	}

	for _, a := range pj.Assets {
		if a.CurrentValue < 0 {
			v.addf("asset %s: current value must not be negative", a.Name)
		}
		asset := engine.Asset{
			ID:            engine.ItemID(orNewID(a.ID)),
			Name:          a.Name,
			Category:      a.Category,
			CurrentValue:  decimal.NewFromFloat(a.CurrentValue),
			OwnerIDs:      personIDs(a.OwnerIDs),
			GrowthRate:    toRate(a.GrowthRate),
			InflationRate: toRate(a.InflationRate),
		}
		for _, l := range a.Loans {
			asset.Loans = append(asset.Loans, engine.Loan{
				ID:      orNewID(l.ID),
				Name:    l.Name,
				Balance: decimal.NewFromFloat(l.Balance),
			})
		}
		if len(a.ValueOverrides) > 0 {
			asset.ValueOverrides = make(map[int]decimal.Decimal, len(a.ValueOverrides))
			for yearStr, val := range a.ValueOverrides {
				year, err := strconv.Atoi(yearStr)
				if err != nil {
					v.addf("asset %s: bad override year %q", a.Name, yearStr)
					continue
				}
				// Cash may pin negative (overdraft); other categories may not.
				if val < 0 && a.Category != engine.CategoryCash {
					v.addf("asset %s: value override for %s must not be negative", a.Name, yearStr)
					continue
				}
				asset.ValueOverrides[year] = decimal.NewFromFloat(val)
			}
		}
		plan.Assets = append(plan.Assets, asset)
	}

	for _, in := range pj.Incomes {
		v.checkWindow("income", in.Name, in.StartYear, in.EndYear)
		v.checkFrequency("income", in.Name, in.Frequency)
		plan.Incomes = append(plan.Incomes, engine.Income{
			ID:            engine.ItemID(orNewID(in.ID)),
			Name:          in.Name,
			Amount:        decimal.NewFromFloat(in.Amount),
			Frequency:     engine.Frequency(in.Frequency),
			StartYear:     in.StartYear,
			EndYear:       in.EndYear,
			OwnerIDs:      personIDs(in.OwnerIDs),
			Destination:   in.Destination,
			GrowthRate:    toRate(in.GrowthRate),
			InflationRate: toRate(in.InflationRate),
		})
	}

	for _, c := range pj.Commitments {
		v.checkWindow("commitment", c.Name, c.StartYear, c.EndYear)
		v.checkFrequency("commitment", c.Name, c.Frequency)
		plan.Commitments = append(plan.Commitments, engine.Commitment{
			ID:            engine.ItemID(orNewID(c.ID)),
			Name:          c.Name,
			Amount:        decimal.NewFromFloat(c.Amount),
			Frequency:     engine.Frequency(c.Frequency),
			StartYear:     c.StartYear,
			EndYear:       c.EndYear,
			OwnerIDs:      personIDs(c.OwnerIDs),
			Source:        c.Source,
			GrowthRate:    toRate(c.GrowthRate),
			InflationRate: toRate(c.InflationRate),
		})
	}

	for _, e := range pj.Events {
		if e.Recurring {
			v.checkWindow("event", e.Name, e.Year, e.EndYear)
		}
		event := engine.Event{
			ID:                engine.ItemID(orNewID(e.ID)),
			Name:              e.Name,
			Year:              e.Year,
			Amount:            decimal.NewFromFloat(e.Amount),
			Type:              e.Type,
			Recurring:         e.Recurring,
			EndYear:           e.EndYear,
			AffectedPersonIDs: personIDs(e.AffectedPersonIDs),
		}
		if e.LinkedAssetID != nil {
			id := engine.ItemID(*e.LinkedAssetID)
			event.LinkedAssetID = &id
		}
		plan.Events = append(plan.Events, event)
	}

	for _, o := range pj.Overrides {
		plan.Overrides = append(plan.Overrides, convertOverride(o, v))
	}

	baseCount := 0
	for _, s := range pj.Scenarios {
		if s.IsBase {
			baseCount++
		}
		scenario := engine.Scenario{
			ID:          orNewID(s.ID),
			Name:        s.Name,
			Description: s.Description,
			IsBase:      s.IsBase,
			Assumptions: convertAssumptions(s.Assumptions),
		}
		for _, o := range s.Overrides {
			scenario.Overrides = append(scenario.Overrides, convertOverride(o, v))
		}
		plan.Scenarios = append(plan.Scenarios, scenario)
	}
	if baseCount > 1 {
		v.addf("at most one scenario may be marked base, found %d", baseCount)
	}
	if plan.ActiveScenarioID != "" && plan.ActiveScenario() == nil {
		v.addf("active scenario %q not found", plan.ActiveScenarioID)
	}

	if len(v.problems) > 0 {
		return nil, &ValidationError{Problems: v.problems}
	}
	return plan, nil
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func convertAssumptions(aj AssumptionsJSON) engine.PlanAssumptions {
	a := engine.PlanAssumptions{
		InflationRate:        decimal.NewFromFloat(aj.InflationRate),
		IncomeGrowthRate:     decimal.NewFromFloat(aj.IncomeGrowthRate),
		CommitmentGrowthRate: decimal.NewFromFloat(aj.CommitmentGrowthRate),
		AssetGrowthRates:     make(map[string]decimal.Decimal, len(aj.AssetGrowthRates)),
		RetirementAge:        aj.RetirementAge,
		LifeExpectancy:       aj.LifeExpectancy,
		TaxRateLabels:        aj.TaxRateLabels,
	}
	for category, rate := range aj.AssetGrowthRates {
		a.AssetGrowthRates[category] = decimal.NewFromFloat(rate)
	}
	return a
}

func convertOverride(o OverrideJSON, v *validator) engine.AssumptionOverride {
	target := engine.OverrideTarget(o.Target)
	switch target {
	case engine.TargetAsset, engine.TargetIncome, engine.TargetCommitment, engine.TargetCategory:
	default:
		v.addf("override %q: unknown target %q", o.Description, o.Target)
	}

	kind := engine.RateKind(o.Kind)
	switch kind {
	case engine.RateGrowth, engine.RateInflation, engine.RateInterest, engine.RateTax:
	default:
		v.addf("override %q: unknown rate kind %q", o.Description, o.Kind)
	}

	if target == engine.TargetCategory && o.Category == "" {
		v.addf("override %q: category target requires a category", o.Description)
	}

	return engine.AssumptionOverride{
		Target:      target,
		EntityID:    engine.ItemID(o.EntityID),
		Category:    o.Category,
		Kind:        kind,
		Value:       decimal.NewFromFloat(o.Value),
		StartYear:   o.StartYear,
		EndYear:     o.EndYear,
		Description: o.Description,
	}
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) checkWindow(kind, name string, start int, end *int) {
	if end != nil && *end < start {
		v.addf("%s %s: end year %d precedes start year %d", kind, name, *end, start)
	}
}

func (v *validator) checkFrequency(kind, name, freq string) {
	switch engine.Frequency(freq) {
	case engine.FrequencyWeekly, engine.FrequencyMonthly, engine.FrequencyQuarterly, engine.FrequencyAnnually:
	default:
		v.addf("%s %s: unknown frequency %q", kind, name, freq)
	}
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func personIDs(ids []string) []engine.PersonID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]engine.PersonID, len(ids))
	for i, id := range ids {
		out[i] = engine.PersonID(id)
	}
	return out
}

func toRate(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
