/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built plans that populate the database with realistic
	data for testing and demos. Each scenario creates a complete household
	plan demonstrating specific features.

AVAILABLE SCENARIOS:

	young-family:           Two earners, mortgage, childcare, ISAs
	approaching-retirement: Large pensions, retirement drawdown scenario
	property-ladder:        Single earner saving a deposit, purchase event

HOW SCENARIOS WORK:
 1. Reset database (clear all plans)
 2. Build the plan document in code
 3. Validate through the factory like any client upload
 4. Save it under a fixed plan id

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "young-family"}

ADDING NEW SCENARIOS:
 1. Add to 'demoScenarios' slice with ID, name, description, plan id
 2. Create a builder function: xxxPlan() factory.PlanJSON
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: savePlan validation path the loaders reuse
  - factory/plan.go: Plan JSON definitions
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/snowdej/finapp-sub000/factory"
	"github.com/snowdej/finapp-sub000/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var demoScenarios = []DemoScenarioDTO{
	{
		ID:          "young-family",
		Name:        "Young Family",
		Description: "Two earners, mortgage, childcare commitments, ISA savings",
		PlanID:      "plan-young-family",
	},
	{
		ID:          "approaching-retirement",
		Name:        "Approaching Retirement",
		Description: "Large SIPPs, salary ending at retirement, drawdown scenario",
		PlanID:      "plan-approaching-retirement",
	},
	{
		ID:          "property-ladder",
		Name:        "Property Ladder",
		Description: "Single earner saving a deposit with a purchase event",
		PlanID:      "plan-property-ladder",
	},
}

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, demoScenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range demoScenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, DemoScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined demo plan.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var pj factory.PlanJSON
	switch req.ScenarioID {
	case "young-family":
		pj = youngFamilyPlan()
	case "approaching-retirement":
		pj = approachingRetirementPlan()
	case "property-ladder":
		pj = propertyLadderPlan()
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err := h.saveScenarioPlan(ctx, pj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"plan_id":  pj.ID,
	})
}

// saveScenarioPlan runs a demo plan through the same validation path as a
// client upload before storing it.
func (h *Handler) saveScenarioPlan(ctx context.Context, pj factory.PlanJSON) error {
	pj.EnsureIDs()
	plan, err := h.Factory.FromJSON(pj)
	if err != nil {
		return fmt.Errorf("demo plan failed validation: %w", err)
	}

	document, err := gojson.Marshal(pj)
	if err != nil {
		return err
	}

	return h.Store.SavePlan(ctx, store.PlanRecord{
		ID:            plan.ID,
		Name:          plan.Name,
		SchemaVersion: plan.SchemaVersion,
		Document:      document,
	})
}

// =============================================================================
// PLAN BUILDERS
// =============================================================================

func youngFamilyPlan() factory.PlanJSON {
	return factory.PlanJSON{
		ID:   "plan-young-family",
		Name: "Young Family",
		People: []factory.PersonJSON{
			{ID: "p-alex", Name: "Alex", DateOfBirth: "1990-03-12"},
			{ID: "p-sam", Name: "Sam", DateOfBirth: "1992-07-30"},
		},
		Assets: []factory.AssetJSON{
			{
				ID: "a-home", Name: "Family Home", Category: "Property",
				CurrentValue: 350000, GrowthRate: floatPtr(3),
				OwnerIDs: []string{"p-alex", "p-sam"},
				Loans: []factory.LoanJSON{
					{ID: "l-mortgage", Name: "Mortgage", Balance: 240000},
				},
			},
			{
				ID: "a-isa-alex", Name: "Alex S&S ISA", Category: "ISA",
				CurrentValue: 22000, OwnerIDs: []string{"p-alex"},
			},
			{
				ID: "a-cash", Name: "Joint Savings", Category: "Cash",
				CurrentValue: 8000, OwnerIDs: []string{"p-alex", "p-sam"},
			},
		},
		Incomes: []factory.IncomeJSON{
			{
				ID: "i-alex", Name: "Alex Salary", Amount: 3400,
				Frequency: "monthly", StartYear: 2024, OwnerIDs: []string{"p-alex"},
			},
			{
				ID: "i-sam", Name: "Sam Salary", Amount: 2600,
				Frequency: "monthly", StartYear: 2024, OwnerIDs: []string{"p-sam"},
			},
		},
		Commitments: []factory.CommitmentJSON{
			{
				ID: "c-mortgage", Name: "Mortgage Payments", Amount: 1350,
				Frequency: "monthly", StartYear: 2024, EndYear: intPtr(2049),
			},
			{
				ID: "c-childcare", Name: "Childcare", Amount: 950,
				Frequency: "monthly", StartYear: 2024, EndYear: intPtr(2030),
			},
			{
				ID: "c-living", Name: "Living Costs", Amount: 1800,
				Frequency: "monthly", StartYear: 2024,
			},
		},
		Events: []factory.EventJSON{
			{ID: "e-car", Name: "Replace Car", Year: 2027, Amount: -15000},
		},
		Assumptions: factory.AssumptionsJSON{
			InflationRate:    2.5,
			IncomeGrowthRate: 3,
			AssetGrowthRates: map[string]float64{
				"ISA": 5, "Property": 3, "Cash": 1.5, "Other": 2,
			},
		},
	}
}

func approachingRetirementPlan() factory.PlanJSON {
	return factory.PlanJSON{
		ID:   "plan-approaching-retirement",
		Name: "Approaching Retirement",
		People: []factory.PersonJSON{
			{ID: "p-pat", Name: "Pat", DateOfBirth: "1965-01-20"},
		},
		Assets: []factory.AssetJSON{
			{
				ID: "a-sipp", Name: "SIPP", Category: "SIPP",
				CurrentValue: 620000, GrowthRate: floatPtr(4.5),
			},
			{
				ID: "a-isa", Name: "S&S ISA", Category: "ISA",
				CurrentValue: 180000, GrowthRate: floatPtr(4),
			},
			{
				ID: "a-home", Name: "House", Category: "Property",
				CurrentValue: 450000, GrowthRate: floatPtr(2.5),
			},
		},
		Incomes: []factory.IncomeJSON{
			{
				ID: "i-salary", Name: "Salary", Amount: 5200,
				Frequency: "monthly", StartYear: 2024, EndYear: intPtr(2030),
			},
			{
				ID: "i-pension", Name: "State Pension", Amount: 221,
				Frequency: "weekly", StartYear: 2032,
			},
		},
		Commitments: []factory.CommitmentJSON{
			{
				ID: "c-living", Name: "Living Costs", Amount: 2400,
				Frequency: "monthly", StartYear: 2024,
			},
		},
		Assumptions: factory.AssumptionsJSON{
			InflationRate:  2.5,
			RetirementAge:  65,
			LifeExpectancy: 90,
			AssetGrowthRates: map[string]float64{
				"SIPP": 4.5, "ISA": 4, "Property": 2.5, "Other": 2,
			},
		},
		Scenarios: []factory.ScenarioJSON{
			{
				ID: "scn-drawdown", Name: "Cautious Drawdown", IsBase: false,
				Description: "Lower growth once the portfolio de-risks",
				Assumptions: factory.AssumptionsJSON{
					InflationRate: 3,
					AssetGrowthRates: map[string]float64{
						"SIPP": 3, "ISA": 3, "Property": 2, "Other": 1.5,
					},
				},
			},
		},
	}
}

func propertyLadderPlan() factory.PlanJSON {
	return factory.PlanJSON{
		ID:   "plan-property-ladder",
		Name: "Property Ladder",
		People: []factory.PersonJSON{
			{ID: "p-ash", Name: "Ash", DateOfBirth: "1996-11-02"},
		},
		Assets: []factory.AssetJSON{
			{
				ID: "a-deposit", Name: "Deposit Savings", Category: "Cash",
				CurrentValue: 19000, GrowthRate: floatPtr(4.2),
			},
			{
				ID: "a-lisa", Name: "Lifetime ISA", Category: "ISA",
				CurrentValue: 12000, GrowthRate: floatPtr(5),
			},
		},
		Incomes: []factory.IncomeJSON{
			{
				ID: "i-salary", Name: "Salary", Amount: 2900,
				Frequency: "monthly", StartYear: 2024,
			},
		},
		Commitments: []factory.CommitmentJSON{
			{
				ID: "c-rent", Name: "Rent", Amount: 1100,
				Frequency: "monthly", StartYear: 2024, EndYear: intPtr(2027),
			},
			{
				ID: "c-living", Name: "Living Costs", Amount: 900,
				Frequency: "monthly", StartYear: 2024,
			},
		},
		Events: []factory.EventJSON{
			{ID: "e-purchase", Name: "House Purchase Costs", Year: 2028, Amount: -12000},
		},
		Overrides: []factory.OverrideJSON{
			{
				Target: "category", Category: "Cash", Kind: "growth",
				Value: 2, StartYear: intPtr(2028),
				Description: "Rates expected to fall after purchase",
			},
		},
		Assumptions: factory.AssumptionsJSON{
			InflationRate:    2.5,
			IncomeGrowthRate: 3.5,
			AssetGrowthRates: map[string]float64{
				"ISA": 5, "Cash": 4.2, "Other": 2,
			},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
