/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Plans:
    PlanSummaryDTO (listing), plan documents themselves travel as
    factory.PlanJSON

  Projections:
    ProjectionRequestDTO, ProjectionSummaryDTO, SnapshotDTO, WarningDTO

  Rates:
    RatePreviewDTO

  Scenarios:
    DemoScenarioDTO, LoadScenarioRequest

AMOUNTS:
  Internally every amount is a decimal. DTOs carry float64 because the
  charting frontend consumes plain JSON numbers; the loss of precision is
  a display concern only, projections are computed on decimals.

VALIDATION:
  Validation is done in the factory, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: PlanJSON type
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/snowdej/finapp-sub000/engine"
)

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanSummaryDTO is a plan as it appears in listings: metadata only,
// the document is fetched separately.
type PlanSummaryDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SchemaVersion int    `json:"schema_version"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// =============================================================================
// PROJECTION TYPES
// =============================================================================

// ProjectionRequestDTO selects the projection window and scenario.
// Zero years mean "use the defaults" (current year, fifty-year horizon).
type ProjectionRequestDTO struct {
	ScenarioID string `json:"scenario_id,omitempty"`
	StartYear  int    `json:"start_year,omitempty"`
	EndYear    int    `json:"end_year,omitempty"`
}

// ProjectionSummaryDTO is the full projection result.
type ProjectionSummaryDTO struct {
	PlanID         string                     `json:"plan_id"`
	StartYear      int                        `json:"start_year"`
	EndYear        int                        `json:"end_year"`
	Snapshots      []SnapshotDTO              `json:"snapshots"`
	CategoryTotals map[string]map[int]float64 `json:"category_totals"`
	TotalWarnings  int                        `json:"total_warnings"`
}

// SnapshotDTO is one projected year.
type SnapshotDTO struct {
	Year             int                `json:"year"`
	TotalAssets      float64            `json:"total_assets"`
	NetWorth         float64            `json:"net_worth"`
	TotalIncome      float64            `json:"total_income"`
	TotalCommitments float64            `json:"total_commitments"`
	EventImpact      float64            `json:"event_impact"`
	CashFlow         float64            `json:"cash_flow"`
	AssetsByCategory map[string]float64 `json:"assets_by_category"`
	Warnings         []WarningDTO       `json:"warnings,omitempty"`
}

// WarningDTO is a data-quality warning attached to a year.
type WarningDTO struct {
	Year     int    `json:"year"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// =============================================================================
// RATE PREVIEW TYPES
// =============================================================================

// RatePreviewDTO shows the rates an item would use in a given year, with
// the precedence tier each one came from.
type RatePreviewDTO struct {
	ItemID          string  `json:"item_id"`
	Year            int     `json:"year"`
	Growth          float64 `json:"growth"`
	Inflation       float64 `json:"inflation"`
	GrowthSource    string  `json:"growth_source"`
	InflationSource string  `json:"inflation_source"`
	HasOverride     bool    `json:"has_override"`
}

// =============================================================================
// DEMO SCENARIO TYPES
// =============================================================================

// DemoScenarioDTO describes a loadable demo plan.
type DemoScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PlanID      string `json:"plan_id,omitempty"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DOMAIN -> DTO CONVERSION
// =============================================================================

func toProjectionSummaryDTO(planID string, s *engine.ProjectionSummary) ProjectionSummaryDTO {
	dto := ProjectionSummaryDTO{
		PlanID:         planID,
		StartYear:      s.StartYear,
		EndYear:        s.EndYear,
		Snapshots:      make([]SnapshotDTO, len(s.Snapshots)),
		CategoryTotals: make(map[string]map[int]float64, len(s.CategoryTotals)),
		TotalWarnings:  s.TotalWarnings,
	}
	for i, snap := range s.Snapshots {
		dto.Snapshots[i] = toSnapshotDTO(snap)
	}
	for category, series := range s.CategoryTotals {
		out := make(map[int]float64, len(series))
		for year, value := range series {
			out[year] = amount(value)
		}
		dto.CategoryTotals[category] = out
	}
	return dto
}

func toSnapshotDTO(s engine.YearlySnapshot) SnapshotDTO {
	dto := SnapshotDTO{
		Year:             s.Year,
		TotalAssets:      amount(s.TotalAssets),
		NetWorth:         amount(s.NetWorth),
		TotalIncome:      amount(s.TotalIncome),
		TotalCommitments: amount(s.TotalCommitments),
		EventImpact:      amount(s.EventImpact),
		CashFlow:         amount(s.CashFlow),
		AssetsByCategory: make(map[string]float64, len(s.AssetsByCategory)),
	}
	for category, value := range s.AssetsByCategory {
		dto.AssetsByCategory[category] = amount(value)
	}
	for _, w := range s.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{
			Year:     w.Year,
			Type:     string(w.Type),
			Severity: string(w.Severity),
			Message:  w.Message,
		})
	}
	return dto
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
