/*
handlers.go - HTTP API handlers for the financial planning service

PURPOSE:
  Exposes plan storage and the projection engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Plans:
    GET    /api/plans                     List plans (metadata only)
    POST   /api/plans                     Create plan from JSON document
    GET    /api/plans/{id}                Get full plan document
    PUT    /api/plans/{id}                Replace plan document
    DELETE /api/plans/{id}                Delete plan

  Projections:
    POST   /api/plans/{id}/projections    Run a projection

  Rates:
    GET    /api/plans/{id}/rates/preview  Preview resolved rates for an item

  Scenarios:
    GET    /api/scenarios                 List demo scenarios
    POST   /api/scenarios/load            Load a demo scenario
    POST   /api/reset                     Clear all plans (dev only)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (factory)
  3. Call domain logic (engine, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad year ranges
  - 404: Plan, item, or scenario not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	gojson "github.com/goccy/go-json"

	"github.com/snowdej/finapp-sub000/engine"
	"github.com/snowdej/finapp-sub000/factory"
	"github.com/snowdej/finapp-sub000/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   store.PlanStore
	Factory *factory.PlanFactory

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(st store.PlanStore) *Handler {
	return &Handler{
		Store:   st,
		Factory: factory.NewPlanFactory(),
	}
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ListPlans returns all plans as metadata summaries.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}

	dtos := make([]PlanSummaryDTO, len(records))
	for i, rec := range records {
		dtos[i] = PlanSummaryDTO{
			ID:            rec.ID,
			Name:          rec.Name,
			SchemaVersion: rec.SchemaVersion,
			CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetPlan returns the full plan document.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.getRecord(w, r)
	if rec == nil || err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Document)
}

// CreatePlan validates and stores a new plan document.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	h.savePlan(w, r, "")
}

// UpdatePlan replaces an existing plan document. The URL id wins over any
// id inside the document.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	h.savePlan(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) savePlan(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	var pj factory.PlanJSON
	if err := gojson.Unmarshal(body, &pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan document", err)
		return
	}
	if id != "" {
		pj.ID = id
	}
	pj.EnsureIDs()

	plan, err := h.Factory.FromJSON(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Plan validation failed", err)
		return
	}

	document, err := gojson.Marshal(pj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode plan document", err)
		return
	}

	rec := store.PlanRecord{
		ID:            plan.ID,
		Name:          plan.Name,
		SchemaVersion: plan.SchemaVersion,
		Document:      document,
	}
	if err := h.Store.SavePlan(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plan", err)
		return
	}

	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, PlanSummaryDTO{
		ID:            plan.ID,
		Name:          plan.Name,
		SchemaVersion: plan.SchemaVersion,
	})
}

// DeletePlan removes a plan.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// RunProjection projects a stored plan over the requested window.
// POST /api/plans/{id}/projections
func (h *Handler) RunProjection(w http.ResponseWriter, r *http.Request) {
	rec, err := h.getRecord(w, r)
	if rec == nil || err != nil {
		return
	}

	plan, err := h.Factory.ParsePlan(rec.Document)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored plan document is invalid", err)
		return
	}

	var reqDTO ProjectionRequestDTO
	if err := gojson.NewDecoder(r.Body).Decode(&reqDTO); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req := engine.ProjectionRequest{
		StartYear: reqDTO.StartYear,
		EndYear:   reqDTO.EndYear,
	}
	if reqDTO.ScenarioID != "" {
		scenario := findScenario(plan, reqDTO.ScenarioID)
		if scenario == nil {
			writeError(w, http.StatusNotFound, "Scenario not found", nil)
			return
		}
		req.Scenario = scenario
	}

	summary, err := engine.CalculateProjections(*plan, req)
	switch {
	case errors.Is(err, engine.ErrInvalidYearRange):
		writeError(w, http.StatusBadRequest, "Invalid year range", err)
		return
	case errors.Is(err, engine.ErrScenarioNotFound):
		writeError(w, http.StatusNotFound, "Scenario not found", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Projection failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionSummaryDTO(plan.ID, summary))
}

// PreviewRates shows the resolved rates for one item in one year.
// GET /api/plans/{id}/rates/preview?item_id=isa-1&year=2030
func (h *Handler) PreviewRates(w http.ResponseWriter, r *http.Request) {
	rec, err := h.getRecord(w, r)
	if rec == nil || err != nil {
		return
	}

	plan, err := h.Factory.ParsePlan(rec.Document)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored plan document is invalid", err)
		return
	}

	itemID := r.URL.Query().Get("item_id")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item_id query parameter is required", nil)
		return
	}

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
	}

	item, ok := findItem(plan, engine.ItemID(itemID))
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}

	assumptions := plan.Assumptions
	overrides := plan.Overrides
	if scenario := plan.ActiveScenario(); scenario != nil {
		assumptions = scenario.Assumptions
		overrides = scenario.Overrides
	}

	preview := engine.CurrentRates(item, year, assumptions, overrides)
	writeJSON(w, http.StatusOK, RatePreviewDTO{
		ItemID:          itemID,
		Year:            year,
		Growth:          amount(preview.Growth),
		Inflation:       amount(preview.Inflation),
		GrowthSource:    string(preview.GrowthSource),
		InflationSource: string(preview.InflationSource),
		HasOverride:     engine.HasApplicableOverride(item, overrides, year, year),
	})
}

// =============================================================================
// RESET
// =============================================================================

// ResetDatabase clears all plans (dev/demo only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

// getRecord loads the plan named in the URL, writing the error response
// itself when the plan is missing or the store fails.
func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) (*store.PlanRecord, error) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetPlan(r.Context(), id)
	if errors.Is(err, store.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return nil, err
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return nil, err
	}
	return rec, nil
}

func findScenario(plan *engine.FinancialPlan, id string) *engine.Scenario {
	for i := range plan.Scenarios {
		if plan.Scenarios[i].ID == id {
			return &plan.Scenarios[i]
		}
	}
	return nil
}

func findItem(plan *engine.FinancialPlan, id engine.ItemID) (engine.Item, bool) {
	for _, a := range plan.Assets {
		if a.ID == id {
			return a.Item(), true
		}
	}
	for _, in := range plan.Incomes {
		if in.ID == id {
			return in.Item(), true
		}
	}
	for _, c := range plan.Commitments {
		if c.ID == id {
			return c.Item(), true
		}
	}
	return engine.Item{}, false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	gojson.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
