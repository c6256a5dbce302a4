package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowdej/finapp-sub000/api"
)

func TestListScenarios(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scenarios")
	require.NoError(t, err)
	defer resp.Body.Close()

	var scenarios []api.DemoScenarioDTO
	decodeBody(t, resp, &scenarios)
	require.Len(t, scenarios, 3)

	ids := make([]string, len(scenarios))
	for i, s := range scenarios {
		ids[i] = s.ID
	}
	assert.Contains(t, ids, "young-family")
	assert.Contains(t, ids, "approaching-retirement")
	assert.Contains(t, ids, "property-ladder")
}

func TestLoadScenario_YoungFamily(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/scenarios/load", `{"scenario_id": "young-family"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]string
	decodeBody(t, resp, &result)
	assert.Equal(t, "loaded", result["status"])
	assert.Equal(t, "plan-young-family", result["plan_id"])

	// The loaded plan projects cleanly.
	projResp := postJSON(t, srv.URL+"/api/plans/plan-young-family/projections",
		`{"start_year": 2024, "end_year": 2034}`)
	require.Equal(t, http.StatusOK, projResp.StatusCode)

	var summary api.ProjectionSummaryDTO
	decodeBody(t, projResp, &summary)
	require.Len(t, summary.Snapshots, 11)
	assert.Greater(t, summary.Snapshots[0].TotalAssets, 300000.0)
	// Mortgage drags net worth below gross assets.
	assert.Less(t, summary.Snapshots[0].NetWorth, summary.Snapshots[0].TotalAssets)
}

func TestLoadScenario_EveryScenarioValidates(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"young-family", "approaching-retirement", "property-ladder"} {
		t.Run(id, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/scenarios/load", `{"scenario_id": "`+id+`"}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestLoadScenario_ReplacesPreviousData(t *testing.T) {
	srv := newTestServer(t)

	createSamplePlan(t, srv)
	postJSON(t, srv.URL+"/api/scenarios/load", `{"scenario_id": "property-ladder"}`)

	resp, err := http.Get(srv.URL + "/api/plans")
	require.NoError(t, err)
	defer resp.Body.Close()

	var plans []api.PlanSummaryDTO
	decodeBody(t, resp, &plans)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-property-ladder", plans[0].ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/scenarios/load", `{"scenario_id": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCurrentScenario(t *testing.T) {
	srv := newTestServer(t)

	// Nothing loaded yet.
	resp, err := http.Get(srv.URL + "/api/scenarios/current")
	require.NoError(t, err)
	var none *api.DemoScenarioDTO
	decodeBody(t, resp, &none)
	resp.Body.Close()
	assert.Nil(t, none)

	postJSON(t, srv.URL+"/api/scenarios/load", `{"scenario_id": "young-family"}`)

	resp, err = http.Get(srv.URL + "/api/scenarios/current")
	require.NoError(t, err)
	defer resp.Body.Close()

	var current api.DemoScenarioDTO
	decodeBody(t, resp, &current)
	assert.Equal(t, "young-family", current.ID)
}
