package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowdej/finapp-sub000/store"
	"github.com/snowdej/finapp-sub000/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_SaveGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.SavePlan(ctx, store.PlanRecord{
		ID: "plan-1", Name: "Our Plan", SchemaVersion: 1,
		Document: []byte(`{"name":"Our Plan","assets":[]}`),
	})
	require.NoError(t, err)

	rec, err := s.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Our Plan", rec.Name)
	assert.Equal(t, 1, rec.SchemaVersion)
	assert.JSONEq(t, `{"name":"Our Plan","assets":[]}`, string(rec.Document))
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLite_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPlan(context.Background(), "nope")
	assert.True(t, errors.Is(err, store.ErrPlanNotFound))
}

func TestSQLite_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "plan-1", Name: "v1", Document: []byte(`{}`)}))
	first, err := s.GetPlan(ctx, "plan-1")
	require.NoError(t, err)

	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "plan-1", Name: "v2", Document: []byte(`{"v":2}`)}))
	second, err := s.GetPlan(ctx, "plan-1")
	require.NoError(t, err)

	assert.Equal(t, "v2", second.Name)
	assert.JSONEq(t, `{"v":2}`, string(second.Document))
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestSQLite_ListOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "b", Name: "Beta", Document: []byte(`{}`)}))
	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "a", Name: "Alpha", Document: []byte(`{}`)}))

	plans, err := s.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Alpha", plans[0].Name)
	assert.Equal(t, "Beta", plans[1].Name)
}

func TestSQLite_DeleteAndReset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "a", Name: "A", Document: []byte(`{}`)}))
	require.NoError(t, s.DeletePlan(ctx, "a"))
	_, err := s.GetPlan(ctx, "a")
	assert.True(t, errors.Is(err, store.ErrPlanNotFound))

	assert.NoError(t, s.DeletePlan(ctx, "a")) // idempotent

	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "b", Name: "B", Document: []byte(`{}`)}))
	require.NoError(t, s.Reset(ctx))
	plans, err := s.ListPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plans.db")

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.SavePlan(ctx, store.PlanRecord{ID: "a", Name: "A", Document: []byte(`{"n":1}`)}))
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := reopened.GetPlan(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(rec.Document))
}
