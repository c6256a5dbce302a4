package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	plans map[string]PlanRecord
}

func NewMemory() *Memory {
	return &Memory{plans: make(map[string]PlanRecord)}
}

func (m *Memory) SavePlan(_ context.Context, rec PlanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.plans[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	// Copy the document so callers can't mutate the stored bytes.
	doc := make([]byte, len(rec.Document))
	copy(doc, rec.Document)
	rec.Document = doc

	m.plans[rec.ID] = rec
	return nil
}

func (m *Memory) GetPlan(_ context.Context, id string) (*PlanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	doc := make([]byte, len(rec.Document))
	copy(doc, rec.Document)
	rec.Document = doc
	return &rec, nil
}

func (m *Memory) ListPlans(_ context.Context) ([]PlanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]PlanRecord, 0, len(m.plans))
	for _, rec := range m.plans {
		doc := make([]byte, len(rec.Document))
		copy(doc, rec.Document)
		rec.Document = doc
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeletePlan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = make(map[string]PlanRecord)
	return nil
}
