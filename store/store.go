/*
Package store defines plan persistence.

PURPOSE:
  Plans are documents: the UI edits a whole plan and saves it whole, the
  projection engine reads a whole plan and computes. Storage therefore
  keeps each plan as an opaque JSON document plus a few indexed columns
  (id, name, timestamps). The factory package owns the document shape;
  the store never inspects it.

IMPLEMENTATIONS:
  Memory:       In-memory map, for tests and demo mode
  sqlite.Store: SQLite with WAL, for the server (see store/sqlite)

SEE ALSO:
  - factory/plan.go: Parses the stored document into engine values
  - api/handlers.go: The store's only production caller
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrPlanNotFound is returned when a plan id has no record.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRecord is a stored plan: the raw JSON document plus the columns
// worth indexing.
type PlanRecord struct {
	ID            string
	Name          string
	SchemaVersion int
	Document      []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlanStore persists plan documents.
type PlanStore interface {
	// SavePlan inserts or replaces a plan by id, bumping UpdatedAt.
	SavePlan(ctx context.Context, rec PlanRecord) error

	// GetPlan returns the plan or ErrPlanNotFound.
	GetPlan(ctx context.Context, id string) (*PlanRecord, error)

	// ListPlans returns all plans ordered by name. Documents included.
	ListPlans(ctx context.Context) ([]PlanRecord, error)

	// DeletePlan removes a plan. Deleting a missing plan is not an error.
	DeletePlan(ctx context.Context, id string) error

	// Reset clears all plans (demo and test use only).
	Reset(ctx context.Context) error
}
