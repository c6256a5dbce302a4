/*
Package sqlite provides a SQLite-backed implementation of the plan store.

PURPOSE:
  Implements store.PlanStore using SQLite. Plans are stored as whole JSON
  documents with indexed metadata columns. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLE:
  plans: One row per plan. The document column holds the raw JSON the
         factory package understands; id, name, schema_version and the
         timestamps are there for listing and diagnostics.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/plans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/snowdej/finapp-sub000/store"
)

// Store implements store.PlanStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		schema_version INTEGER NOT NULL DEFAULT 1,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_name ON plans(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLAN STORE (store.PlanStore interface)
// =============================================================================

// SavePlan inserts or replaces a plan. created_at survives replacement.
func (s *Store) SavePlan(ctx context.Context, rec store.PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO plans (id, name, schema_version, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			schema_version = excluded.schema_version,
			document = excluded.document,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.SchemaVersion, string(rec.Document), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", rec.ID, err)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*store.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec store.PlanRecord
	var document, createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, schema_version, document, created_at, updated_at FROM plans WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Name, &rec.SchemaVersion, &document, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", id, err)
	}

	rec.Document = []byte(document)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListPlans returns all plans ordered by name.
func (s *Store) ListPlans(ctx context.Context) ([]store.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, schema_version, document, created_at, updated_at FROM plans ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []store.PlanRecord
	for rows.Next() {
		var rec store.PlanRecord
		var document, createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SchemaVersion, &document, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		rec.Document = []byte(document)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		plans = append(plans, rec)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan. Deleting a missing plan is not an error.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	return err
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM plans")
	return err
}
