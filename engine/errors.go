/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  The engine deliberately has almost no error surface: malformed business
  data becomes a Warning (see warnings.go), never an error. The errors here
  cover caller contract violations only - conditions the upstream validation
  layer (factory package) is expected to prevent.

USAGE:
  if errors.Is(err, engine.ErrInvalidYearRange) { ... }

SEE ALSO:
  - projection.go: The only producer of these errors
  - factory: Upstream validation that should make them unreachable
*/
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidYearRange is returned when the requested end year precedes
	// the start year.
	ErrInvalidYearRange = errors.New("invalid year range: end before start")

	// ErrScenarioNotFound is returned when a plan names an active scenario
	// that does not exist in its scenario list.
	ErrScenarioNotFound = errors.New("active scenario not found")
)

// YearRangeError carries the offending bounds.
type YearRangeError struct {
	StartYear int
	EndYear   int
}

func (e *YearRangeError) Error() string {
	return fmt.Sprintf("invalid year range: end %d before start %d", e.EndYear, e.StartYear)
}

func (e *YearRangeError) Unwrap() error {
	return ErrInvalidYearRange
}
