/*
errors.go - Centralized error types shared across packages

PURPOSE:
  All cross-package error sentinels in one place for consistency and
  discoverability. The commission package defines its own input-validation
  errors and wraps these where a lower-level failure bubbles up.

ERROR CATEGORIES:
  1. Lookup errors - A referenced record does not exist
  2. Validation errors - Malformed calendar windows or configuration
  3. Store errors - Database-level failures

USAGE:
    if generic.IsNotFound(err) {
        // 404
    }

SEE ALSO:
  - commission/errors.go: Engine input errors
  - store/sqlite/sqlite.go: Returns these errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvestmentNotFound is returned when a referenced investment doesn't exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrPartyNotFound is returned when an advisor or office doesn't exist.
	ErrPartyNotFound = errors.New("party not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrDuplicateRecord is returned when saving a record whose id already exists.
	ErrDuplicateRecord = errors.New("duplicate record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "investment", "party"
	ID   string
	base error
}

func NewNotFoundError(base error, kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id, base: base}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.base
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInvestmentNotFound) ||
		errors.Is(err, ErrPartyNotFound)
}
