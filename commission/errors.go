package commission

import (
	"errors"
	"fmt"

	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnsupportedPeriod: commitment period outside the supported set.
	ErrUnsupportedPeriod = errors.New("unsupported commitment period")

	// ErrInvalidRateCombination: (period, liquidity) pair absent from the Rate Table.
	ErrInvalidRateCombination = errors.New("invalid rate combination")

	// ErrInvalidPrincipal: non-positive or non-numeric principal.
	ErrInvalidPrincipal = errors.New("invalid principal")

	// ErrInvalidStartDate: missing or unparsable start date.
	ErrInvalidStartDate = errors.New("invalid start date")

	// ErrInvalidAdvisorRole: advisor role other than internal or external.
	ErrInvalidAdvisorRole = errors.New("invalid advisor role")

	// ErrInvalidConfig: engine configuration failed validation.
	ErrInvalidConfig = errors.New("invalid engine config")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending input
// =============================================================================

type UnsupportedPeriodError struct {
	Period    int
	Supported []int
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("unsupported commitment period %d months (supported: %v)", e.Period, e.Supported)
}

func (e *UnsupportedPeriodError) Unwrap() error { return ErrUnsupportedPeriod }

type InvalidRateCombinationError struct {
	Period    int
	Liquidity LiquidityClass
}

func (e *InvalidRateCombinationError) Error() string {
	return fmt.Sprintf("no rate defined for commitment period %d months with %s liquidity", e.Period, e.Liquidity)
}

func (e *InvalidRateCombinationError) Unwrap() error { return ErrInvalidRateCombination }

type InvalidPrincipalError struct {
	Raw string
}

func (e *InvalidPrincipalError) Error() string {
	return fmt.Sprintf("invalid principal %q: must be a positive decimal", e.Raw)
}

func (e *InvalidPrincipalError) Unwrap() error { return ErrInvalidPrincipal }

type InvalidStartDateError struct {
	Raw string
}

func (e *InvalidStartDateError) Error() string {
	if e.Raw == "" {
		return "start date is required"
	}
	return fmt.Sprintf("invalid start date %q (use YYYY-MM-DD)", e.Raw)
}

func (e *InvalidStartDateError) Unwrap() error { return ErrInvalidStartDate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInputError returns true if the error is due to an invalid InvestmentFact.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedPeriod) ||
		errors.Is(err, ErrInvalidRateCombination) ||
		errors.Is(err, ErrInvalidPrincipal) ||
		errors.Is(err, ErrInvalidStartDate) ||
		errors.Is(err, ErrInvalidAdvisorRole)
}

// ErrorCode maps an engine error to a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedPeriod):
		return "unsupported_period"
	case errors.Is(err, ErrInvalidRateCombination):
		return "invalid_rate_combination"
	case errors.Is(err, ErrInvalidPrincipal):
		return "invalid_principal"
	case errors.Is(err, ErrInvalidStartDate):
		return "invalid_start_date"
	case errors.Is(err, ErrInvalidAdvisorRole):
		return "invalid_advisor_role"
	case generic.IsNotFound(err):
		return "not_found"
	default:
		return "internal"
	}
}
