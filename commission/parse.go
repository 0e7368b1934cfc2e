package commission

import (
	"fmt"
	"strings"

	"github.com/warp/commission-engine/generic"
)

// ParsePrincipal parses a caller-supplied principal. Non-numeric and
// non-positive values fail with InvalidPrincipalError.
func ParsePrincipal(raw string) (generic.Amount, error) {
	amount, err := generic.ParseAmount(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return generic.Amount{}, &InvalidPrincipalError{Raw: raw}
	}
	return amount, nil
}

// ParseStartDate parses a YYYY-MM-DD start date. Missing or unparsable
// values fail with InvalidStartDateError.
func ParseStartDate(raw string) (generic.TimePoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return generic.TimePoint{}, &InvalidStartDateError{}
	}
	tp, err := generic.ParseDate(raw)
	if err != nil {
		return generic.TimePoint{}, &InvalidStartDateError{Raw: raw}
	}
	return tp, nil
}

// ParseAdvisorRole accepts "", "internal" and "external" in any case.
func ParseAdvisorRole(raw string) (AdvisorRole, error) {
	switch AdvisorRole(strings.ToLower(strings.TrimSpace(raw))) {
	case AdvisorNone:
		return AdvisorNone, nil
	case AdvisorInternal:
		return AdvisorInternal, nil
	case AdvisorExternal:
		return AdvisorExternal, nil
	default:
		return AdvisorNone, fmt.Errorf("%w: %q", ErrInvalidAdvisorRole, raw)
	}
}
