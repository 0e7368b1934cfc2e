package commission

import (
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// CALENDAR ENGINE - Administrative cutoff arithmetic
// =============================================================================

// DefaultCutoffDay is the administrative cutoff: the 20th of each month.
const DefaultCutoffDay = 20

// Calendar computes cutoff dates. Every function is pure; a cutoff is the
// same for a given input regardless of when it is asked.
type Calendar struct {
	CutoffDay int
}

func NewCalendar(cutoffDay int) Calendar {
	return Calendar{CutoffDay: cutoffDay}
}

// CutoffDate returns the cutoff of the month preceding the reference month:
// the boundary of the prior period's commissions.
func (c Calendar) CutoffDate(reference generic.TimePoint) generic.TimePoint {
	return generic.NewTimePoint(reference.Year(), reference.Month()-1, c.CutoffDay)
}

// FirstCutoffAfter returns the first cutoff strictly after date. A date that
// falls on the cutoff day accrues towards the following month's cutoff.
func (c Calendar) FirstCutoffAfter(date generic.TimePoint) generic.TimePoint {
	cutoff := generic.NewTimePoint(date.Year(), date.Month(), c.CutoffDay)
	if cutoff.After(date) {
		return cutoff
	}
	return cutoff.AddMonths(1)
}

// NthCutoff returns the n-th (0-based) cutoff after start. Each entry is
// computed directly from start, never by stepping a shared date.
func (c Calendar) NthCutoff(start generic.TimePoint, n int) generic.TimePoint {
	return c.FirstCutoffAfter(start).AddMonths(n)
}

// Cutoffs returns the first n cutoffs after start.
func (c Calendar) Cutoffs(start generic.TimePoint, n int) []generic.TimePoint {
	out := make([]generic.TimePoint, n)
	for i := range out {
		out[i] = c.NthCutoff(start, i)
	}
	return out
}

// NextCutoff returns the next payment date on or after today. Used for
// "next payment date" displays that do not depend on any investment.
func (c Calendar) NextCutoff(today generic.TimePoint) generic.TimePoint {
	cutoff := generic.NewTimePoint(today.Year(), today.Month(), c.CutoffDay)
	if cutoff.Before(today) {
		return cutoff.AddMonths(1)
	}
	return cutoff
}

// AddCycle adds calendar months, keeping the day-of-month where valid.
func (c Calendar) AddCycle(date generic.TimePoint, months int) generic.TimePoint {
	return date.AddMonths(months)
}

// DaysBetween is the non-negative day count in [a, b).
func (c Calendar) DaysBetween(a, b generic.TimePoint) int {
	return generic.DaysBetween(a, b)
}
