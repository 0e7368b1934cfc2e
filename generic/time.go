package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar date without time-of-day
// =============================================================================

// TimePoint is a calendar date. All values are normalized to midnight UTC so
// comparisons never depend on time-of-day or timezone.
type TimePoint struct {
	Time time.Time
}

const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the time-of-day of t, keeping its calendar date as written.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Today samples the wall clock. Only callers of the engine use it.
func Today() TimePoint {
	return FromTime(time.Now())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }

// AddMonths adds calendar months keeping the day-of-month when it exists in
// the target month, otherwise clamping to the last day (Jan 31 + 1 = Feb 28).
func (tp TimePoint) AddMonths(n int) TimePoint {
	first := time.Date(tp.Year(), tp.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	if last := EndOfMonth(first.Year(), first.Month()); tp.Day() > last.Day() {
		return last
	}
	return NewTimePoint(first.Year(), first.Month(), tp.Day())
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween counts whole days in [from, to). It never goes negative: a
// `to` on or before `from` yields 0.
func DaysBetween(from, to TimePoint) int {
	days := int(to.normalize().Sub(from.normalize()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MonthsBetween counts calendar month boundaries from `from` to `to`.
func MonthsBetween(from, to TimePoint) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// EndOfMonth returns the last calendar day of the month.
func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
}
