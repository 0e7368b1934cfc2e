package generic

// =============================================================================
// PERIOD - A closed calendar window
// =============================================================================

// Period is the calendar window [Start, End]. For an investment it spans the
// start date to the end of the commitment.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// CommitmentPeriod returns the window from start to start + months.
func CommitmentPeriod(start TimePoint, months int) Period {
	return Period{Start: start, End: start.AddMonths(months)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Validate rejects windows that end before they start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Days returns the number of days in [Start, End).
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
