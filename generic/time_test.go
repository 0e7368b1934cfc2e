package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// TIME POINT
// =============================================================================

func TestTimePoint_AddMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		start    generic.TimePoint
		months   int
		expected generic.TimePoint
	}{
		{generic.NewTimePoint(2025, time.January, 31), 1, generic.NewTimePoint(2025, time.February, 28)},
		{generic.NewTimePoint(2024, time.January, 31), 1, generic.NewTimePoint(2024, time.February, 29)},
		{generic.NewTimePoint(2025, time.March, 31), 1, generic.NewTimePoint(2025, time.April, 30)},
		{generic.NewTimePoint(2025, time.January, 20), 12, generic.NewTimePoint(2026, time.January, 20)},
		{generic.NewTimePoint(2025, time.November, 20), 3, generic.NewTimePoint(2026, time.February, 20)},
		{generic.NewTimePoint(2025, time.March, 20), -3, generic.NewTimePoint(2024, time.December, 20)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.start.AddMonths(tt.months), "%s + %d", tt.start, tt.months)
	}
}

func TestTimePoint_AddDays_CrossesMonths(t *testing.T) {
	start := generic.NewTimePoint(2025, time.January, 10)

	assert.Equal(t, generic.NewTimePoint(2025, time.March, 11), start.AddDays(60))
	assert.Equal(t, generic.NewTimePoint(2024, time.March, 10), generic.NewTimePoint(2024, time.January, 10).AddDays(60))
}

func TestDaysBetween_NeverNegative(t *testing.T) {
	a := generic.NewTimePoint(2025, time.January, 10)
	b := generic.NewTimePoint(2025, time.January, 20)

	assert.Equal(t, 10, generic.DaysBetween(a, b))
	assert.Equal(t, 0, generic.DaysBetween(b, a))
	assert.Equal(t, 0, generic.DaysBetween(a, a))
}

func TestTimePoint_FromTimeDropsClock(t *testing.T) {
	evening := time.Date(2025, time.March, 20, 23, 59, 0, 0, time.UTC)

	tp := generic.FromTime(evening)

	assert.True(t, tp.Equal(generic.NewTimePoint(2025, time.March, 20)))
	assert.Equal(t, "2025-03-20", tp.String())
}

func TestParseDate(t *testing.T) {
	tp, err := generic.ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, generic.NewTimePoint(2025, time.February, 28), tp)

	for _, raw := range []string{"", "2025-02-30", "28/02/2025", "2025-2-28"} {
		_, err := generic.ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimePoint_Comparisons(t *testing.T) {
	a := generic.NewTimePoint(2025, time.January, 10)
	b := generic.NewTimePoint(2025, time.January, 20)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, a.After(b))
	assert.Equal(t, 12, generic.MonthsBetween(a, a.AddMonths(12)))
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, generic.NewTimePoint(2025, time.February, 28), generic.EndOfMonth(2025, time.February))
	assert.Equal(t, generic.NewTimePoint(2024, time.February, 29), generic.EndOfMonth(2024, time.February))
	assert.Equal(t, generic.NewTimePoint(2025, time.December, 31), generic.EndOfMonth(2025, time.December))
	assert.Equal(t, generic.NewTimePoint(2025, time.April, 30), generic.EndOfMonth(2025, time.April))
}

func TestCommitmentPeriod(t *testing.T) {
	p := generic.CommitmentPeriod(generic.NewTimePoint(2025, time.January, 10), 12)

	assert.Equal(t, generic.NewTimePoint(2026, time.January, 10), p.End)
	assert.Equal(t, 365, p.Days())
	assert.True(t, p.Contains(generic.NewTimePoint(2025, time.June, 1)))
	assert.False(t, p.Contains(generic.NewTimePoint(2026, time.January, 11)))
	assert.NoError(t, p.Validate())

	inverted := generic.Period{Start: p.End, End: p.Start}
	assert.ErrorIs(t, inverted.Validate(), generic.ErrInvalidPeriod)
}
