package commission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
)

func TestCalendar_CutoffDate_PreviousMonth(t *testing.T) {
	cal := commission.NewCalendar(commission.DefaultCutoffDay)

	tests := []struct {
		reference generic.TimePoint
		expected  generic.TimePoint
	}{
		{date(2025, time.March, 5), date(2025, time.February, 20)},
		{date(2025, time.March, 31), date(2025, time.February, 20)},
		{date(2025, time.January, 15), date(2024, time.December, 20)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, cal.CutoffDate(tt.reference), tt.reference.String())
	}
}

func TestCalendar_FirstCutoffAfter(t *testing.T) {
	cal := commission.NewCalendar(commission.DefaultCutoffDay)

	tests := []struct {
		name     string
		start    generic.TimePoint
		expected generic.TimePoint
	}{
		{"before cutoff", date(2025, time.January, 10), date(2025, time.January, 20)},
		{"on cutoff", date(2025, time.January, 20), date(2025, time.February, 20)},
		{"after cutoff", date(2025, time.January, 21), date(2025, time.February, 20)},
		{"december rolls over", date(2025, time.December, 25), date(2026, time.January, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.FirstCutoffAfter(tt.start))
		})
	}
}

func TestCalendar_Cutoffs_Consecutive(t *testing.T) {
	// GIVEN: A start date late in the month
	cal := commission.NewCalendar(commission.DefaultCutoffDay)
	start := date(2024, time.January, 31)

	// WHEN: Generating 14 cutoffs
	cutoffs := cal.Cutoffs(start, 14)

	// THEN: Each cutoff is one month after the previous, always on the 20th
	assert.Len(t, cutoffs, 14)
	for i := 1; i < len(cutoffs); i++ {
		assert.Equal(t, 1, generic.MonthsBetween(cutoffs[i-1], cutoffs[i]))
		assert.Equal(t, 20, cutoffs[i].Day())
		assert.Equal(t, cal.NthCutoff(start, i), cutoffs[i])
	}
	assert.Equal(t, date(2025, time.March, 20), cutoffs[13])
}

func TestCalendar_NextCutoff(t *testing.T) {
	cal := commission.NewCalendar(commission.DefaultCutoffDay)

	assert.Equal(t, date(2025, time.June, 20), cal.NextCutoff(date(2025, time.June, 1)))
	assert.Equal(t, date(2025, time.June, 20), cal.NextCutoff(date(2025, time.June, 20)))
	assert.Equal(t, date(2025, time.July, 20), cal.NextCutoff(date(2025, time.June, 21)))
}

func TestCalendar_CustomCutoffDay(t *testing.T) {
	cal := commission.NewCalendar(5)

	assert.Equal(t, date(2025, time.February, 5), cal.FirstCutoffAfter(date(2025, time.January, 10)))
	assert.Equal(t, date(2025, time.January, 5), cal.CutoffDate(date(2025, time.February, 28)))
}

func TestCalendar_AddCycleAndDaysBetween(t *testing.T) {
	cal := commission.NewCalendar(commission.DefaultCutoffDay)

	assert.Equal(t, date(2025, time.February, 28), cal.AddCycle(date(2025, time.January, 31), 1))
	assert.Equal(t, date(2026, time.January, 20), cal.AddCycle(date(2025, time.January, 20), 12))

	assert.Equal(t, 10, cal.DaysBetween(date(2025, time.January, 10), date(2025, time.January, 20)))
	assert.Equal(t, 0, cal.DaysBetween(date(2025, time.January, 20), date(2025, time.January, 10)))
}
