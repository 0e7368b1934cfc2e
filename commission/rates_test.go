package commission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// RATE TABLE
// =============================================================================

func TestDefaultRateTable_DefinedCells(t *testing.T) {
	table := commission.DefaultRateTable()

	tests := []struct {
		months int
		class  commission.LiquidityClass
		rate   string
	}{
		{3, commission.Monthly, "1.8"},
		{6, commission.Monthly, "1.9"},
		{6, commission.Semiannual, "2.0"},
		{12, commission.Monthly, "2.1"},
		{12, commission.Semiannual, "2.2"},
		{12, commission.Annual, "2.5"},
		{24, commission.Monthly, "2.3"},
		{24, commission.Semiannual, "2.5"},
		{24, commission.Annual, "2.7"},
		{24, commission.Biennial, "3.0"},
		{36, commission.Monthly, "2.4"},
		{36, commission.Semiannual, "2.6"},
		{36, commission.Annual, "3.0"},
		{36, commission.Biennial, "3.2"},
		{36, commission.Triennial, "3.5"},
	}

	assert.Equal(t, len(tests), table.Len())
	for _, tt := range tests {
		rate, err := table.Lookup(tt.months, tt.class)
		require.NoError(t, err, "%d/%s", tt.months, tt.class)
		assert.True(t, rate.Equal(pct(tt.rate)), "%d/%s: got %s", tt.months, tt.class, rate)
	}
}

func TestRateTable_UndefinedCombinations(t *testing.T) {
	table := commission.DefaultRateTable()

	undefined := []struct {
		months int
		class  commission.LiquidityClass
	}{
		{3, commission.Semiannual},
		{3, commission.Annual},
		{6, commission.Annual},
		{12, commission.Biennial},
		{24, commission.Triennial},
	}
	for _, u := range undefined {
		_, err := table.Lookup(u.months, u.class)
		assert.ErrorIs(t, err, commission.ErrInvalidRateCombination, "%d/%s", u.months, u.class)
	}

	for _, months := range []int{0, 1, 9, 18, 48} {
		_, err := table.Lookup(months, commission.Monthly)
		assert.ErrorIs(t, err, commission.ErrUnsupportedPeriod, "%d months", months)
	}
}

func TestRateTable_PeriodsAndEntriesOrdered(t *testing.T) {
	table := commission.DefaultRateTable()

	assert.Equal(t, []int{3, 6, 12, 24, 36}, table.Periods())

	entries := table.Entries()
	require.Len(t, entries, 15)
	assert.Equal(t, 3, entries[0].CommitmentMonths)
	last := entries[len(entries)-1]
	assert.Equal(t, 36, last.CommitmentMonths)
	assert.Equal(t, commission.Triennial, last.Liquidity)
}

func TestNewRateTable_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []commission.RateEntry
	}{
		{"non-positive period", []commission.RateEntry{{CommitmentMonths: 0, Liquidity: commission.Monthly, Rate: pct("1")}}},
		{"negative rate", []commission.RateEntry{{CommitmentMonths: 12, Liquidity: commission.Monthly, Rate: pct("-1")}}},
		{"cycle longer than period", []commission.RateEntry{{CommitmentMonths: 6, Liquidity: commission.Annual, Rate: pct("2")}}},
		{"duplicate cell", []commission.RateEntry{
			{CommitmentMonths: 12, Liquidity: commission.Monthly, Rate: pct("2")},
			{CommitmentMonths: 12, Liquidity: commission.Monthly, Rate: pct("3")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commission.NewRateTable(tt.entries)
			assert.ErrorIs(t, err, commission.ErrInvalidConfig)
		})
	}
}

func TestPartyRates_Advisor(t *testing.T) {
	rates := commission.DefaultPartyRates()

	assert.True(t, rates.Advisor(commission.AdvisorInternal).Equal(pct("3")))
	assert.True(t, rates.Advisor(commission.AdvisorExternal).Equal(pct("2")))
	assert.True(t, rates.Advisor(commission.AdvisorNone).IsZero())
	assert.True(t, rates.Office.Equal(pct("1")))
}

// =============================================================================
// LIQUIDITY CLASSIFIER
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		descriptor string
		expected   commission.LiquidityClass
	}{
		{"mensal", commission.Monthly},
		{"Monthly", commission.Monthly},
		{"", commission.Monthly},
		{"   ", commission.Monthly},
		{"whatever", commission.Monthly},
		{"semestral", commission.Semiannual},
		{"Semi-Annual", commission.Semiannual},
		{"SEMIANNUAL", commission.Semiannual},
		{"anual", commission.Annual},
		{"Annual", commission.Annual},
		{"yearly", commission.Annual},
		{"12 meses", commission.Annual},
		{"bienal", commission.Biennial},
		{"biennial", commission.Biennial},
		{"24", commission.Biennial},
		{"trienal", commission.Triennial},
		{"Triennial", commission.Triennial},
		{"36 months", commission.Triennial},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, commission.Classify(tt.descriptor), "%q", tt.descriptor)
	}
}

func TestLiquidityClass_Cycle(t *testing.T) {
	assert.Equal(t, 1, commission.Monthly.CycleMonths())
	assert.Equal(t, 6, commission.Semiannual.CycleMonths())
	assert.Equal(t, 12, commission.Annual.CycleMonths())
	assert.Equal(t, 24, commission.Biennial.CycleMonths())
	assert.Equal(t, 36, commission.Triennial.CycleMonths())

	assert.False(t, commission.Monthly.Compounds())
	assert.True(t, commission.Semiannual.Compounds())
}

// =============================================================================
// PRO-RATA AND COMPOUNDING
// =============================================================================

func TestProRata(t *testing.T) {
	principal := money("100000")

	tests := []struct {
		name     string
		rate     string
		start    generic.TimePoint
		expected string
	}{
		{"ten days at 1%", "1", date(2025, 1, 10), "333.33"},
		{"ten days at 3%", "3", date(2025, 1, 10), "1000.00"},
		{"one day", "1", date(2025, 1, 19), "33.33"},
		{"full 30 days", "1", date(2024, 12, 21), "1000.00"},
		{"31 days capped", "1", date(2024, 12, 20), "1000.00"},
		{"start on cutoff", "1", date(2025, 1, 20), "0.00"},
		{"start after cutoff", "1", date(2025, 1, 25), "0.00"},
	}

	cutoff := date(2025, 1, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commission.ProRata(principal, pct(tt.rate), tt.start, cutoff, commission.DefaultDayCountBasis)
			assertMoney(t, tt.expected, got)
		})
	}
}

func TestProRata_NeverExceedsFlat(t *testing.T) {
	principal := money("123456.78")
	rate := pct("2.3")
	cutoff := date(2025, 3, 20)
	flat := commission.Flat(principal, rate)

	for d := 0; d < 40; d++ {
		start := cutoff.AddDays(-d)
		got := commission.ProRata(principal, rate, start, cutoff, commission.DefaultDayCountBasis)
		assert.False(t, got.GreaterThan(flat), "window of %d days", d)
		assert.False(t, got.IsNegative())
	}
}

func TestFlat(t *testing.T) {
	assertMoney(t, "2100.00", commission.Flat(money("100000"), pct("2.1")))
	assertMoney(t, "18.00", commission.Flat(money("1000"), pct("1.8")))
	assertMoney(t, "0.02", commission.Flat(money("1.00"), pct("1.5")))
}

func TestCompound(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		expected  string
	}{
		{"single month is simple interest", "1000", "1.8", 1, "18.00"},
		{"semiannual cycle", "100000", "2.2", 6, "13947.65"},
		{"annual cycle", "50000", "2.7", 12, "18835.95"},
		{"biennial cycle", "100000", "3.2", 24, "112967.21"},
		{"zero months", "100000", "2.5", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.expected, commission.Compound(money(tt.principal), pct(tt.rate), tt.months))
		})
	}
}

func TestCompound_ExceedsSimpleInterest(t *testing.T) {
	principal := money("100000")
	rate := pct("2.5")

	compounded := commission.Compound(principal, rate, 12)
	simple := commission.Flat(principal, rate).Mul(pct("12"))

	assert.True(t, compounded.GreaterThan(simple))
}
