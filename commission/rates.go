package commission

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE TABLE - Investor monthly rate by (commitment period, liquidity class)
// =============================================================================

// RateEntry is one defined cell of the Rate Table. Rate is a monthly percent.
type RateEntry struct {
	CommitmentMonths int
	Liquidity        LiquidityClass
	Rate             decimal.Decimal
}

type rateKey struct {
	months    int
	liquidity LiquidityClass
}

// RateTable is an immutable lookup of investor rates. Not every combination
// is defined; an undefined one is an input error.
type RateTable struct {
	rates   map[rateKey]decimal.Decimal
	periods []int
}

// NewRateTable builds a table from entries. Duplicate or negative cells fail.
func NewRateTable(entries []RateEntry) (RateTable, error) {
	t := RateTable{rates: make(map[rateKey]decimal.Decimal, len(entries))}
	seen := make(map[int]bool)
	for _, e := range entries {
		if e.CommitmentMonths <= 0 {
			return RateTable{}, fmt.Errorf("%w: commitment period %d must be positive", ErrInvalidConfig, e.CommitmentMonths)
		}
		if e.Rate.IsNegative() {
			return RateTable{}, fmt.Errorf("%w: negative rate for %d/%s", ErrInvalidConfig, e.CommitmentMonths, e.Liquidity)
		}
		if e.Liquidity.CycleMonths() > e.CommitmentMonths {
			return RateTable{}, fmt.Errorf("%w: %s cycle exceeds %d months", ErrInvalidConfig, e.Liquidity, e.CommitmentMonths)
		}
		k := rateKey{months: e.CommitmentMonths, liquidity: e.Liquidity}
		if _, dup := t.rates[k]; dup {
			return RateTable{}, fmt.Errorf("%w: duplicate rate for %d/%s", ErrInvalidConfig, e.CommitmentMonths, e.Liquidity)
		}
		t.rates[k] = e.Rate
		if !seen[e.CommitmentMonths] {
			seen[e.CommitmentMonths] = true
			t.periods = append(t.periods, e.CommitmentMonths)
		}
	}
	sort.Ints(t.periods)
	return t, nil
}

// DefaultRateTable is the commercial table.
func DefaultRateTable() RateTable {
	pct := decimal.RequireFromString
	t, err := NewRateTable([]RateEntry{
		{3, Monthly, pct("1.8")},

		{6, Monthly, pct("1.9")},
		{6, Semiannual, pct("2.0")},

		{12, Monthly, pct("2.1")},
		{12, Semiannual, pct("2.2")},
		{12, Annual, pct("2.5")},

		{24, Monthly, pct("2.3")},
		{24, Semiannual, pct("2.5")},
		{24, Annual, pct("2.7")},
		{24, Biennial, pct("3.0")},

		{36, Monthly, pct("2.4")},
		{36, Semiannual, pct("2.6")},
		{36, Annual, pct("3.0")},
		{36, Biennial, pct("3.2")},
		{36, Triennial, pct("3.5")},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the monthly percent for the pair. An unknown period fails
// with UnsupportedPeriodError, an undefined pair with InvalidRateCombinationError.
func (t RateTable) Lookup(months int, class LiquidityClass) (decimal.Decimal, error) {
	if !t.Supports(months) {
		return decimal.Zero, &UnsupportedPeriodError{Period: months, Supported: t.Periods()}
	}
	rate, ok := t.rates[rateKey{months: months, liquidity: class}]
	if !ok {
		return decimal.Zero, &InvalidRateCombinationError{Period: months, Liquidity: class}
	}
	return rate, nil
}

// Supports reports whether any rate is defined for the commitment period.
func (t RateTable) Supports(months int) bool {
	for _, p := range t.periods {
		if p == months {
			return true
		}
	}
	return false
}

// Periods returns the supported commitment periods, ascending.
func (t RateTable) Periods() []int {
	out := make([]int, len(t.periods))
	copy(out, t.periods)
	return out
}

// Entries returns every defined cell ordered by period then cycle length.
func (t RateTable) Entries() []RateEntry {
	entries := make([]RateEntry, 0, len(t.rates))
	for k, r := range t.rates {
		entries = append(entries, RateEntry{CommitmentMonths: k.months, Liquidity: k.liquidity, Rate: r})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CommitmentMonths != entries[j].CommitmentMonths {
			return entries[i].CommitmentMonths < entries[j].CommitmentMonths
		}
		return entries[i].Liquidity.CycleMonths() < entries[j].Liquidity.CycleMonths()
	})
	return entries
}

func (t RateTable) Len() int { return len(t.rates) }

// =============================================================================
// PARTY RATES - Fixed, liquidity-independent monthly percents
// =============================================================================

type PartyRates struct {
	AdvisorInternal decimal.Decimal
	AdvisorExternal decimal.Decimal
	Office          decimal.Decimal
}

func DefaultPartyRates() PartyRates {
	return PartyRates{
		AdvisorInternal: decimal.NewFromInt(3),
		AdvisorExternal: decimal.NewFromInt(2),
		Office:          decimal.NewFromInt(1),
	}
}

// Advisor returns the rate for the role; zero when there is no advisor.
func (p PartyRates) Advisor(role AdvisorRole) decimal.Decimal {
	switch role {
	case AdvisorInternal:
		return p.AdvisorInternal
	case AdvisorExternal:
		return p.AdvisorExternal
	default:
		return decimal.Zero
	}
}

func (p PartyRates) validate() error {
	for name, r := range map[string]decimal.Decimal{
		"advisor_internal": p.AdvisorInternal,
		"advisor_external": p.AdvisorExternal,
		"office":           p.Office,
	} {
		if r.IsNegative() {
			return fmt.Errorf("%w: negative %s rate", ErrInvalidConfig, name)
		}
	}
	return nil
}
