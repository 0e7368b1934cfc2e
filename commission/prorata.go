package commission

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// DefaultDayCountBasis is the commercial 30-day month. It is never replaced
// by the actual number of days in the month.
const DefaultDayCountBasis = 30

// ProRata returns the partial-period commission for [start, cutoff):
//
//	principal * monthlyRate% * days / basis
//
// The window is capped at basis days so a first payment never exceeds a full
// period. It is zero when start is on or after cutoff.
func ProRata(principal generic.Amount, monthlyRate decimal.Decimal, start, cutoff generic.TimePoint, basis int) generic.Amount {
	days := generic.DaysBetween(start, cutoff)
	if days == 0 {
		return generic.Zero()
	}
	if days > basis {
		days = basis
	}
	return principal.Percent(monthlyRate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(basis))).
		RoundCents()
}

// Flat is one full monthly period: principal * monthlyRate%.
func Flat(principal generic.Amount, monthlyRate decimal.Decimal) generic.Amount {
	return principal.Percent(monthlyRate).RoundCents()
}
