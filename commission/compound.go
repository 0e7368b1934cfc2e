package commission

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

var hundred = decimal.NewFromInt(100)

// Compound simulates month-by-month compounding of principal at the monthly
// percent and returns the profit over the cycle:
//
//	balance = principal
//	repeat cycleMonths: balance += balance * rate/100
//	return balance - principal
//
// One cycle degenerates to simple interest. The profit is rounded to cents
// only once, after the last month.
func Compound(principal generic.Amount, monthlyRatePercent decimal.Decimal, cycleMonths int) generic.Amount {
	if cycleMonths <= 0 {
		return generic.Zero()
	}
	growth := monthlyRatePercent.Div(hundred)
	balance := principal.Value
	for i := 0; i < cycleMonths; i++ {
		balance = balance.Add(balance.Mul(growth))
	}
	return generic.NewAmountFromDecimal(balance.Sub(principal.Value)).RoundCents()
}
