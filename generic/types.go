/*
Package generic provides the domain-agnostic primitives of the commission engine.

PURPOSE:
  This package contains the money and calendar types every other package
  builds on. It knows nothing about rates, parties or liquidity: it only
  offers exact decimal amounts, day-granularity time points, periods and
  the shared error vocabulary.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A currency quantity backed by decimal.Decimal
  - Percent: Applying a percentage rate to an amount
  - Identifiers: Type-safe ids for investments and parties

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal, never float64, for money
  2. Single currency: Amounts carry no currency; callers validate upstream
  3. Immutability: Every operation returns a new Amount

USAGE:
  principal := generic.NewAmountFromInt(100000)
  office := principal.Percent(decimal.NewFromInt(1)) // 1000
  cents := office.RoundCents()

SEE ALSO:
  - time.go: TimePoint and calendar arithmetic
  - period.go: Commitment windows
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Currency quantity (single currency, already validated by callers)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func NewAmountFromInt(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

func NewAmountFromDecimal(value decimal.Decimal) Amount {
	return Amount{Value: value}
}

// ParseAmount parses a decimal string such as "100000.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

func Zero() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s)} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Percent returns pct percent of the amount (pct=2.1 means 2.1%).
func (a Amount) Percent(pct decimal.Decimal) Amount {
	return Amount{Value: a.Value.Mul(pct).Div(hundred)}
}

// RoundCents rounds half away from zero to two decimal places.
func (a Amount) RoundCents() Amount { return Amount{Value: a.Value.Round(2)} }

// String renders the amount with exactly two decimals.
func (a Amount) String() string { return a.Value.StringFixed(2) }

// Sum adds a list of amounts.
func Sum(amounts ...Amount) Amount {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type InvestmentID string
type PartyID string
