/*
Package commission computes multi-party commission schedules for investment
contracts.

PURPOSE:
  Given an investment's principal, commitment period, payout liquidity and
  start date, the engine derives the rate of each party, the monthly cutoff
  dates across the contract lifetime, a pro-rated first payment, full-period
  payments thereafter, and compounded lump sums for multi-month liquidity.

PARTIES (legs):
  Office:   1% of principal per monthly cutoff, no delay
  Advisor:  3% (internal) or 2% (external) per monthly cutoff, no delay
  Investor: rate from the Rate Table, payable from start + 60 days (D+60);
            monthly liquidity pays per cutoff, longer cycles pay a compounded
            lump sum at each cycle boundary

PIPELINE:
  InvestmentFact
    -> Classify (liquidity descriptor -> LiquidityClass)
    -> RateTable.Lookup (period, class -> investor rate)
    -> Calendar (cutoff dates)
    -> legs (ProRata for the first window, flat or Compound afterwards)
    -> CommissionSchedule

PURITY:
  The engine holds no mutable state, samples no clock, performs no I/O and
  never logs. The same InvestmentFact always yields the same schedule, so
  schedules for many investments can be built concurrently without
  coordination. Failures are input-validation errors returned before any
  entry is built; no partial schedule is ever returned.

BATCH CALLERS:
  When building schedules for many investments, callers skip an investment
  whose build fails and continue with the rest (see report.Compile). That
  skip-and-continue policy belongs to the caller, not to the engine.

SEE ALSO:
  - rates.go: Rate Table and party rates
  - calendar.go: Cutoff arithmetic
  - schedule.go: Engine and ComputeSchedule
*/
package commission

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// LIQUIDITY CLASS
// =============================================================================

// LiquidityClass is the investor payout cycle category.
type LiquidityClass string

const (
	Monthly    LiquidityClass = "monthly"
	Semiannual LiquidityClass = "semiannual"
	Annual     LiquidityClass = "annual"
	Biennial   LiquidityClass = "biennial"
	Triennial  LiquidityClass = "triennial"
)

// LiquidityClasses lists every class, shortest cycle first.
var LiquidityClasses = []LiquidityClass{Monthly, Semiannual, Annual, Biennial, Triennial}

// CycleMonths is the payout cycle length. Unknown classes behave as monthly.
func (c LiquidityClass) CycleMonths() int {
	switch c {
	case Semiannual:
		return 6
	case Annual:
		return 12
	case Biennial:
		return 24
	case Triennial:
		return 36
	default:
		return 1
	}
}

// Compounds reports whether the investor leg is paid as a compounded lump sum.
func (c LiquidityClass) Compounds() bool { return c.CycleMonths() > 1 }

// =============================================================================
// PARTIES
// =============================================================================

// AdvisorRole selects the advisor rate. The zero value means no advisor.
type AdvisorRole string

const (
	AdvisorNone     AdvisorRole = ""
	AdvisorInternal AdvisorRole = "internal"
	AdvisorExternal AdvisorRole = "external"
)

// PartyKind tags a schedule leg.
type PartyKind string

const (
	PartyInvestor PartyKind = "investor"
	PartyAdvisor  PartyKind = "advisor"
	PartyOffice   PartyKind = "office"
)

// =============================================================================
// INPUT - InvestmentFact
// =============================================================================

// InvestmentFact is the immutable input of a schedule build. Callers build it
// from persisted records at calculation time.
type InvestmentFact struct {
	InvestmentID generic.InvestmentID
	InvestorID   generic.PartyID

	Principal        generic.Amount
	StartDate        generic.TimePoint
	CommitmentMonths int

	// Free text such as "mensal", "Semestral", "anual"; empty means monthly.
	Liquidity string

	AdvisorID   generic.PartyID
	AdvisorRole AdvisorRole // AdvisorNone = no advisor leg

	OfficeID  generic.PartyID
	HasOffice bool
}

// =============================================================================
// OUTPUT - CommissionSchedule
// =============================================================================

// ResolvedRates are the percentages actually used, kept for audit and display.
type ResolvedRates struct {
	CommitmentMonths int
	Liquidity        LiquidityClass
	CycleMonths      int

	Investor decimal.Decimal // monthly percent from the Rate Table
	Advisor  decimal.Decimal // zero without an advisor
	Office   decimal.Decimal // zero without an office
}

// ScheduleEntry is one monthly cutoff of the schedule. All three legs share
// the index and due date.
type ScheduleEntry struct {
	Index   int
	DueDate generic.TimePoint

	Office   generic.Amount
	Advisor  generic.Amount
	Investor generic.Amount

	// IsProRata marks the first entry, where office and advisor are pro-rated.
	IsProRata bool

	// InvestorProRata marks the first payable investor entry after D+60.
	InvestorProRata bool

	// InvestorCompounded marks a lump sum paid at a cycle boundary.
	InvestorCompounded bool
}

// Total is the sum of the three legs of the entry.
func (e ScheduleEntry) Total() generic.Amount {
	return generic.Sum(e.Office, e.Advisor, e.Investor)
}

// AmountFor returns the amount of one leg.
func (e ScheduleEntry) AmountFor(kind PartyKind) generic.Amount {
	switch kind {
	case PartyInvestor:
		return e.Investor
	case PartyAdvisor:
		return e.Advisor
	case PartyOffice:
		return e.Office
	default:
		return generic.Zero()
	}
}

// CommissionSchedule is the full result for one investment. It is built
// fresh on every call and owned by the caller.
type CommissionSchedule struct {
	InvestmentID generic.InvestmentID
	InvestorID   generic.PartyID
	AdvisorID    generic.PartyID
	OfficeID     generic.PartyID

	Principal generic.Amount
	Period    generic.Period

	// InvestorStart is the start date shifted by the investor delay (D+60).
	InvestorStart generic.TimePoint

	Rates   ResolvedRates
	Entries []ScheduleEntry
}

// LegTotals sums each leg across all entries.
type LegTotals struct {
	Office   generic.Amount
	Advisor  generic.Amount
	Investor generic.Amount
}

func (t LegTotals) Total() generic.Amount {
	return generic.Sum(t.Office, t.Advisor, t.Investor)
}

// Totals sums every leg of the schedule.
func (s *CommissionSchedule) Totals() LegTotals {
	totals := LegTotals{Office: generic.Zero(), Advisor: generic.Zero(), Investor: generic.Zero()}
	for _, e := range s.Entries {
		totals.Office = totals.Office.Add(e.Office)
		totals.Advisor = totals.Advisor.Add(e.Advisor)
		totals.Investor = totals.Investor.Add(e.Investor)
	}
	return totals
}

// PartyFor returns the party id holding a leg, empty if the leg is absent.
func (s *CommissionSchedule) PartyFor(kind PartyKind) generic.PartyID {
	switch kind {
	case PartyInvestor:
		return s.InvestorID
	case PartyAdvisor:
		return s.AdvisorID
	case PartyOffice:
		return s.OfficeID
	default:
		return ""
	}
}
