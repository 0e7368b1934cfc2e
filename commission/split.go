package commission

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// COMMISSION SPLITTER - One leg per party, zero for absent legs
// =============================================================================

// legAmount is what a leg contributes to one cutoff.
type legAmount struct {
	Amount     generic.Amount
	ProRata    bool
	Compounded bool
}

// leg computes a party's amount at each cutoff of the schedule. Each leg owns
// its cadence; the splitter only aligns them on the shared index.
type leg interface {
	Kind() PartyKind
	AmountAt(index int, cutoffs []generic.TimePoint) legAmount
}

// absentLeg stands in for a party the investment does not have.
type absentLeg struct{ kind PartyKind }

func (l absentLeg) Kind() PartyKind { return l.kind }
func (l absentLeg) AmountAt(int, []generic.TimePoint) legAmount {
	return legAmount{Amount: generic.Zero()}
}

// monthlyLeg pays a flat percent of principal at every cutoff after its
// accrual start. The first payable cutoff is pro-rated from the accrual start.
type monthlyLeg struct {
	kind      PartyKind
	principal generic.Amount
	rate      decimal.Decimal
	accrual   generic.TimePoint
	basis     int
}

func (l monthlyLeg) Kind() PartyKind { return l.kind }

func (l monthlyLeg) AmountAt(i int, cutoffs []generic.TimePoint) legAmount {
	due := cutoffs[i]
	if !due.After(l.accrual) {
		return legAmount{Amount: generic.Zero()}
	}
	if i == 0 || !cutoffs[i-1].After(l.accrual) {
		return legAmount{Amount: ProRata(l.principal, l.rate, l.accrual, due, l.basis), ProRata: true}
	}
	return legAmount{Amount: Flat(l.principal, l.rate)}
}

// compoundingLeg pays the compounded profit of a whole cycle at each cycle
// boundary (every cycle cutoffs). When the cycle does not divide the
// commitment, the last cutoff settles the remaining months.
type compoundingLeg struct {
	kind      PartyKind
	principal generic.Amount
	rate      decimal.Decimal
	cycle     int
	accrual   generic.TimePoint
}

func (l compoundingLeg) Kind() PartyKind { return l.kind }

func (l compoundingLeg) AmountAt(i int, cutoffs []generic.TimePoint) legAmount {
	if !cutoffs[i].After(l.accrual) {
		return legAmount{Amount: generic.Zero()}
	}
	elapsed := i + 1
	months := 0
	switch {
	case elapsed%l.cycle == 0:
		months = l.cycle
	case i == len(cutoffs)-1:
		months = elapsed % l.cycle
	default:
		return legAmount{Amount: generic.Zero()}
	}
	return legAmount{Amount: Compound(l.principal, l.rate, months), Compounded: true}
}

// splitter holds the three legs of one investment.
type splitter struct {
	office   leg
	advisor  leg
	investor leg
}

func newSplitter(fact InvestmentFact, rates ResolvedRates, investorStart generic.TimePoint, basis int) splitter {
	s := splitter{
		office:  absentLeg{kind: PartyOffice},
		advisor: absentLeg{kind: PartyAdvisor},
	}
	if fact.HasOffice {
		s.office = monthlyLeg{kind: PartyOffice, principal: fact.Principal, rate: rates.Office, accrual: fact.StartDate, basis: basis}
	}
	if fact.AdvisorRole != AdvisorNone {
		s.advisor = monthlyLeg{kind: PartyAdvisor, principal: fact.Principal, rate: rates.Advisor, accrual: fact.StartDate, basis: basis}
	}
	if rates.Liquidity.Compounds() {
		s.investor = compoundingLeg{kind: PartyInvestor, principal: fact.Principal, rate: rates.Investor, cycle: rates.CycleMonths, accrual: investorStart}
	} else {
		s.investor = monthlyLeg{kind: PartyInvestor, principal: fact.Principal, rate: rates.Investor, accrual: investorStart, basis: basis}
	}
	return s
}

// entry allocates cutoff i across the three legs.
func (s splitter) entry(i int, cutoffs []generic.TimePoint) ScheduleEntry {
	office := s.office.AmountAt(i, cutoffs)
	advisor := s.advisor.AmountAt(i, cutoffs)
	investor := s.investor.AmountAt(i, cutoffs)
	return ScheduleEntry{
		Index:              i,
		DueDate:            cutoffs[i],
		Office:             office.Amount,
		Advisor:            advisor.Amount,
		Investor:           investor.Amount,
		IsProRata:          i == 0,
		InvestorProRata:    investor.ProRata,
		InvestorCompounded: investor.Compounded,
	}
}
