package commission

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// ENGINE CONFIG - Immutable, injected
// =============================================================================

// DefaultInvestorDelayDays is the D+60 rule.
const DefaultInvestorDelayDays = 60

// Config is everything the engine needs besides the InvestmentFact. It is
// passed by value and never mutated, so tests can swap tables freely.
type Config struct {
	Rates             RateTable
	PartyRates        PartyRates
	CutoffDay         int
	InvestorDelayDays int
	DayCountBasis     int
}

func DefaultConfig() Config {
	return Config{
		Rates:             DefaultRateTable(),
		PartyRates:        DefaultPartyRates(),
		CutoffDay:         DefaultCutoffDay,
		InvestorDelayDays: DefaultInvestorDelayDays,
		DayCountBasis:     DefaultDayCountBasis,
	}
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.Rates.Len() == 0 {
		return fmt.Errorf("%w: empty rate table", ErrInvalidConfig)
	}
	// Day 28 exists in every month.
	if c.CutoffDay < 1 || c.CutoffDay > 28 {
		return fmt.Errorf("%w: cutoff day %d outside 1-28", ErrInvalidConfig, c.CutoffDay)
	}
	if c.InvestorDelayDays < 0 {
		return fmt.Errorf("%w: negative investor delay", ErrInvalidConfig)
	}
	if c.DayCountBasis <= 0 {
		return fmt.Errorf("%w: day count basis must be positive", ErrInvalidConfig)
	}
	return c.PartyRates.validate()
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine builds commission schedules. It is safe for concurrent use: it
// holds only its immutable Config and caches nothing between calls.
type Engine struct {
	cfg      Config
	calendar Calendar
}

// NewEngine validates cfg and returns an engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, calendar: NewCalendar(cfg.CutoffDay)}, nil
}

// DefaultEngine returns an engine over DefaultConfig.
func DefaultEngine() *Engine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Config() Config     { return e.cfg }
func (e *Engine) Calendar() Calendar { return e.calendar }

// Rate looks up the investor rate for a pair in the engine's table.
func (e *Engine) Rate(months int, class LiquidityClass) (decimal.Decimal, error) {
	return e.cfg.Rates.Lookup(months, class)
}

// NextPaymentDate returns the next cutoff on or after today. today is
// always supplied by the caller.
func (e *Engine) NextPaymentDate(today generic.TimePoint) generic.TimePoint {
	return e.calendar.NextCutoff(today)
}

// ResolveRates validates the fact's period and liquidity and returns the
// rates the schedule will use.
func (e *Engine) ResolveRates(fact InvestmentFact) (ResolvedRates, error) {
	class := Classify(fact.Liquidity)
	investor, err := e.cfg.Rates.Lookup(fact.CommitmentMonths, class)
	if err != nil {
		return ResolvedRates{}, err
	}
	rates := ResolvedRates{
		CommitmentMonths: fact.CommitmentMonths,
		Liquidity:        class,
		CycleMonths:      class.CycleMonths(),
		Investor:         investor,
		Advisor:          e.cfg.PartyRates.Advisor(fact.AdvisorRole),
		Office:           decimal.Zero,
	}
	if fact.HasOffice {
		rates.Office = e.cfg.PartyRates.Office
	}
	return rates, nil
}

// =============================================================================
// SCHEDULE BUILDER
// =============================================================================

// ComputeSchedule builds the full schedule of an investment: one entry per
// monthly cutoff over the commitment period, each carrying the office,
// advisor and investor amounts due on that cutoff.
//
// Every error is an input-validation error raised before any entry is built.
// Rate Table errors are returned unmodified.
func (e *Engine) ComputeSchedule(fact InvestmentFact) (*CommissionSchedule, error) {
	if err := validateFact(fact); err != nil {
		return nil, err
	}
	rates, err := e.ResolveRates(fact)
	if err != nil {
		return nil, err
	}

	investorStart := fact.StartDate.AddDays(e.cfg.InvestorDelayDays)
	cutoffs := e.calendar.Cutoffs(fact.StartDate, fact.CommitmentMonths)
	split := newSplitter(fact, rates, investorStart, e.cfg.DayCountBasis)

	entries := make([]ScheduleEntry, len(cutoffs))
	for i := range cutoffs {
		entries[i] = split.entry(i, cutoffs)
	}

	schedule := &CommissionSchedule{
		InvestmentID:  fact.InvestmentID,
		InvestorID:    fact.InvestorID,
		Principal:     fact.Principal,
		Period:        generic.CommitmentPeriod(fact.StartDate, fact.CommitmentMonths),
		InvestorStart: investorStart,
		Rates:         rates,
		Entries:       entries,
	}
	if fact.AdvisorRole != AdvisorNone {
		schedule.AdvisorID = fact.AdvisorID
	}
	if fact.HasOffice {
		schedule.OfficeID = fact.OfficeID
	}
	return schedule, nil
}

func validateFact(fact InvestmentFact) error {
	if !fact.Principal.IsPositive() {
		return &InvalidPrincipalError{Raw: fact.Principal.Value.String()}
	}
	if fact.StartDate.IsZero() {
		return &InvalidStartDateError{}
	}
	switch fact.AdvisorRole {
	case AdvisorNone, AdvisorInternal, AdvisorExternal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAdvisorRole, fact.AdvisorRole)
	}
	return nil
}
