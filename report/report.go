/*
Package report compiles commission schedules for many investments.

PURPOSE:
  The reporting layer is the batch caller of the commission engine. It
  builds one schedule per investment, skips investments whose schedule
  cannot be computed, and aggregates the rest by party and by due date.

SKIP AND CONTINUE:
  A failing investment (unsupported period, undefined rate combination,
  invalid principal or start date) never aborts the batch. It is recorded
  in Report.Skipped with its error code, logged at warn level, and the
  remaining investments are still reported. The engine itself neither logs
  nor skips; this policy lives here.

CONCURRENCY:
  Schedules are independent, so Compile fans out over a bounded pool of
  workers. Results are written by input index, which keeps the output order
  deterministic regardless of scheduling.

STATUS:
  "Today" is always supplied by the caller as AsOf. Each due date is
  elapsed (before AsOf), due (on AsOf) or scheduled (after AsOf).

SEE ALSO:
  - commission/schedule.go: ComputeSchedule
  - api/scheduler.go: Daily digest built on Compile
*/
package report

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// TYPES
// =============================================================================

type Status string

const (
	StatusElapsed   Status = "elapsed"
	StatusDue       Status = "due"
	StatusScheduled Status = "scheduled"
)

// StatusOf classifies a due date relative to asOf.
func StatusOf(due, asOf generic.TimePoint) Status {
	switch {
	case due.Before(asOf):
		return StatusElapsed
	case due.Equal(asOf):
		return StatusDue
	default:
		return StatusScheduled
	}
}

// Options tune a compilation.
type Options struct {
	// Workers bounds concurrent schedule builds (default 4).
	Workers int

	// PartyID restricts aggregates to legs held by one party.
	PartyID generic.PartyID

	Logger zerolog.Logger
}

// Skipped is an investment left out of the report.
type Skipped struct {
	InvestmentID generic.InvestmentID
	Code         string
	Err          error
}

// PartyTotal aggregates one leg of one party across investments.
type PartyTotal struct {
	PartyID     generic.PartyID
	Kind        commission.PartyKind
	Investments int
	Elapsed     generic.Amount
	Due         generic.Amount
	Scheduled   generic.Amount
}

func (p PartyTotal) Total() generic.Amount { return generic.Sum(p.Elapsed, p.Due, p.Scheduled) }

// Outstanding is what is still to be paid on or after AsOf.
func (p PartyTotal) Outstanding() generic.Amount { return p.Due.Add(p.Scheduled) }

// DueDateTotal aggregates every leg due on one date.
type DueDateTotal struct {
	DueDate  generic.TimePoint
	Status   Status
	Office   generic.Amount
	Advisor  generic.Amount
	Investor generic.Amount
}

func (d DueDateTotal) Total() generic.Amount { return generic.Sum(d.Office, d.Advisor, d.Investor) }

// Line is one leg amount of one investment on one due date.
type Line struct {
	InvestmentID generic.InvestmentID
	PartyID      generic.PartyID
	Kind         commission.PartyKind
	DueDate      generic.TimePoint
	Amount       generic.Amount
}

// Report is the compiled result. It is built fresh on every Compile.
type Report struct {
	AsOf generic.TimePoint
	// PartyID is the party filter the report was compiled with, if any.
	PartyID   generic.PartyID
	Schedules []*commission.CommissionSchedule
	Skipped   []Skipped
	Parties   []PartyTotal
	DueDates  []DueDateTotal
}

// =============================================================================
// COMPILE
// =============================================================================

type result struct {
	schedule *commission.CommissionSchedule
	err      error
}

// Compile builds and aggregates the schedules of facts as of asOf. It only
// fails when ctx is done; per-investment failures are skipped.
func Compile(ctx context.Context, engine *commission.Engine, facts []commission.InvestmentFact, asOf generic.TimePoint, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	log := opts.Logger.With().Str("component", "report").Logger()

	results := make([]result, len(facts))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s, err := engine.ComputeSchedule(facts[i])
				results[i] = result{schedule: s, err: err}
			}
		}()
	}

feed:
	for i := range facts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Report{AsOf: asOf, PartyID: opts.PartyID}
	for i, res := range results {
		if res.err != nil {
			id := facts[i].InvestmentID
			log.Warn().Err(res.err).Str("investment_id", string(id)).Msg("could not calculate commission for this investment, skipping")
			r.Skipped = append(r.Skipped, Skipped{InvestmentID: id, Code: commission.ErrorCode(res.err), Err: res.err})
			continue
		}
		if opts.PartyID != "" && !involves(res.schedule, opts.PartyID) {
			continue
		}
		r.Schedules = append(r.Schedules, res.schedule)
	}
	r.aggregate()

	log.Debug().
		Int("investments", len(facts)).
		Int("reported", len(r.Schedules)).
		Int("skipped", len(r.Skipped)).
		Str("as_of", asOf.String()).
		Msg("report compiled")
	return r, nil
}

var legKinds = []commission.PartyKind{commission.PartyInvestor, commission.PartyAdvisor, commission.PartyOffice}

func involves(s *commission.CommissionSchedule, party generic.PartyID) bool {
	for _, k := range legKinds {
		if s.PartyFor(k) == party {
			return true
		}
	}
	return false
}

type partyKey struct {
	id   generic.PartyID
	kind commission.PartyKind
}

func (r *Report) aggregate() {
	parties := make(map[partyKey]*PartyTotal)
	dates := make(map[string]*DueDateTotal)

	for _, line := range r.Lines() {
		k := partyKey{id: line.PartyID, kind: line.Kind}
		pt, ok := parties[k]
		if !ok {
			pt = &PartyTotal{PartyID: line.PartyID, Kind: line.Kind, Elapsed: generic.Zero(), Due: generic.Zero(), Scheduled: generic.Zero()}
			parties[k] = pt
		}
		switch StatusOf(line.DueDate, r.AsOf) {
		case StatusElapsed:
			pt.Elapsed = pt.Elapsed.Add(line.Amount)
		case StatusDue:
			pt.Due = pt.Due.Add(line.Amount)
		default:
			pt.Scheduled = pt.Scheduled.Add(line.Amount)
		}

		dt, ok := dates[line.DueDate.String()]
		if !ok {
			dt = &DueDateTotal{DueDate: line.DueDate, Status: StatusOf(line.DueDate, r.AsOf), Office: generic.Zero(), Advisor: generic.Zero(), Investor: generic.Zero()}
			dates[line.DueDate.String()] = dt
		}
		switch line.Kind {
		case commission.PartyOffice:
			dt.Office = dt.Office.Add(line.Amount)
		case commission.PartyAdvisor:
			dt.Advisor = dt.Advisor.Add(line.Amount)
		case commission.PartyInvestor:
			dt.Investor = dt.Investor.Add(line.Amount)
		}
	}

	// Investments per party counts schedules, not lines.
	for _, s := range r.Schedules {
		for _, kind := range legKinds {
			if pt, ok := parties[partyKey{id: s.PartyFor(kind), kind: kind}]; ok && hasLeg(s, kind) {
				pt.Investments++
			}
		}
	}

	r.Parties = make([]PartyTotal, 0, len(parties))
	for _, pt := range parties {
		r.Parties = append(r.Parties, *pt)
	}
	sort.Slice(r.Parties, func(i, j int) bool {
		if r.Parties[i].Kind != r.Parties[j].Kind {
			return kindOrder(r.Parties[i].Kind) < kindOrder(r.Parties[j].Kind)
		}
		return r.Parties[i].PartyID < r.Parties[j].PartyID
	})

	r.DueDates = make([]DueDateTotal, 0, len(dates))
	for _, dt := range dates {
		r.DueDates = append(r.DueDates, *dt)
	}
	sort.Slice(r.DueDates, func(i, j int) bool {
		return r.DueDates[i].DueDate.Before(r.DueDates[j].DueDate)
	})
}

func hasLeg(s *commission.CommissionSchedule, kind commission.PartyKind) bool {
	switch kind {
	case commission.PartyAdvisor:
		return s.Rates.Advisor.IsPositive()
	case commission.PartyOffice:
		return s.Rates.Office.IsPositive()
	default:
		return true
	}
}

func kindOrder(k commission.PartyKind) int {
	for i, kk := range legKinds {
		if kk == k {
			return i
		}
	}
	return len(legKinds)
}

// lines flattens the schedules into non-zero leg amounts, optionally only
// those held by one party.
func (r *Report) lines(filter generic.PartyID) []Line {
	var out []Line
	for _, s := range r.Schedules {
		for _, e := range s.Entries {
			for _, kind := range legKinds {
				amount := e.AmountFor(kind)
				if amount.IsZero() {
					continue
				}
				party := s.PartyFor(kind)
				if filter != "" && party != filter {
					continue
				}
				out = append(out, Line{
					InvestmentID: s.InvestmentID,
					PartyID:      party,
					Kind:         kind,
					DueDate:      e.DueDate,
					Amount:       amount,
				})
			}
		}
	}
	return out
}

// Lines returns every non-zero leg amount of the report, restricted to the
// report's party when it was compiled with one.
func (r *Report) Lines() []Line { return r.lines(r.PartyID) }

// DueOn returns the non-zero leg amounts due on date.
func (r *Report) DueOn(date generic.TimePoint) []Line {
	var out []Line
	for _, l := range r.Lines() {
		if l.DueDate.Equal(date) {
			out = append(out, l)
		}
	}
	return out
}
