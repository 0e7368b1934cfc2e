/*
scheduler.go - Daily payables digest

PURPOSE:
  Compiles the commission report for the current day on a cron schedule and
  logs every non-zero amount due today, per party. Back-office staff use the
  digest to prepare the payment run on cutoff days.

DESIGN:
  - robfig/cron with a seconds field ("0 0 7 * * *" = 07:00 every day)
  - "today" is sampled by the job through Clock, never by the engine
  - Investments that cannot be calculated are skipped and logged by the
    report layer; the digest still covers the rest

USAGE:
  digest := NewDigestScheduler(handler.Resolver, engine, log)
  if err := digest.Start("0 0 7 * * *"); err != nil { ... }
  // ... later
  digest.Stop()

SEE ALSO:
  - report/report.go: Compile
  - config/config.go: DIGEST_SCHEDULE, DIGEST_WORKERS
*/
package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/report"
)

// Payable is the total one party is owed on a date.
type Payable struct {
	PartyID     generic.PartyID
	Kind        commission.PartyKind
	Amount      generic.Amount
	Investments int
}

// Digest is the outcome of one digest run.
type Digest struct {
	Date     generic.TimePoint
	Payables []Payable
	Skipped  int
}

// Total sums every payable of the digest.
func (d Digest) Total() generic.Amount {
	total := generic.Zero()
	for _, p := range d.Payables {
		total = total.Add(p.Amount)
	}
	return total
}

// DigestScheduler runs the payables digest on a cron schedule.
type DigestScheduler struct {
	Resolver *commission.FactResolver
	Engine   *commission.Engine
	Workers  int
	Timeout  time.Duration
	Clock    func() generic.TimePoint

	log  zerolog.Logger
	cron *cron.Cron
	mu   sync.Mutex
}

// NewDigestScheduler creates a new scheduler.
func NewDigestScheduler(resolver *commission.FactResolver, engine *commission.Engine, log zerolog.Logger) *DigestScheduler {
	return &DigestScheduler{
		Resolver: resolver,
		Engine:   engine,
		Workers:  4,
		Timeout:  5 * time.Minute,
		Clock:    generic.Today,
		log:      log.With().Str("component", "digest").Logger(),
	}
}

// Start registers the digest under spec and starts the cron runner.
func (ds *DigestScheduler) Start(spec string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, ds.run); err != nil {
		return err
	}
	c.Start()
	ds.cron = c

	ds.log.Info().Str("schedule", spec).Msg("Digest scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running digest to finish.
func (ds *DigestScheduler) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.cron == nil {
		return
	}
	ctx := ds.cron.Stop()
	<-ctx.Done()
	ds.cron = nil
	ds.log.Info().Msg("Digest scheduler stopped")
}

func (ds *DigestScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), ds.Timeout)
	defer cancel()

	if _, err := ds.RunOnce(ctx); err != nil {
		ds.log.Error().Err(err).Msg("Digest failed")
	}
}

// RunOnce compiles the digest for the current day and logs it.
func (ds *DigestScheduler) RunOnce(ctx context.Context) (Digest, error) {
	today := ds.Clock()

	rep, err := compileStored(ctx, ds.Resolver, ds.Engine, today, report.Options{
		Workers: ds.Workers,
		Logger:  ds.log,
	})
	if err != nil {
		return Digest{}, err
	}

	digest := Digest{
		Date:     today,
		Payables: payablesOn(rep, today),
		Skipped:  len(rep.Skipped),
	}

	for _, p := range digest.Payables {
		ds.log.Info().
			Str("date", today.String()).
			Str("party_id", string(p.PartyID)).
			Str("kind", string(p.Kind)).
			Str("amount", p.Amount.String()).
			Int("investments", p.Investments).
			Msg("Payable due today")
	}
	ds.log.Info().
		Str("date", today.String()).
		Int("payables", len(digest.Payables)).
		Str("total", digest.Total().String()).
		Int("skipped", digest.Skipped).
		Msg("Digest completed")

	return digest, nil
}

func payablesOn(rep *report.Report, date generic.TimePoint) []Payable {
	type key struct {
		id   generic.PartyID
		kind commission.PartyKind
	}
	byParty := make(map[key]*Payable)
	seen := make(map[key]map[generic.InvestmentID]bool)

	for _, line := range rep.DueOn(date) {
		k := key{id: line.PartyID, kind: line.Kind}
		p, ok := byParty[k]
		if !ok {
			p = &Payable{PartyID: line.PartyID, Kind: line.Kind, Amount: generic.Zero()}
			byParty[k] = p
			seen[k] = make(map[generic.InvestmentID]bool)
		}
		p.Amount = p.Amount.Add(line.Amount)
		if !seen[k][line.InvestmentID] {
			seen[k][line.InvestmentID] = true
			p.Investments++
		}
	}

	payables := make([]Payable, 0, len(byParty))
	for _, p := range byParty {
		payables = append(payables, *p)
	}
	sort.Slice(payables, func(i, j int) bool {
		if payables[i].Kind != payables[j].Kind {
			return payables[i].Kind < payables[j].Kind
		}
		return payables[i].PartyID < payables[j].PartyID
	})
	return payables
}
