package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/report"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func date(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

func fact(id string, months int, liquidity string) commission.InvestmentFact {
	return commission.InvestmentFact{
		InvestmentID:     generic.InvestmentID(id),
		InvestorID:       generic.PartyID("investor-" + id),
		Principal:        generic.NewAmountFromInt(100000),
		StartDate:        date(2025, time.January, 10),
		CommitmentMonths: months,
		Liquidity:        liquidity,
		AdvisorID:        "advisor-1",
		AdvisorRole:      commission.AdvisorInternal,
		OfficeID:         "office-1",
		HasOffice:        true,
	}
}

func find(t *testing.T, r *report.Report, kind commission.PartyKind, id generic.PartyID) report.PartyTotal {
	t.Helper()
	for _, p := range r.Parties {
		if p.Kind == kind && p.PartyID == id {
			return p
		}
	}
	t.Fatalf("no %s total for %s", kind, id)
	return report.PartyTotal{}
}

// =============================================================================
// SKIP AND CONTINUE
// =============================================================================

func TestCompile_SkipsFailingInvestments(t *testing.T) {
	// GIVEN: Three investments, one with an unsupported period and one with
	//        an undefined rate combination
	var logs bytes.Buffer
	facts := []commission.InvestmentFact{
		fact("ok", 12, "mensal"),
		fact("bad-period", 18, "mensal"),
		fact("bad-combo", 6, "anual"),
	}

	// WHEN: Compiling the report
	r, err := report.Compile(context.Background(), commission.DefaultEngine(), facts, date(2025, time.June, 1),
		report.Options{Workers: 2, Logger: zerolog.New(&logs)})

	// THEN: The valid investment is reported and the others are skipped
	//       with their codes and logged at warn level
	require.NoError(t, err)
	require.Len(t, r.Schedules, 1)
	assert.Equal(t, generic.InvestmentID("ok"), r.Schedules[0].InvestmentID)

	require.Len(t, r.Skipped, 2)
	assert.Equal(t, generic.InvestmentID("bad-period"), r.Skipped[0].InvestmentID)
	assert.Equal(t, "unsupported_period", r.Skipped[0].Code)
	assert.ErrorIs(t, r.Skipped[0].Err, commission.ErrUnsupportedPeriod)
	assert.Equal(t, generic.InvestmentID("bad-combo"), r.Skipped[1].InvestmentID)
	assert.Equal(t, "invalid_rate_combination", r.Skipped[1].Code)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "bad-period")
}

func TestCompile_PreservesInputOrder(t *testing.T) {
	var facts []commission.InvestmentFact
	for _, id := range []string{"e", "d", "c", "b", "a", "f", "g", "h"} {
		facts = append(facts, fact(id, 12, "mensal"))
	}

	r, err := report.Compile(context.Background(), commission.DefaultEngine(), facts, date(2025, time.June, 1),
		report.Options{Workers: 3, Logger: zerolog.Nop()})

	require.NoError(t, err)
	require.Len(t, r.Schedules, len(facts))
	for i, s := range r.Schedules {
		assert.Equal(t, facts[i].InvestmentID, s.InvestmentID)
	}
}

func TestCompile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := report.Compile(ctx, commission.DefaultEngine(), []commission.InvestmentFact{fact("a", 12, "mensal")},
		date(2025, time.June, 1), report.Options{Logger: zerolog.Nop()})

	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// AGGREGATES
// =============================================================================

func TestCompile_PartyTotals_SplitByAsOf(t *testing.T) {
	// GIVEN: The reference monthly investment, reported as of March 20
	r, err := report.Compile(context.Background(), commission.DefaultEngine(),
		[]commission.InvestmentFact{fact("inv-1", 12, "mensal")}, date(2025, time.March, 20),
		report.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	// THEN: January and February are elapsed, March is due, the rest scheduled
	office := find(t, r, commission.PartyOffice, "office-1")
	assert.Equal(t, "1333.33", office.Elapsed.String())
	assert.Equal(t, "1000.00", office.Due.String())
	assert.Equal(t, "9000.00", office.Scheduled.String())
	assert.Equal(t, "10000.00", office.Outstanding().String())
	assert.Equal(t, "11333.33", office.Total().String())
	assert.Equal(t, 1, office.Investments)

	advisor := find(t, r, commission.PartyAdvisor, "advisor-1")
	assert.Equal(t, "4000.00", advisor.Elapsed.String())
	assert.Equal(t, "34000.00", advisor.Total().String())

	investor := find(t, r, commission.PartyInvestor, "investor-inv-1")
	assert.Equal(t, "0.00", investor.Elapsed.String())
	assert.Equal(t, "630.00", investor.Due.String())
	assert.Equal(t, "18900.00", investor.Scheduled.String())

	// Parties are ordered investor, advisor, office
	require.Len(t, r.Parties, 3)
	assert.Equal(t, commission.PartyInvestor, r.Parties[0].Kind)
	assert.Equal(t, commission.PartyOffice, r.Parties[2].Kind)
}

func TestCompile_DueDateTotals(t *testing.T) {
	facts := []commission.InvestmentFact{fact("a", 12, "mensal"), fact("b", 12, "mensal")}

	r, err := report.Compile(context.Background(), commission.DefaultEngine(), facts, date(2025, time.March, 20),
		report.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	require.Len(t, r.DueDates, 12)
	for i := 1; i < len(r.DueDates); i++ {
		assert.True(t, r.DueDates[i-1].DueDate.Before(r.DueDates[i].DueDate))
	}

	jan := r.DueDates[0]
	assert.Equal(t, date(2025, time.January, 20), jan.DueDate)
	assert.Equal(t, report.StatusElapsed, jan.Status)
	assert.Equal(t, "666.66", jan.Office.String())
	assert.Equal(t, "2000.00", jan.Advisor.String())
	assert.Equal(t, "0.00", jan.Investor.String())

	mar := r.DueDates[2]
	assert.Equal(t, report.StatusDue, mar.Status)
	assert.Equal(t, "1260.00", mar.Investor.String())
	assert.Equal(t, "9260.00", mar.Total().String())

	assert.Equal(t, report.StatusScheduled, r.DueDates[3].Status)
}

func TestCompile_PartyFilter(t *testing.T) {
	// GIVEN: Two investments, only one with advisor-2
	other := fact("b", 12, "mensal")
	other.AdvisorID = "advisor-2"
	facts := []commission.InvestmentFact{fact("a", 12, "mensal"), other}

	// WHEN: Filtering on advisor-2
	r, err := report.Compile(context.Background(), commission.DefaultEngine(), facts, date(2025, time.March, 20),
		report.Options{PartyID: "advisor-2", Logger: zerolog.Nop()})
	require.NoError(t, err)

	// THEN: Only that advisor's leg of investment b is aggregated
	require.Len(t, r.Schedules, 1)
	assert.Equal(t, generic.InvestmentID("b"), r.Schedules[0].InvestmentID)
	require.Len(t, r.Parties, 1)
	assert.Equal(t, generic.PartyID("advisor-2"), r.Parties[0].PartyID)
	assert.Equal(t, "34000.00", r.Parties[0].Total().String())
	for _, d := range r.DueDates {
		assert.True(t, d.Office.IsZero())
		assert.True(t, d.Investor.IsZero())
	}
}

func TestCompile_PartyFilter_AppliesToLines(t *testing.T) {
	// GIVEN: A report filtered on the office of the reference investment
	r, err := report.Compile(context.Background(), commission.DefaultEngine(),
		[]commission.InvestmentFact{fact("inv-1", 12, "mensal")}, date(2025, time.March, 20),
		report.Options{PartyID: "office-1", Logger: zerolog.Nop()})
	require.NoError(t, err)

	// WHEN: Listing the lines due on the March cutoff
	due := r.DueOn(date(2025, time.March, 20))

	// THEN: Only the office leg is returned, not the advisor or investor legs
	require.Len(t, due, 1)
	assert.Equal(t, generic.PartyID("office-1"), due[0].PartyID)
	assert.Equal(t, commission.PartyOffice, due[0].Kind)
	assert.Equal(t, "1000.00", due[0].Amount.String())

	require.Len(t, r.Lines(), 12)
	for _, l := range r.Lines() {
		assert.Equal(t, generic.PartyID("office-1"), l.PartyID)
	}
}

func TestReport_DueOn(t *testing.T) {
	r, err := report.Compile(context.Background(), commission.DefaultEngine(),
		[]commission.InvestmentFact{fact("inv-1", 12, "mensal")}, date(2025, time.March, 20),
		report.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	lines := r.DueOn(date(2025, time.March, 20))
	require.Len(t, lines, 3)
	assert.Equal(t, commission.PartyInvestor, lines[0].Kind)
	assert.Equal(t, "630.00", lines[0].Amount.String())

	assert.Empty(t, r.DueOn(date(2025, time.March, 21)))
}

func TestStatusOf(t *testing.T) {
	asOf := date(2025, time.March, 20)

	assert.Equal(t, report.StatusElapsed, report.StatusOf(date(2025, time.February, 20), asOf))
	assert.Equal(t, report.StatusDue, report.StatusOf(asOf, asOf))
	assert.Equal(t, report.StatusScheduled, report.StatusOf(date(2025, time.April, 20), asOf))
}
