package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
)

func TestSeed_ReferenceScenario(t *testing.T) {
	// GIVEN: start 2025-03-17, rest 03-20 and 03-21, payment 1500 on 03-27,
	//        end 2025-03-28
	// WHEN: seeding and computing totals
	// THEN: 9 work, 2 rest, 1 payment, balance 1100

	l := newTestLedger(t)
	ctx := context.Background()

	n, err := l.Seed(ctx, ledger.SeedPlan{
		Start:    day("2025-03-17"),
		End:      day("2025-03-28"),
		RestDays: []calendar.Date{day("2025-03-20"), day("2025-03-21")},
		Payments: []ledger.PaymentEntry{{Date: day("2025-03-27"), Amount: dec(1500)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, d := range []string{"03-17", "03-18", "03-19", "03-22", "03-23", "03-24", "03-25", "03-26", "03-28"} {
		s, ok, err := l.Get(ctx, day("2025-"+d))
		require.NoError(t, err)
		require.True(t, ok, d)
		assert.Equal(t, ledger.KindWork, s.Kind, d)
	}
	for _, d := range []string{"03-20", "03-21"} {
		s, _, _ := l.Get(ctx, day("2025-"+d))
		assert.Equal(t, ledger.KindRest, s.Kind, d)
	}
	pay, _, _ := l.Get(ctx, day("2025-03-27"))
	assert.True(t, pay.Equal(ledger.Payment(dec(1500))))

	_, ok, err := l.Get(ctx, day("2025-03-16"))
	require.NoError(t, err)
	assert.False(t, ok)

	totals, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.RestDays)
	assert.Equal(t, 9, totals.WorkDays)
	assert.Equal(t, 0, totals.AdvanceDays)
	assert.Equal(t, 1, totals.PaymentDays)
	assert.True(t, totals.PaymentTotal.Equal(dec(1500)))
	assert.True(t, totals.RestTotal.Equal(dec(800)))
	assert.True(t, totals.WorkTotal.Equal(dec(1800)))
	assert.True(t, totals.EarningsTotal.Equal(dec(2600)))
	assert.True(t, totals.FinalBalance.Equal(dec(1100)))
}

func TestSeed_DaysOutsideSpanUntouched(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Seed(ctx, ledger.SeedPlan{
		Start:    day("2025-03-17"),
		End:      day("2025-03-18"),
		RestDays: []calendar.Date{day("2025-08-24")},
		Payments: []ledger.PaymentEntry{{Date: day("2025-08-30"), Amount: dec(1800)}},
	})
	require.NoError(t, err)

	assert.Len(t, snapshot(t, l), 2)
	payments, err := l.Payments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestSeed_PaymentWinsOverRest(t *testing.T) {
	entries, err := ledger.SeedPlan{
		Start:    day("2025-03-17"),
		End:      day("2025-03-17"),
		RestDays: []calendar.Date{day("2025-03-17")},
		Payments: []ledger.PaymentEntry{{Date: day("2025-03-17"), Amount: dec(900)}},
	}.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.KindPayment, entries[0].Status.Kind)
}

func TestSeed_RestRule(t *testing.T) {
	// GIVEN: every Sunday is a rest day
	// WHEN: seeding March 17..30, 2025 (Sundays are the 23rd and 30th)
	// THEN: those two are rest, the rest are work

	entries, err := ledger.SeedPlan{
		Start:    day("2025-03-17"),
		End:      day("2025-03-30"),
		RestRule: "FREQ=WEEKLY;BYDAY=SU",
	}.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 14)

	var rest []string
	for _, e := range entries {
		if e.Status.Kind == ledger.KindRest {
			rest = append(rest, e.Date.String())
		}
	}
	assert.Equal(t, []string{"2025-03-23", "2025-03-30"}, rest)
}

func TestSeed_InvalidInput(t *testing.T) {
	_, err := ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-16")}.Entries()
	assert.ErrorIs(t, err, calendar.ErrInvalidSpan)

	_, err = ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-18"), RestRule: "FREQ=SOMETIMES"}.Entries()
	assert.ErrorIs(t, err, ledger.ErrInvalidRule)
	assert.True(t, ledger.IsClientError(err))
}

func TestExtend_OnlyUnsetDaysFromDate(t *testing.T) {
	// GIVEN: a plan seeded through 03-18 and a manual rest on 03-20
	// WHEN: extending the plan through 03-21 from 03-19
	// THEN: 03-19 and 03-21 are added as work, 03-20 keeps its edit

	l := newTestLedger(t)
	ctx := context.Background()
	plan := ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-18")}
	_, err := l.Seed(ctx, plan)
	require.NoError(t, err)
	_, err = l.Set(ctx, day("2025-03-20"), ledger.KindRest, none())
	require.NoError(t, err)
	_, err = l.Set(ctx, day("2025-03-17"), ledger.KindRest, none())
	require.NoError(t, err)

	plan.End = day("2025-03-21")
	n, err := l.Extend(ctx, plan, day("2025-03-19"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, _, err := l.Get(ctx, day("2025-03-20"))
	require.NoError(t, err)
	assert.Equal(t, ledger.KindRest, s.Kind)
	s, _, err = l.Get(ctx, day("2025-03-17"))
	require.NoError(t, err)
	assert.Equal(t, ledger.KindRest, s.Kind, "days before from untouched")
	s, ok, err := l.Get(ctx, day("2025-03-21"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledger.KindWork, s.Kind)
}

func TestSeedState_Progress(t *testing.T) {
	// GIVEN: a ledger seeded through 03-18
	// WHEN: extending through 03-21, then back to 03-19
	// THEN: the recorded progress only moves forward

	l := newTestLedger(t)
	ctx := context.Background()

	_, ok, err := l.SeedState(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "never seeded")

	plan := ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-18")}
	_, err = l.Seed(ctx, plan)
	require.NoError(t, err)
	st, ok, err := l.SeedState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledger.SeedState{Through: day("2025-03-18")}, st)

	plan.End = day("2025-03-21")
	_, err = l.Extend(ctx, plan, day("2025-03-19"))
	require.NoError(t, err)

	plan.End = day("2025-03-19")
	_, err = l.Extend(ctx, plan, day("2025-03-19"))
	require.NoError(t, err)

	st, _, err = l.SeedState(ctx)
	require.NoError(t, err)
	assert.Equal(t, day("2025-03-21"), st.Through)
}

func TestExtend_ClearedLedgerStaysEmpty(t *testing.T) {
	// GIVEN: a seeded ledger that was cleared
	// WHEN: extending the same plan
	// THEN: nothing is written until the next Seed

	l := newTestLedger(t)
	ctx := context.Background()
	plan := ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-20")}

	_, err := l.Seed(ctx, plan)
	require.NoError(t, err)
	require.NoError(t, l.Clear(ctx))

	st, ok, err := l.SeedState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, st.Cleared)

	n, err := l.Extend(ctx, plan, plan.Start)
	require.NoError(t, err)
	assert.Zero(t, n)
	size, err := l.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	_, err = l.Seed(ctx, plan)
	require.NoError(t, err)
	st, _, err = l.SeedState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Cleared)
}
