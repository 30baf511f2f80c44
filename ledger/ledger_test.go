package ledger_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(store.NewMemory(), ledger.DefaultRates())
}

func day(s string) calendar.Date { return calendar.MustParseDate(s) }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func none() decimal.NullDecimal { return decimal.NullDecimal{} }

func snapshot(t *testing.T, l *ledger.Ledger) []ledger.Entry {
	t.Helper()
	entries, err := l.Snapshot(context.Background())
	require.NoError(t, err)
	return entries
}

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestToggle_SameKindTwice_RestoresDay(t *testing.T) {
	// GIVEN: a ledger with a work day on the 18th
	// WHEN: toggling rest on the 17th twice and work on the 18th twice
	// THEN: both days are back to their previous state

	l := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Set(ctx, day("2025-03-18"), ledger.KindWork, none())
	require.NoError(t, err)
	before := snapshot(t, l)

	marked, err := l.Toggle(ctx, day("2025-03-17"), ledger.KindRest, none())
	require.NoError(t, err)
	assert.True(t, marked)
	marked, err = l.Toggle(ctx, day("2025-03-17"), ledger.KindRest, none())
	require.NoError(t, err)
	assert.False(t, marked)

	assert.Equal(t, before, snapshot(t, l))

	_, err = l.Toggle(ctx, day("2025-03-18"), ledger.KindWork, none())
	require.NoError(t, err)
	_, ok, err := l.Get(ctx, day("2025-03-18"))
	require.NoError(t, err)
	assert.False(t, ok, "toggling the stored kind removes it")
}

func TestToggle_DifferentKind_Replaces(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	d := day("2025-03-17")

	_, err := l.Toggle(ctx, d, ledger.KindRest, none())
	require.NoError(t, err)
	marked, err := l.Toggle(ctx, d, ledger.KindAdvance, none())
	require.NoError(t, err)
	assert.True(t, marked)

	s, ok, err := l.Get(ctx, d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.Equal(ledger.Advance(dec(300))), "got %s", s)
}

func TestToggle_CapturesRateAtAssignment(t *testing.T) {
	// GIVEN: advance rate 300
	// WHEN: marking an advance, then changing the rate to 500
	// THEN: the stored advance keeps 300, new advances get 500

	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Toggle(ctx, day("2025-03-17"), ledger.KindAdvance, none())
	require.NoError(t, err)
	require.NoError(t, l.SetRate(ledger.KindAdvance, dec(500)))
	_, err = l.Toggle(ctx, day("2025-03-18"), ledger.KindAdvance, none())
	require.NoError(t, err)

	first, _, _ := l.Get(ctx, day("2025-03-17"))
	second, _, _ := l.Get(ctx, day("2025-03-18"))
	assert.True(t, first.Value.Decimal.Equal(dec(300)))
	assert.True(t, second.Value.Decimal.Equal(dec(500)))

	totals, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.True(t, totals.AdvanceTotal.Equal(dec(800)))
}

func TestToggle_ExplicitValue(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Toggle(ctx, day("2025-03-17"), ledger.KindPayment, decimal.NewNullDecimal(dec(1800)))
	require.NoError(t, err)
	_, err = l.Toggle(ctx, day("2025-03-18"), ledger.KindWork, decimal.NewNullDecimal(dec(999)))
	require.NoError(t, err)

	pay, _, _ := l.Get(ctx, day("2025-03-17"))
	assert.True(t, pay.Value.Decimal.Equal(dec(1800)))
	work, _, _ := l.Get(ctx, day("2025-03-18"))
	assert.False(t, work.Value.Valid, "work days never carry a value")
}

func TestToggle_InvalidKind(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Toggle(context.Background(), day("2025-03-17"), ledger.Kind("holiday"), none())
	assert.ErrorIs(t, err, ledger.ErrInvalidKind)
	assert.True(t, ledger.IsClientError(err))
	assert.Empty(t, snapshot(t, l))
}

func TestSetRate_OnlyAdvanceAndPayment(t *testing.T) {
	l := newTestLedger(t)
	assert.ErrorIs(t, l.SetRate(ledger.KindRest, dec(1)), ledger.ErrRateNotSettable)
	assert.ErrorIs(t, l.SetRate(ledger.KindWork, dec(1)), ledger.ErrRateNotSettable)
	require.NoError(t, l.SetRate(ledger.KindPayment, dec(2000)))
	assert.True(t, l.Rates().Payment.Equal(dec(2000)))
}

// =============================================================================
// REMOVE / CLEAR / ENTRIES
// =============================================================================

func TestRemoveAndClear(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	for _, d := range []string{"2025-03-17", "2025-03-18", "2025-03-19"} {
		_, err := l.Set(ctx, day(d), ledger.KindWork, none())
		require.NoError(t, err)
	}

	require.NoError(t, l.Remove(ctx, day("2025-03-18")))
	require.NoError(t, l.Remove(ctx, day("2025-04-01")), "removing an unset day is a no-op")
	n, err := l.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, l.Clear(ctx))
	assert.Empty(t, snapshot(t, l))
}

func TestEntries_SnapshotIsRestartableAndFrozen(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Set(ctx, day("2025-03-17"), ledger.KindRest, none())
	require.NoError(t, err)

	seq, err := l.Entries(ctx)
	require.NoError(t, err)

	_, err = l.Set(ctx, day("2025-03-18"), ledger.KindWork, none())
	require.NoError(t, err)

	for range 2 {
		count := 0
		for d, s := range seq {
			assert.Equal(t, day("2025-03-17"), d)
			assert.Equal(t, ledger.KindRest, s.Kind)
			count++
		}
		assert.Equal(t, 1, count)
	}
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestPayments_SortedAscending(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddPayments(ctx, []ledger.PaymentEntry{
		{Date: day("2025-07-30"), Amount: dec(3600)},
		{Date: day("2025-05-11"), Amount: dec(1800)},
		{Date: day("2025-05-25"), Amount: dec(1900)},
	}))
	_, err := l.Set(ctx, day("2025-05-12"), ledger.KindWork, none())
	require.NoError(t, err)

	payments, err := l.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, "2025-05-11", payments[0].Date.String())
	assert.Equal(t, "2025-05-25", payments[1].Date.String())
	assert.Equal(t, "2025-07-30", payments[2].Date.String())
	assert.True(t, payments[2].Amount.Equal(dec(3600)))
}

func TestPayments_MissingValueFallsBackToRate(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, day("2025-03-27"), ledger.Status{Kind: ledger.KindPayment}))

	l := ledger.New(s, ledger.DefaultRates())
	payments, err := l.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(dec(1500)))
}

func TestPayments_EmptyLedger(t *testing.T) {
	payments, err := newTestLedger(t).Payments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}

// =============================================================================
// ORDER INDEPENDENCE
// =============================================================================

func TestTotals_InsertionOrderIndependent(t *testing.T) {
	entries := []ledger.Entry{
		{Date: day("2025-03-17"), Status: ledger.Work()},
		{Date: day("2025-03-18"), Status: ledger.Rest()},
		{Date: day("2025-03-19"), Status: ledger.Advance(dec(250))},
		{Date: day("2025-03-20"), Status: ledger.Payment(dec(1200))},
		{Date: day("2025-03-21"), Status: ledger.Work()},
	}
	want := ledger.ComputeTotals(ledger.EntrySeq(entries), ledger.DefaultRates())

	rng := rand.New(rand.NewSource(7))
	for range 20 {
		shuffled := append([]ledger.Entry(nil), entries...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		l := newTestLedger(t)
		for _, e := range shuffled {
			_, err := l.Set(context.Background(), e.Date, e.Status.Kind, e.Status.Value)
			require.NoError(t, err)
		}
		got, err := l.Totals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want.MarkedDays(), got.MarkedDays())
		assert.True(t, want.FinalBalance.Equal(got.FinalBalance))
	}
}
