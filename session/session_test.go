package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
	"github.com/warp/daybook/session"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedNow is Wednesday 2025-03-19.
func fixedNow() time.Time { return time.Date(2025, time.March, 19, 12, 0, 0, 0, time.Local) }

func newSession(t *testing.T, mode session.Mode) *session.Session {
	t.Helper()
	return session.New(session.Options{
		Cursor: calendar.Cursor{Year: 2025, Month: time.March},
		Mode:   mode,
		Now:    fixedNow,
	})
}

func day(s string) calendar.Date { return calendar.MustParseDate(s) }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func handle(t *testing.T, s *session.Session, cmds ...session.Command) {
	t.Helper()
	for _, c := range cmds {
		require.NoError(t, s.Handle(context.Background(), c))
	}
}

// =============================================================================
// DEFAULTS & SEED
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	s := session.New(session.Options{Now: fixedNow})

	assert.Equal(t, session.ModeWork, s.Mode())
	assert.Equal(t, ledger.KindRest, s.DayType())
	assert.Equal(t, calendar.Cursor{Year: 2025, Month: time.March}, s.Cursor())
	assert.Equal(t, day("2025-03-19"), s.Today())
	assert.Equal(t, ledger.DefaultRates(), s.Ledger().Rates())
}

func TestSeed_ZeroEndMeansToday(t *testing.T) {
	// GIVEN: a plan from 2025-03-17 without an end
	// WHEN: seeding on 2025-03-19
	// THEN: exactly the 17th, 18th and 19th are marked

	s := newSession(t, session.ModeWork)
	n, err := s.Seed(context.Background(), ledger.SeedPlan{Start: day("2025-03-17")})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	wd, err := s.WorkData(context.Background())
	require.NoError(t, err)
	assert.Len(t, wd.Days, 3)
	assert.Equal(t, 3, wd.Totals.WorkDays)
}

// =============================================================================
// MODE GUARDS
// =============================================================================

func TestModeGuards(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		mode session.Mode
		call func(s *session.Session) error
	}{
		{"set work day outside work", session.ModeMulti, func(s *session.Session) error {
			_, err := s.SetWorkDay(ctx, day("2025-03-17"), ledger.KindWork, decimal.NullDecimal{})
			return err
		}},
		{"remove work day outside work", session.ModeRange, func(s *session.Session) error {
			return s.RemoveWorkDay(ctx, day("2025-03-17"))
		}},
		{"replace selection outside multi", session.ModeWork, func(s *session.Session) error {
			return s.ReplaceSelection([]calendar.Date{day("2025-03-17")})
		}},
		{"set range outside range", session.ModeMulti, func(s *session.Session) error {
			return s.SetDateRange(day("2025-03-17"), day("2025-03-20"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.mode)
			err := tt.call(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, session.ErrModeMismatch))

			var me *session.ModeError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.mode, me.Current)
		})
	}
}

func TestAddPayments_AnyMode(t *testing.T) {
	s := newSession(t, session.ModeMulti)
	ctx := context.Background()

	err := s.AddPayments(ctx, []ledger.PaymentEntry{
		{Date: day("2025-04-10"), Amount: dec(2000)},
		{Date: day("2025-04-01"), Amount: dec(1000)},
	})
	require.NoError(t, err)

	payments, err := s.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, day("2025-04-01"), payments[0].Date)
	assert.True(t, dec(2000).Equal(payments[1].Amount))
}

// =============================================================================
// QUERIES
// =============================================================================

func TestInfo_PerMode(t *testing.T) {
	ctx := context.Background()

	t.Run("multi counts the set", func(t *testing.T) {
		s := newSession(t, session.ModeMulti)
		require.NoError(t, s.ReplaceSelection([]calendar.Date{day("2025-03-20"), day("2025-03-03")}))

		info, err := s.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, info.Month)
		assert.Equal(t, 2025, info.Year)
		assert.Equal(t, 2, info.SelectedCount)
		assert.Equal(t, []calendar.Date{day("2025-03-03"), day("2025-03-20")}, info.Selected)
		assert.Nil(t, info.Range)
		assert.Nil(t, info.Work)
	})

	t.Run("range counts days inclusive", func(t *testing.T) {
		s := newSession(t, session.ModeRange)
		require.NoError(t, s.SetDateRange(day("2025-03-10"), day("2025-03-01")))

		info, err := s.Info(ctx)
		require.NoError(t, err)
		require.NotNil(t, info.Range)
		assert.Equal(t, day("2025-03-01"), *info.Range.Start)
		assert.Equal(t, day("2025-03-10"), *info.Range.End)
		assert.Equal(t, 9, info.Range.Days)
		assert.Equal(t, 10, info.SelectedCount)
	})

	t.Run("work counts the ledger", func(t *testing.T) {
		s := newSession(t, session.ModeWork)
		_, err := s.SetWorkDay(ctx, day("2025-03-17"), ledger.KindRest, decimal.NullDecimal{})
		require.NoError(t, err)

		info, err := s.Info(ctx)
		require.NoError(t, err)
		require.NotNil(t, info.Work)
		assert.Equal(t, 1, info.SelectedCount)
		assert.True(t, dec(400).Equal(info.Work.Totals.RestTotal))
		assert.True(t, dec(300).Equal(info.Work.AdvanceRate))
		assert.True(t, dec(1500).Equal(info.Work.PaymentRate))
	})
}

func TestRangeDates(t *testing.T) {
	s := newSession(t, session.ModeRange)
	assert.Empty(t, s.RangeDates())

	handle(t, s, session.PickDay{Date: day("2025-03-05")})
	assert.Empty(t, s.RangeDates(), "incomplete range")

	handle(t, s, session.PickDay{Date: day("2025-03-03")})
	assert.Equal(t, []calendar.Date{
		day("2025-03-03"), day("2025-03-04"), day("2025-03-05"),
	}, s.RangeDates())

	rs := s.RangeState()
	assert.Equal(t, 2, rs.Days)
}

func TestClearAll(t *testing.T) {
	s := newSession(t, session.ModeWork)
	ctx := context.Background()
	_, err := s.SetWorkDay(ctx, day("2025-03-17"), ledger.KindWork, decimal.NullDecimal{})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))

	n, err := s.Ledger().Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, s.Selection())
}

func TestExtendSeed_FollowsToday(t *testing.T) {
	// GIVEN: an open-ended seed applied on 2025-03-19
	// WHEN: the clock moves to 2025-03-22
	// THEN: 03-20..03-22 are marked, a manual edit on 03-21 is kept

	now := fixedNow()
	s := session.New(session.Options{Now: func() time.Time { return now }})
	ctx := context.Background()

	_, err := s.Seed(ctx, ledger.SeedPlan{
		Start:    day("2025-03-17"),
		RestDays: []calendar.Date{day("2025-03-22")},
	})
	require.NoError(t, err)
	_, err = s.SetWorkDay(ctx, day("2025-03-21"), ledger.KindAdvance, decimal.NullDecimal{})
	require.NoError(t, err)

	n, err := s.ExtendSeed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "today already seeded")

	now = now.AddDate(0, 0, 3)
	n, err = s.ExtendSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	wd, err := s.WorkData(ctx)
	require.NoError(t, err)
	assert.Len(t, wd.Days, 6)
	assert.Equal(t, ledger.KindAdvance, wd.Days[day("2025-03-21")].Kind)
	assert.Equal(t, ledger.KindRest, wd.Days[day("2025-03-22")].Kind)
	assert.Equal(t, ledger.KindWork, wd.Days[day("2025-03-20")].Kind)
}

func TestExtendSeed_ClosedSeedIsFixed(t *testing.T) {
	now := fixedNow()
	s := session.New(session.Options{Now: func() time.Time { return now }})
	ctx := context.Background()

	_, err := s.Seed(ctx, ledger.SeedPlan{Start: day("2025-03-17"), End: day("2025-03-18")})
	require.NoError(t, err)

	now = now.AddDate(0, 0, 5)
	n, err := s.ExtendSeed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResume_KeepsStoredDays(t *testing.T) {
	// GIVEN: a store where 2025-03-18 was marked as an advance
	// WHEN: resuming an open plan from 2025-03-17 on 2025-03-19
	// THEN: only 03-17 and 03-19 are written, and the plan follows today

	now := fixedNow()
	st := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, day("2025-03-18"), ledger.Status{Kind: ledger.KindAdvance, Value: decimal.NewNullDecimal(dec(350))}))

	s := session.New(session.Options{Store: st, Now: func() time.Time { return now }})
	n, err := s.Resume(ctx, ledger.SeedPlan{Start: day("2025-03-17")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, ok, err := s.Ledger().Get(ctx, day("2025-03-18"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledger.KindAdvance, got.Kind)

	now = now.AddDate(0, 0, 1)
	n, err = s.ExtendSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResume_RemovedDayStaysRemoved(t *testing.T) {
	// GIVEN: an open seed from 2025-03-17 and 03-18 removed by hand
	// WHEN: a new session resumes the same plan on the same store a day later
	// THEN: 03-18 stays unset and only 03-20 is added

	now := fixedNow()
	clock := func() time.Time { return now }
	st := store.NewMemory()
	ctx := context.Background()
	plan := ledger.SeedPlan{Start: day("2025-03-17")}

	s := session.New(session.Options{Store: st, Now: clock})
	_, err := s.Seed(ctx, plan)
	require.NoError(t, err)
	require.NoError(t, s.RemoveWorkDay(ctx, day("2025-03-18")))

	now = now.AddDate(0, 0, 1)
	restarted := session.New(session.Options{Store: st, Now: clock})
	n, err := restarted.Resume(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err := restarted.Ledger().Get(ctx, day("2025-03-18"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = restarted.Ledger().Get(ctx, day("2025-03-20"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResume_ClearedLedgerStaysEmpty(t *testing.T) {
	now := fixedNow()
	clock := func() time.Time { return now }
	st := store.NewMemory()
	ctx := context.Background()
	plan := ledger.SeedPlan{Start: day("2025-03-17")}

	s := session.New(session.Options{Store: st, Now: clock})
	_, err := s.Seed(ctx, plan)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	now = now.AddDate(0, 0, 2)
	restarted := session.New(session.Options{Store: st, Now: clock})
	n, err := restarted.Resume(ctx, plan)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = restarted.ExtendSeed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	size, err := restarted.Ledger().Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}
