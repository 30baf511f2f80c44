package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
)

func TestMemory_OneStatusPerDay(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	d := calendar.MustParseDate("2025-03-17")

	require.NoError(t, m.Put(ctx, d, ledger.Rest()))
	require.NoError(t, m.Put(ctx, d, ledger.Payment(decimal.NewFromInt(1500))))

	s, ok, err := m.Get(ctx, d)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ledger.KindPayment, s.Kind)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_LoadIsSortedCopy(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.PutBatch(ctx, []ledger.Entry{
		{Date: calendar.MustParseDate("2025-03-19"), Status: ledger.Work()},
		{Date: calendar.MustParseDate("2025-03-17"), Status: ledger.Rest()},
	}))

	entries, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-17", entries[0].Date.String())

	entries[0].Status = ledger.Work()
	s, _, _ := m.Get(ctx, calendar.MustParseDate("2025-03-17"))
	assert.Equal(t, ledger.KindRest, s.Kind, "mutating a loaded entry must not leak into the store")

	require.NoError(t, m.Delete(ctx, calendar.MustParseDate("2025-03-19")))
	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SeedState(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	_, ok, err := m.SeedState(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := ledger.SeedState{Through: calendar.MustParseDate("2025-03-31")}
	require.NoError(t, m.PutSeedState(ctx, want))
	require.NoError(t, m.Clear(ctx))

	got, ok, err := m.SeedState(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
