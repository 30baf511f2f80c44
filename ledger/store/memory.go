// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	days map[calendar.Date]ledger.Status
	seed *ledger.SeedState
}

func NewMemory() *Memory {
	return &Memory{days: make(map[calendar.Date]ledger.Status)}
}

func (m *Memory) Get(_ context.Context, date calendar.Date) (ledger.Status, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.days[date]
	return s, ok, nil
}

func (m *Memory) Put(_ context.Context, date calendar.Date, status ledger.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[date] = status
	return nil
}

// PutBatch writes all entries under one lock, so readers never observe a
// partial batch.
func (m *Memory) PutBatch(_ context.Context, entries []ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.days[e.Date] = e.Status
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, date calendar.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.days, date)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.days)
	return nil
}

func (m *Memory) Load(_ context.Context) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Entry, 0, len(m.days))
	for d, s := range m.days {
		result = append(result, ledger.Entry{Date: d, Status: s})
	}
	slices.SortFunc(result, func(a, b ledger.Entry) int { return a.Date.Compare(b.Date) })
	return result, nil
}

func (m *Memory) SeedState(_ context.Context) (ledger.SeedState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.seed == nil {
		return ledger.SeedState{}, false, nil
	}
	return *m.seed, true, nil
}

func (m *Memory) PutSeedState(_ context.Context, state ledger.SeedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed = &state
	return nil
}

// Len returns the number of marked days.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.days)
}
