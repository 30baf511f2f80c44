/*
store.go - Persistence interface for day statuses

PURPOSE:
  Defines the boundary between the ledger and wherever statuses live.
  The ledger owns every rule (toggle semantics, captured rates, seeding);
  a Store only keeps one Status per Date.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory, the default
  - store/sqlite/sqlite.go: Optional durable backend

SEED STATE:
  Besides the days, a Store keeps one SeedState: the last day a seed has
  written and whether the ledger was cleared since. Clear() leaves it to
  the ledger, which records the clear itself.

ATOMIC BATCHES:
  PutBatch() is all-or-nothing. Seeding a span or adding a list of
  payments either lands completely or not at all.
*/
package ledger

import (
	"context"

	"github.com/warp/daybook/calendar"
)

// SeedState is how far a seed has been written. It outlives the process so
// that a resumed seed neither re-marks days removed since nor refills a
// cleared ledger.
type SeedState struct {
	Through calendar.Date `json:"through"` // last seeded day, zero when never seeded
	Cleared bool          `json:"cleared"` // cleared after the last seed
}

// Store keeps at most one Status per Date.
type Store interface {
	// Get returns the status of a day, ok=false when unset.
	Get(ctx context.Context, date calendar.Date) (Status, bool, error)

	// Put sets the status of a day, replacing any previous one.
	Put(ctx context.Context, date calendar.Date, status Status) error

	// PutBatch sets many days atomically.
	PutBatch(ctx context.Context, entries []Entry) error

	// Delete unsets a day. Deleting an unset day is not an error.
	Delete(ctx context.Context, date calendar.Date) error

	// Clear unsets every day.
	Clear(ctx context.Context) error

	// Load returns a copy of every entry, ordered by date.
	Load(ctx context.Context) ([]Entry, error)

	// SeedState returns the recorded seed progress, ok=false when none.
	SeedState(ctx context.Context) (SeedState, bool, error)

	// PutSeedState replaces the recorded seed progress.
	PutSeedState(ctx context.Context, state SeedState) error
}
