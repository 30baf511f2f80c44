/*
ledger.go - The day-status ledger

PURPOSE:
  The Ledger is the single owner of day statuses. Every mutation goes
  through it: seeding, toggling from the calendar, explicit sets from the
  programmatic surface, bulk payments, removal and clearing.

INVARIANTS:
  1. ONE STATUS PER DAY: a date maps to at most one Status.
  2. CAPTURED VALUES: advance and payment statuses store the amount at the
     moment of assignment. Changing a rate later never changes stored days.
  3. SELF-INVERSE TOGGLE: toggling the same kind twice restores the day.

TOGGLE:
  Clicking a day with the current day type either marks it or, when the
  day already has that kind, unmarks it:

    Toggle(17th, rest)   -> 17th = rest
    Toggle(17th, work)   -> 17th = work    (kind replaced)
    Toggle(17th, work)   -> 17th unset     (same kind removes)

TOTALS:
  Totals are never stored. Totals() folds the current snapshot with the
  current rates; see totals.go.

SEE ALSO:
  - store.go: persistence boundary
  - seed.go: initial dataset
*/
package ledger

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	store Store
	rates Rates
}

// New creates a ledger over store using rates as the current configuration.
func New(store Store, rates Rates) *Ledger {
	return &Ledger{store: store, rates: rates}
}

// Rates returns the current configuration.
func (l *Ledger) Rates() Rates { return l.rates }

// SetRate changes the default amount captured by new advance or payment
// days. Rest and work rates are fixed for the lifetime of the ledger.
func (l *Ledger) SetRate(kind Kind, amount decimal.Decimal) error {
	switch kind {
	case KindAdvance:
		l.rates.Advance = amount
	case KindPayment:
		l.rates.Payment = amount
	default:
		return fmt.Errorf("%w: %s", ErrRateNotSettable, kind)
	}
	return nil
}

// status builds the value to store. Explicit values are only kept for
// advance and payment; otherwise the current rate is captured.
func (l *Ledger) status(kind Kind, explicit decimal.NullDecimal) (Status, error) {
	if !kind.Valid() {
		return Status{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if !kind.Valued() {
		return Status{Kind: kind}, nil
	}
	if explicit.Valid {
		return Status{Kind: kind, Value: explicit}, nil
	}
	return Status{Kind: kind, Value: decimal.NewNullDecimal(l.rates.For(kind))}, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Toggle marks date with kind, or unmarks it when it already has that kind.
// Returns true when the day ends up marked.
func (l *Ledger) Toggle(ctx context.Context, date calendar.Date, kind Kind, explicit decimal.NullDecimal) (bool, error) {
	next, err := l.status(kind, explicit)
	if err != nil {
		return false, err
	}

	current, ok, err := l.store.Get(ctx, date)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", date, err)
	}
	if ok && current.Kind == kind {
		if err := l.store.Delete(ctx, date); err != nil {
			return false, fmt.Errorf("delete %s: %w", date, err)
		}
		return false, nil
	}

	if err := l.store.Put(ctx, date, next); err != nil {
		return false, fmt.Errorf("put %s: %w", date, err)
	}
	return true, nil
}

// Set marks date with kind regardless of its current status.
func (l *Ledger) Set(ctx context.Context, date calendar.Date, kind Kind, explicit decimal.NullDecimal) (Status, error) {
	s, err := l.status(kind, explicit)
	if err != nil {
		return Status{}, err
	}
	if err := l.store.Put(ctx, date, s); err != nil {
		return Status{}, fmt.Errorf("put %s: %w", date, err)
	}
	return s, nil
}

// Remove unsets date.
func (l *Ledger) Remove(ctx context.Context, date calendar.Date) error {
	if err := l.store.Delete(ctx, date); err != nil {
		return fmt.Errorf("delete %s: %w", date, err)
	}
	return nil
}

// Clear unsets every day and records the clear, so a seed resumed later
// leaves the ledger empty.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	if err := l.store.PutSeedState(ctx, SeedState{Cleared: true}); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

// AddPayments marks every listed day as a payment of the given amount, in a
// single batch. Later entries for the same date win.
func (l *Ledger) AddPayments(ctx context.Context, payments []PaymentEntry) error {
	entries := make([]Entry, 0, len(payments))
	for _, p := range payments {
		entries = append(entries, Entry{Date: p.Date, Status: Payment(p.Amount)})
	}
	if err := l.store.PutBatch(ctx, entries); err != nil {
		return fmt.Errorf("add payments: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns the status of date, ok=false when unset.
func (l *Ledger) Get(ctx context.Context, date calendar.Date) (Status, bool, error) {
	s, ok, err := l.store.Get(ctx, date)
	if err != nil {
		return Status{}, false, fmt.Errorf("get %s: %w", date, err)
	}
	return s, ok, nil
}

// Snapshot returns every entry at call time, ordered by date.
func (l *Ledger) Snapshot(ctx context.Context) ([]Entry, error) {
	entries, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return entries, nil
}

// Entries returns a restartable sequence over a snapshot taken at call time.
// Later mutations are not visible to the returned sequence.
func (l *Ledger) Entries(ctx context.Context) (iter.Seq2[calendar.Date, Status], error) {
	entries, err := l.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return EntrySeq(entries), nil
}

// EntrySeq adapts a slice of entries to the sequence form ComputeTotals takes.
func EntrySeq(entries []Entry) iter.Seq2[calendar.Date, Status] {
	return func(yield func(calendar.Date, Status) bool) {
		for _, e := range entries {
			if !yield(e.Date, e.Status) {
				return
			}
		}
	}
}

// Len returns the number of marked days.
func (l *Ledger) Len(ctx context.Context) (int, error) {
	entries, err := l.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Payments lists every payment day in ascending date order. A payment
// without a stored amount reports the current payment rate.
func (l *Ledger) Payments(ctx context.Context) ([]PaymentEntry, error) {
	entries, err := l.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	payments := []PaymentEntry{}
	for _, e := range entries {
		if e.Status.Kind != KindPayment {
			continue
		}
		amount := l.rates.Payment
		if e.Status.Value.Valid {
			amount = e.Status.Value.Decimal
		}
		payments = append(payments, PaymentEntry{Date: e.Date, Amount: amount})
	}
	slices.SortFunc(payments, func(a, b PaymentEntry) int { return a.Date.Compare(b.Date) })
	return payments, nil
}

// Totals folds the current snapshot with the current rates.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	seq, err := l.Entries(ctx)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(seq, l.rates), nil
}
