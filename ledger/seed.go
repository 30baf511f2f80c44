package ledger

import (
	"context"
	"fmt"

	"github.com/teambition/rrule-go"
	"github.com/warp/daybook/calendar"
)

// =============================================================================
// SEED - Initial dataset
// =============================================================================

// SeedPlan describes the initial ledger: every day of [Start, End] is marked
// as a payment when listed in Payments, as rest when listed in RestDays or
// produced by RestRule, and as work otherwise. Days outside the span are not
// touched, even when listed.
type SeedPlan struct {
	Start    calendar.Date
	End      calendar.Date
	RestDays []calendar.Date
	// RestRule is an optional RFC 5545 recurrence, e.g. "FREQ=WEEKLY;BYDAY=SU",
	// anchored at Start.
	RestRule string
	Payments []PaymentEntry
}

// Entries expands the plan into the batch Seed writes, ordered by date.
func (p SeedPlan) Entries() ([]Entry, error) {
	span, err := calendar.NewSpan(p.Start, p.End)
	if err != nil {
		return nil, err
	}

	rest := make(map[calendar.Date]bool, len(p.RestDays))
	for _, d := range p.RestDays {
		rest[d] = true
	}
	recurring, err := expandRule(p.RestRule, span)
	if err != nil {
		return nil, err
	}
	for _, d := range recurring {
		rest[d] = true
	}

	payments := make(map[calendar.Date]PaymentEntry, len(p.Payments))
	for _, pay := range p.Payments {
		payments[pay.Date] = pay
	}

	entries := make([]Entry, 0, span.Len())
	for d := range span.All() {
		var s Status
		switch pay, isPayment := payments[d]; {
		case isPayment:
			s = Payment(pay.Amount)
		case rest[d]:
			s = Rest()
		default:
			s = Work()
		}
		entries = append(entries, Entry{Date: d, Status: s})
	}
	return entries, nil
}

// Seed writes the plan as one batch and returns the number of days marked.
func (l *Ledger) Seed(ctx context.Context, plan SeedPlan) (int, error) {
	entries, err := plan.Entries()
	if err != nil {
		return 0, err
	}
	if err := l.store.PutBatch(ctx, entries); err != nil {
		return 0, fmt.Errorf("seed ledger: %w", err)
	}
	if err := l.store.PutSeedState(ctx, SeedState{Through: plan.End}); err != nil {
		return 0, fmt.Errorf("seed ledger: %w", err)
	}
	return len(entries), nil
}

// SeedState returns the recorded seed progress, ok=false when the ledger
// was never seeded nor cleared.
func (l *Ledger) SeedState(ctx context.Context) (SeedState, bool, error) {
	st, ok, err := l.store.SeedState(ctx)
	if err != nil {
		return SeedState{}, false, fmt.Errorf("seed state: %w", err)
	}
	return st, ok, nil
}

func expandRule(rule string, span calendar.Span) ([]calendar.Date, error) {
	if rule == "" {
		return nil, nil
	}
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRule, rule, err)
	}
	r.DTStart(span.Start.Time())

	var days []calendar.Date
	for _, t := range r.Between(span.Start.Time(), span.End.Time(), true) {
		days = append(days, calendar.FromTime(t))
	}
	return days, nil
}

// Extend writes the plan's days on or after from that are still unset, so
// an open-ended seed can follow "today" without overwriting later edits.
// It returns the number of days marked. A cleared ledger is not extended,
// and the recorded progress only moves forward.
func (l *Ledger) Extend(ctx context.Context, plan SeedPlan, from calendar.Date) (int, error) {
	state, _, err := l.SeedState(ctx)
	if err != nil {
		return 0, err
	}
	if state.Cleared {
		return 0, nil
	}

	entries, err := plan.Entries()
	if err != nil {
		return 0, err
	}

	fresh := entries[:0]
	for _, e := range entries {
		if e.Date.Before(from) {
			continue
		}
		_, ok, err := l.store.Get(ctx, e.Date)
		if err != nil {
			return 0, err
		}
		if !ok {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) > 0 {
		if err := l.store.PutBatch(ctx, fresh); err != nil {
			return 0, fmt.Errorf("extend seed: %w", err)
		}
	}
	if plan.End.After(state.Through) {
		if err := l.store.PutSeedState(ctx, SeedState{Through: plan.End}); err != nil {
			return 0, fmt.Errorf("extend seed: %w", err)
		}
	}
	return len(fresh), nil
}
