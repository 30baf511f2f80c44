// Package selection holds the free-form day selections of the calendar:
// an arbitrary set of days (multi mode) or one start/end pair (range mode).
// Neither touches the ledger.
package selection

import (
	"slices"

	"github.com/warp/daybook/calendar"
)

// =============================================================================
// SET - Multi mode
// =============================================================================

type Set struct {
	days map[calendar.Date]struct{}
}

func NewSet(days ...calendar.Date) *Set {
	s := &Set{days: make(map[calendar.Date]struct{}, len(days))}
	for _, d := range days {
		s.days[d] = struct{}{}
	}
	return s
}

// Toggle adds d if absent and removes it if present. Returns true when d
// ends up selected.
func (s *Set) Toggle(d calendar.Date) bool {
	if s.Has(d) {
		delete(s.days, d)
		return false
	}
	s.days[d] = struct{}{}
	return true
}

func (s *Set) Add(d calendar.Date)      { s.days[d] = struct{}{} }
func (s *Set) Remove(d calendar.Date)   { delete(s.days, d) }
func (s *Set) Has(d calendar.Date) bool { _, ok := s.days[d]; return ok }
func (s *Set) Len() int                 { return len(s.days) }
func (s *Set) Clear()                   { clear(s.days) }

// Replace discards the current selection and selects days.
func (s *Set) Replace(days []calendar.Date) {
	s.Clear()
	for _, d := range days {
		s.Add(d)
	}
}

// List returns the selection in ascending order.
func (s *Set) List() []calendar.Date {
	out := make([]calendar.Date, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	slices.SortFunc(out, calendar.Date.Compare)
	return out
}

// =============================================================================
// RANGE - Range mode
// =============================================================================

// Range is an ordered start/end pair. Whenever both are set, start <= end.
type Range struct {
	start *calendar.Date
	end   *calendar.Date
}

// Pick feeds one click into the range: the first sets the start, the second
// sets the end (swapping if it precedes the start), a third starts over.
func (r *Range) Pick(d calendar.Date) {
	switch {
	case r.start == nil:
		r.start = &d
		r.end = nil
	case r.end == nil:
		if d.Before(*r.start) {
			prev := *r.start
			r.start, r.end = &d, &prev
		} else {
			r.end = &d
		}
	default:
		r.start = &d
		r.end = nil
	}
}

// SetBounds sets both endpoints at once, ordering them.
func (r *Range) SetBounds(a, b calendar.Date) {
	if b.Before(a) {
		a, b = b, a
	}
	r.start, r.end = &a, &b
}

func (r *Range) Clear() { r.start, r.end = nil, nil }

// Start returns the start and whether it is set.
func (r *Range) Start() (calendar.Date, bool) {
	if r.start == nil {
		return calendar.Date{}, false
	}
	return *r.start, true
}

// End returns the end and whether it is set.
func (r *Range) End() (calendar.Date, bool) {
	if r.end == nil {
		return calendar.Date{}, false
	}
	return *r.end, true
}

// Complete reports whether both endpoints are set.
func (r *Range) Complete() bool { return r.start != nil && r.end != nil }

// Contains reports whether d lies strictly between the endpoints.
func (r *Range) Contains(d calendar.Date) bool {
	if !r.Complete() {
		return false
	}
	return d.After(*r.start) && d.Before(*r.end)
}

// DaysBetween is the whole-day difference end - start, or 0 while the
// range is incomplete.
func (r *Range) DaysBetween() int {
	if !r.Complete() {
		return 0
	}
	n := calendar.DaysBetween(*r.start, *r.end)
	if n < 0 {
		return -n
	}
	return n
}

// Dates lists every day from start to end inclusive; nil while incomplete.
func (r *Range) Dates() []calendar.Date {
	if !r.Complete() {
		return nil
	}
	return calendar.Span{Start: *r.start, End: *r.end}.Days()
}
