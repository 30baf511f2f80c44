package calendar

import (
	"fmt"
	"iter"
)

// =============================================================================
// SPAN - Inclusive interval of days
// =============================================================================

// Span is the inclusive interval [Start, End].
type Span struct {
	Start Date
	End   Date
}

// NewSpan rejects spans that end before they start.
func NewSpan(start, end Date) (Span, error) {
	if end.Before(start) {
		return Span{}, fmt.Errorf("%w: %s > %s", ErrInvalidSpan, start, end)
	}
	return Span{Start: start, End: end}, nil
}

// Contains returns true if d is within [Start, End].
func (s Span) Contains(d Date) bool {
	return d.AfterOrEqual(s.Start) && d.BeforeOrEqual(s.End)
}

// Len is the number of days in the span, both ends included.
func (s Span) Len() int {
	if s.End.Before(s.Start) {
		return 0
	}
	return DaysBetween(s.Start, s.End) + 1
}

// All yields every day of the span in ascending order.
func (s Span) All() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := s.Start; d.BeforeOrEqual(s.End); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Days returns all days in the span as a slice.
func (s Span) Days() []Date {
	days := make([]Date, 0, s.Len())
	for d := range s.All() {
		days = append(days, d)
	}
	return days
}

func (s Span) String() string {
	return "[" + s.Start.String() + ", " + s.End.String() + "]"
}
