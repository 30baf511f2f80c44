package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned for malformed or non-existent dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonth is returned for a month index outside 0..11.
	ErrInvalidMonth = errors.New("invalid month index")

	// ErrInvalidYear is returned for a displayed year outside MinYear..MaxYear.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidSpan is returned when a span ends before it starts.
	ErrInvalidSpan = errors.New("invalid span: end before start")
)

// DateError carries the rejected input.
type DateError struct {
	Input string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", e.Input)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }
