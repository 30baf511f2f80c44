/*
errors.go - Centralized error types for the day ledger

ERROR CATEGORIES:
  1. Input errors - unknown kinds, malformed amounts, bad recurrence rules
  2. Rate errors - attempts to change a rate that is not user-settable
  3. Store errors - persistence failures, wrapped with the operation name

USAGE:
  if ledger.IsClientError(err) {
      // reject the request, nothing was written
  }
*/
package ledger

import (
	"errors"

	"github.com/warp/daybook/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidKind is returned for a status kind outside rest/work/advance/payment.
	ErrInvalidKind = errors.New("invalid day kind")

	// ErrInvalidAmount is returned for malformed or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRateNotSettable is returned when trying to change a fixed rate.
	ErrRateNotSettable = errors.New("rate is not settable")

	// ErrInvalidRule is returned when a rest-day recurrence rule cannot be parsed.
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrRateNotSettable) ||
		errors.Is(err, ErrInvalidRule) ||
		errors.Is(err, calendar.ErrInvalidDate) ||
		errors.Is(err, calendar.ErrInvalidMonth) ||
		errors.Is(err, calendar.ErrInvalidYear) ||
		errors.Is(err, calendar.ErrInvalidSpan)
}
