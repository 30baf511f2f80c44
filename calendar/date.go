/*
Package calendar provides the date primitives of the work calendar.

PURPOSE:
  Every ledger entry, selection and grid cell is keyed by a calendar day.
  Date is that key: a comparable year/month/day triple with a canonical
  YYYY-MM-DD string form. There is no time of day and no time zone, so day
  arithmetic is never affected by DST.

KEY CONCEPTS IN THIS PACKAGE:
  - Date:   a valid calendar day, usable as a map key
  - Span:   an inclusive [Start, End] interval of days
  - Cursor: the displayed year/month with prev/next navigation
  - Grid:   the 42-cell Monday-first month grid

INVARIANT:
  NewDate(y, m, d).String() parsed with ParseDate yields the same Date.

SEE ALSO:
  - period.go: Span
  - grid.go: BuildGrid
  - names.go: fixed month/day name tables
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Canonical day key
// =============================================================================

// Layout is the canonical string form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes the triple the way time.Date does, so
// NewDate(2025, time.March, 32) is April 1st.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar day of now.
func Today(now time.Time) Date {
	return FromTime(now.Local())
}

// ParseDate parses a canonical YYYY-MM-DD string. Days that do not exist
// (2025-02-30) are rejected rather than normalized.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, &DateError{Input: s, Err: err}
	}
	return FromTime(t), nil
}

// MustParseDate is ParseDate for fixtures and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDates parses every string, failing on the first malformed one.
func ParseDates(values []string) ([]Date, error) {
	out := make([]Date, 0, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool { return d == Date{} }

// Comparison
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool        { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool         { return d.Compare(other) > 0 }
func (d Date) BeforeOrEqual(other Date) bool { return d.Compare(other) <= 0 }
func (d Date) AfterOrEqual(other Date) bool  { return d.Compare(other) >= 0 }

// Arithmetic
func (d Date) AddDays(n int) Date   { return FromTime(d.Time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.Time().AddDate(0, n, 0)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// ISOWeekday is 1 for Monday through 7 for Sunday.
func (d Date) ISOWeekday() int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DaysBetween is the signed number of whole calendar days from -> to.
// Unix seconds keep it exact over any span of four-digit years, where a
// time.Duration would saturate.
func DaysBetween(from, to Date) int {
	return int((to.Time().Unix() - from.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalText renders the canonical form, so Date works as a JSON value and
// as a JSON object key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
