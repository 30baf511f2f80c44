package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH GRID - 6 weeks x 7 days, Monday first
// =============================================================================

// GridCells is the fixed size of a month grid.
const GridCells = 42

// MinYear and MaxYear bound the displayable years so that every cell of a
// grid, spillover included, has a four-digit year that ParseDate accepts.
const (
	MinYear = 1
	MaxYear = 9998
)

// Cell is one day of the grid.
type Cell struct {
	Date    Date
	InMonth bool // belongs to the displayed month
	Today   bool
}

// Grid is the ordered 42-cell view of a month.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// BuildGrid lays out the month identified by a zero-based month index.
// The first row is padded with the tail of the previous month (weeks start
// on Monday) and the grid is filled up to 42 cells with the next month.
func BuildGrid(year, monthIndex int, today Date) (Grid, error) {
	c, err := CursorAt(year, monthIndex)
	if err != nil {
		return Grid{}, err
	}

	first := c.First()
	leading := first.ISOWeekday() - 1
	days := DaysInMonth(c.Year, c.Month)

	cells := make([]Cell, 0, GridCells)
	d := first.AddDays(-leading)
	for i := range GridCells {
		inMonth := i >= leading && i < leading+days
		cells = append(cells, Cell{
			Date:    d,
			InMonth: inMonth,
			Today:   inMonth && d == today,
		})
		d = d.AddDays(1)
	}
	return Grid{Year: c.Year, Month: c.Month, Cells: cells}, nil
}

// Leading returns how many cells precede the 1st of the month.
func (g Grid) Leading() int {
	for i, c := range g.Cells {
		if c.InMonth {
			return i
		}
	}
	return 0
}

// MonthFromIndex maps 0..11 to January..December.
func MonthFromIndex(i int) (time.Month, error) {
	if i < 0 || i > 11 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, i)
	}
	return time.Month(i + 1), nil
}

// =============================================================================
// CURSOR - Displayed month
// =============================================================================

// Cursor is the month currently shown. Navigation wraps across years and
// stops at MinYear and MaxYear.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorAt positions a cursor from a zero-based month index.
func CursorAt(year, monthIndex int) (Cursor, error) {
	month, err := MonthFromIndex(monthIndex)
	if err != nil {
		return Cursor{}, err
	}
	if year < MinYear || year > MaxYear {
		return Cursor{}, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidYear, year, MinYear, MaxYear)
	}
	return Cursor{Year: year, Month: month}, nil
}

// CursorFor returns the cursor of the month containing d.
func CursorFor(d Date) Cursor { return Cursor{Year: d.Year, Month: d.Month} }

func (c Cursor) Prev() Cursor { return c.step(-1) }
func (c Cursor) Next() Cursor { return c.step(1) }

func (c Cursor) step(months int) Cursor {
	next := CursorFor(c.First().AddMonths(months))
	if next.Year < MinYear || next.Year > MaxYear {
		return c
	}
	return next
}

// First is the 1st of the cursor's month.
func (c Cursor) First() Date { return NewDate(c.Year, c.Month, 1) }

// Index is the zero-based month index.
func (c Cursor) Index() int { return int(c.Month) - 1 }

// Label is the header text, e.g. "Marzo 2025".
func (c Cursor) Label() string { return fmt.Sprintf("%s %d", MonthName(c.Month), c.Year) }

// Grid builds the grid of the cursor's month.
func (c Cursor) Grid(today Date) Grid {
	g, _ := BuildGrid(c.Year, c.Index(), today)
	return g
}
