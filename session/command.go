package session

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"go.uber.org/zap"
)

// =============================================================================
// COMMANDS - Closed set of inbound calendar events
// =============================================================================

// Command is one inbound event. The set is closed: only the types below
// implement it.
type Command interface {
	command()
}

type (
	// NavigatePrev shows the previous month.
	NavigatePrev struct{}

	// NavigateNext shows the next month.
	NavigateNext struct{}

	// NavigateToday shows the month containing today.
	NavigateToday struct{}

	// GoToMonth shows an arbitrary month; Month is zero-based.
	GoToMonth struct {
		Year  int
		Month int
	}

	// SetMode switches the selection discipline.
	SetMode struct {
		Mode Mode
	}

	// SetDayType selects the kind applied by PickDay in work mode.
	SetDayType struct {
		Kind ledger.Kind
	}

	// PickDay is a click on a day of the displayed month.
	PickDay struct {
		Date calendar.Date
	}

	// SetRate is raw user input for the advance or payment rate.
	SetRate struct {
		Kind ledger.Kind
		Raw  string
	}

	// Clear empties selection, range and ledger.
	Clear struct{}
)

func (NavigatePrev) command()  {}
func (NavigateNext) command()  {}
func (NavigateToday) command() {}
func (GoToMonth) command()     {}
func (SetMode) command()       {}
func (SetDayType) command()    {}
func (PickDay) command()       {}
func (SetRate) command()       {}
func (Clear) command()         {}

// Handle applies one command.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case NavigatePrev:
		s.cursor = s.cursor.Prev()
	case NavigateNext:
		s.cursor = s.cursor.Next()
	case NavigateToday:
		s.cursor = calendar.CursorFor(s.Today())
	case GoToMonth:
		return s.GoToMonth(c.Year, c.Month)
	case SetMode:
		return s.setMode(c.Mode)
	case SetDayType:
		if !c.Kind.Valid() {
			return fmt.Errorf("%w: %q", ledger.ErrInvalidKind, c.Kind)
		}
		s.dayType = c.Kind
	case PickDay:
		return s.pick(ctx, c.Date)
	case SetRate:
		return s.setRate(c.Kind, c.Raw)
	case Clear:
		return s.ClearAll(ctx)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}

// setMode resets the selection and the range before switching. Unlike the
// Clear command it leaves the ledger alone, so marked days and their
// totals survive a mode switch; wiping them takes an explicit Clear.
func (s *Session) setMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	s.selected.Clear()
	s.rng.Clear()
	s.mode = m
	s.log.Debug("mode changed", zap.Stringer("mode", m))
	return nil
}

func (s *Session) pick(ctx context.Context, d calendar.Date) error {
	switch s.mode {
	case ModeMulti:
		s.selected.Toggle(d)
	case ModeRange:
		s.rng.Pick(d)
	case ModeWork:
		if _, err := s.ledger.Toggle(ctx, d, s.dayType, decimal.NullDecimal{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) setRate(kind ledger.Kind, raw string) error {
	var def decimal.Decimal
	switch kind {
	case ledger.KindAdvance:
		def = ledger.DefaultAdvanceRate
	case ledger.KindPayment:
		def = ledger.DefaultPaymentRate
	default:
		return fmt.Errorf("%w: %s", ledger.ErrRateNotSettable, kind)
	}
	return s.ledger.SetRate(kind, ledger.ParseRateInput(raw, def))
}
