/*
Package session is the owned state of one calendar.

PURPOSE:
  A Session bundles everything a calendar screen works with: the displayed
  month, the selection mode, the day type used when clicking in work mode,
  the multi-selection, the range and the ledger. There is no global
  instance; callers create a Session and pass it around.

EVENTS:
  Inbound events are the closed Command set (command.go), processed one at
  a time by Handle. Session is not safe for concurrent use; callers that
  receive events concurrently (the HTTP API) serialize them.

READS:
  query.go answers the programmatic query surface, view.go builds the
  presentation model.
*/
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/ledger/store"
	"github.com/warp/daybook/selection"
	"go.uber.org/zap"
)

// =============================================================================
// MODE
// =============================================================================

type Mode string

const (
	ModeMulti Mode = "multi"
	ModeRange Mode = "range"
	ModeWork  Mode = "work"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMulti, ModeRange, ModeWork:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string { return string(m) }

// =============================================================================
// SESSION
// =============================================================================

// Options configures a new Session. Zero values fall back to the defaults
// of the reference deployment.
type Options struct {
	Store   ledger.Store
	Rates   ledger.Rates
	Cursor  calendar.Cursor
	Mode    Mode
	DayType ledger.Kind
	Now     func() time.Time
	Logger  *zap.Logger
}

type Session struct {
	cursor   calendar.Cursor
	mode     Mode
	dayType  ledger.Kind
	selected *selection.Set
	rng      selection.Range
	ledger   *ledger.Ledger
	now      func() time.Time
	log      *zap.Logger

	// open-ended seed and the last day it was applied through
	openSeed      *ledger.SeedPlan
	seededThrough calendar.Date
}

func New(opts Options) *Session {
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Rates == (ledger.Rates{}) {
		opts.Rates = ledger.DefaultRates()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cursor == (calendar.Cursor{}) {
		opts.Cursor = calendar.CursorFor(calendar.Today(opts.Now()))
	}
	if opts.Mode == "" {
		opts.Mode = ModeWork
	}
	if opts.DayType == "" {
		opts.DayType = ledger.KindRest
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Session{
		cursor:   opts.Cursor,
		mode:     opts.Mode,
		dayType:  opts.DayType,
		selected: selection.NewSet(),
		ledger:   ledger.New(opts.Store, opts.Rates),
		now:      opts.Now,
		log:      opts.Logger.Named("session"),
	}
}

func (s *Session) Mode() Mode                 { return s.mode }
func (s *Session) DayType() ledger.Kind       { return s.dayType }
func (s *Session) Cursor() calendar.Cursor    { return s.cursor }
func (s *Session) Ledger() *ledger.Ledger     { return s.ledger }
func (s *Session) Today() calendar.Date       { return calendar.Today(s.now()) }
func (s *Session) Selection() []calendar.Date { return s.selected.List() }

// Seed loads the initial dataset into the ledger. A zero plan.End means
// "through today"; ExtendSeed then follows today as it advances.
func (s *Session) Seed(ctx context.Context, plan ledger.SeedPlan) (int, error) {
	open := plan.End.IsZero()
	if open {
		plan.End = s.Today()
	}
	n, err := s.ledger.Seed(ctx, plan)
	if err != nil {
		return 0, err
	}
	s.openSeed = nil
	if open {
		s.openSeed = &plan
		s.seededThrough = plan.End
	}
	s.log.Info("ledger seeded",
		zap.Stringer("start", plan.Start),
		zap.Stringer("end", plan.End),
		zap.Int("days", n))
	return n, nil
}

// Resume picks up a plan over a ledger that already holds data, as after a
// restart with a durable store. Only days after the recorded seed progress
// that are still unset get written, so days removed since stay removed. A
// ledger cleared after its last seed stays empty. An open-ended plan keeps
// following today.
func (s *Session) Resume(ctx context.Context, plan ledger.SeedPlan) (int, error) {
	open := plan.End.IsZero()
	if open {
		plan.End = s.Today()
	}

	state, ok, err := s.ledger.SeedState(ctx)
	if err != nil {
		return 0, err
	}
	s.openSeed = nil
	if state.Cleared {
		s.log.Info("ledger resumed empty", zap.Stringer("start", plan.Start))
		return 0, nil
	}

	from := plan.Start
	if ok && !state.Through.Before(from) {
		from = state.Through.AddDays(1)
	}
	n, err := s.ledger.Extend(ctx, plan, from)
	if err != nil {
		return 0, err
	}

	if open {
		s.openSeed = &plan
		s.seededThrough = plan.End
		if state.Through.After(plan.End) {
			s.seededThrough = state.Through
		}
	}
	s.log.Info("ledger resumed",
		zap.Stringer("from", from),
		zap.Stringer("through", plan.End),
		zap.Int("days", n))
	return n, nil
}

// ExtendSeed marks the days between the last seeded day and today that are
// still unset. It is a no-op unless the last Seed was open-ended.
func (s *Session) ExtendSeed(ctx context.Context) (int, error) {
	today := s.Today()
	if s.openSeed == nil || !today.After(s.seededThrough) {
		return 0, nil
	}

	plan := *s.openSeed
	plan.End = today
	n, err := s.ledger.Extend(ctx, plan, s.seededThrough.AddDays(1))
	if err != nil {
		return 0, err
	}
	s.openSeed = &plan
	s.seededThrough = today
	if n > 0 {
		s.log.Info("seed extended", zap.Stringer("through", today), zap.Int("days", n))
	}
	return n, nil
}

// =============================================================================
// PROGRAMMATIC MUTATIONS
// =============================================================================

// SetWorkDay marks a day with an explicit status. Work mode only.
func (s *Session) SetWorkDay(ctx context.Context, date calendar.Date, kind ledger.Kind, value decimal.NullDecimal) (ledger.Status, error) {
	if err := s.require("set work day", ModeWork); err != nil {
		return ledger.Status{}, err
	}
	return s.ledger.Set(ctx, date, kind, value)
}

// RemoveWorkDay unsets a day of the ledger. Work mode only.
func (s *Session) RemoveWorkDay(ctx context.Context, date calendar.Date) error {
	if err := s.require("remove work day", ModeWork); err != nil {
		return err
	}
	return s.ledger.Remove(ctx, date)
}

// ReplaceSelection swaps the multi-selection for dates. Multi mode only.
func (s *Session) ReplaceSelection(dates []calendar.Date) error {
	if err := s.require("replace selection", ModeMulti); err != nil {
		return err
	}
	s.selected.Replace(dates)
	return nil
}

// SetDateRange sets both range endpoints. Range mode only.
func (s *Session) SetDateRange(start, end calendar.Date) error {
	if err := s.require("set date range", ModeRange); err != nil {
		return err
	}
	s.rng.SetBounds(start, end)
	return nil
}

// AddPayments bulk-adds payment days, in any mode.
func (s *Session) AddPayments(ctx context.Context, payments []ledger.PaymentEntry) error {
	if err := s.ledger.AddPayments(ctx, payments); err != nil {
		return err
	}
	s.log.Debug("payments added", zap.Int("count", len(payments)))
	return nil
}

// GoToMonth moves the cursor to a zero-based month of year.
func (s *Session) GoToMonth(year, monthIndex int) error {
	c, err := calendar.CursorAt(year, monthIndex)
	if err != nil {
		return err
	}
	s.cursor = c
	return nil
}

// ClearAll empties the selection, the range and the ledger.
func (s *Session) ClearAll(ctx context.Context) error {
	s.selected.Clear()
	s.rng.Clear()
	s.openSeed = nil
	if err := s.ledger.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("calendar cleared")
	return nil
}

func (s *Session) require(op string, mode Mode) error {
	if s.mode != mode {
		return &ModeError{Op: op, Required: mode, Current: s.mode}
	}
	return nil
}
