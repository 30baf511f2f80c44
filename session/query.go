package session

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// READ-ONLY QUERIES
// =============================================================================

// RangeState is the current range with its day count.
type RangeState struct {
	Start *calendar.Date `json:"start"`
	End   *calendar.Date `json:"end"`
	Days  int            `json:"days_difference"`
}

// WorkData is the ledger snapshot with its totals and current rates.
type WorkData struct {
	Days        map[calendar.Date]ledger.Status `json:"work_days"`
	Totals      ledger.Totals                   `json:"totals"`
	AdvanceRate decimal.Decimal                 `json:"current_advance_value"`
	PaymentRate decimal.Decimal                 `json:"current_payment_value"`
}

// Info summarizes the calendar. Exactly one of Selected, Range and Work is
// set, according to Mode.
type Info struct {
	Month         int             `json:"current_month"` // 1-based
	Year          int             `json:"current_year"`
	Mode          Mode            `json:"selection_mode"`
	SelectedCount int             `json:"selected_dates_count"`
	Selected      []calendar.Date `json:"selected,omitempty"`
	Range         *RangeState     `json:"range,omitempty"`
	Work          *WorkData       `json:"work,omitempty"`
}

// RangeState returns the range endpoints and their day difference.
func (s *Session) RangeState() RangeState {
	var rs RangeState
	if d, ok := s.rng.Start(); ok {
		rs.Start = &d
	}
	if d, ok := s.rng.End(); ok {
		rs.End = &d
	}
	rs.Days = s.rng.DaysBetween()
	return rs
}

// RangeDates lists every day of a complete range. Empty outside range mode.
func (s *Session) RangeDates() []calendar.Date {
	if s.mode != ModeRange || !s.rng.Complete() {
		return []calendar.Date{}
	}
	return s.rng.Dates()
}

// WorkData returns the ledger snapshot, its totals and the current rates.
func (s *Session) WorkData(ctx context.Context) (WorkData, error) {
	entries, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return WorkData{}, err
	}
	days := make(map[calendar.Date]ledger.Status, len(entries))
	for _, e := range entries {
		days[e.Date] = e.Status
	}
	rates := s.ledger.Rates()
	return WorkData{
		Days:        days,
		Totals:      ledger.ComputeTotals(ledger.EntrySeq(entries), rates),
		AdvanceRate: rates.Advance,
		PaymentRate: rates.Payment,
	}, nil
}

// Totals returns the ledger totals.
func (s *Session) Totals(ctx context.Context) (ledger.Totals, error) {
	return s.ledger.Totals(ctx)
}

// Payments lists the payment days in ascending order.
func (s *Session) Payments(ctx context.Context) ([]ledger.PaymentEntry, error) {
	return s.ledger.Payments(ctx)
}

// Info describes the calendar state for the current mode.
func (s *Session) Info(ctx context.Context) (Info, error) {
	info := Info{
		Month: int(s.cursor.Month),
		Year:  s.cursor.Year,
		Mode:  s.mode,
	}

	switch s.mode {
	case ModeMulti:
		info.Selected = s.selected.List()
		info.SelectedCount = len(info.Selected)
	case ModeRange:
		rs := s.RangeState()
		info.Range = &rs
		if s.rng.Complete() {
			info.SelectedCount = rs.Days + 1
		}
	case ModeWork:
		wd, err := s.WorkData(ctx)
		if err != nil {
			return Info{}, err
		}
		info.Work = &wd
		info.SelectedCount = len(wd.Days)
	}
	return info, nil
}
