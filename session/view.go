package session

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// VIEW MODEL - What a calendar screen renders
// =============================================================================

const (
	NoSelectionText = "Ningún día seleccionado"
	UnsetRangeText  = "No seleccionado"
)

// RangeBand classifies a range length for styling.
type RangeBand string

const (
	BandEmpty  RangeBand = "empty"  // 0 days
	BandWeek   RangeBand = "week"   // up to 7
	BandMonth  RangeBand = "month"  // up to 30
	BandLonger RangeBand = "longer" // over 30
)

func bandFor(days int) RangeBand {
	switch {
	case days == 0:
		return BandEmpty
	case days <= 7:
		return BandWeek
	case days <= 30:
		return BandMonth
	default:
		return BandLonger
	}
}

// CellView is one grid cell with its style flags. Mode-specific flags are
// only set in their mode.
type CellView struct {
	Date       calendar.Date `json:"date"`
	Day        int           `json:"day"`
	OtherMonth bool          `json:"other_month"`
	Today      bool          `json:"today"`
	Clickable  bool          `json:"clickable"`

	Selected    bool `json:"selected,omitempty"`
	RangeStart  bool `json:"range_start,omitempty"`
	RangeEnd    bool `json:"range_end,omitempty"`
	RangeMiddle bool `json:"range_middle,omitempty"`

	Status ledger.Kind `json:"status,omitempty"`
}

// RangeView is the range summary as shown to the user.
type RangeView struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  int       `json:"days"`
	Band  RangeBand `json:"band"`
}

// TotalsView is the work summary as display strings.
type TotalsView struct {
	RestDays    int `json:"rest_days"`
	WorkDays    int `json:"work_days"`
	AdvanceDays int `json:"advance_days"`
	PaymentDays int `json:"payment_days"`

	RestTotal    string `json:"rest_total"`
	WorkTotal    string `json:"work_total"`
	AdvanceTotal string `json:"advance_total"`
	PaymentTotal string `json:"payment_total"`

	GrandTotal    string `json:"grand_total"`
	TotalPayments string `json:"total_payments"`
	FinalBalance  string `json:"final_balance"`

	RestCalc    string `json:"rest_calc"`
	WorkCalc    string `json:"work_calc"`
	AdvanceCalc string `json:"advance_calc"`
	PaymentCalc string `json:"payment_calc"`

	AdvanceRate     string `json:"advance_rate"`
	BalanceNegative bool   `json:"balance_negative"`
}

// View is the full presentation model of the displayed month.
type View struct {
	Label   string      `json:"label"`
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Mode    Mode        `json:"mode"`
	DayType ledger.Kind `json:"day_type"`
	Cells   []CellView  `json:"cells"`

	Selected []string    `json:"selected,omitempty"`
	Range    *RangeView  `json:"range,omitempty"`
	Totals   *TotalsView `json:"totals,omitempty"`
}

// View builds the presentation model for the current mode.
func (s *Session) View(ctx context.Context) (View, error) {
	grid := s.cursor.Grid(s.Today())
	v := View{
		Label:   s.cursor.Label(),
		Year:    s.cursor.Year,
		Month:   int(s.cursor.Month),
		Mode:    s.mode,
		DayType: s.dayType,
		Cells:   make([]CellView, 0, len(grid.Cells)),
	}

	var days map[calendar.Date]ledger.Status
	if s.mode == ModeWork {
		wd, err := s.WorkData(ctx)
		if err != nil {
			return View{}, err
		}
		days = wd.Days
		tv := totalsView(wd.Totals, s.ledger.Rates())
		v.Totals = &tv
	}

	start, hasStart := s.rng.Start()
	end, hasEnd := s.rng.End()

	for _, c := range grid.Cells {
		cv := CellView{
			Date:       c.Date,
			Day:        c.Date.Day,
			OtherMonth: !c.InMonth,
			Today:      c.Today,
			Clickable:  c.InMonth,
		}
		switch s.mode {
		case ModeMulti:
			cv.Selected = s.selected.Has(c.Date)
		case ModeRange:
			cv.RangeStart = hasStart && c.Date == start
			cv.RangeEnd = hasEnd && c.Date == end
			cv.RangeMiddle = s.rng.Contains(c.Date)
		case ModeWork:
			if st, ok := days[c.Date]; ok {
				cv.Status = st.Kind
			}
		}
		v.Cells = append(v.Cells, cv)
	}

	switch s.mode {
	case ModeMulti:
		v.Selected = selectedList(s.selected.List())
	case ModeRange:
		rv := s.rangeView()
		v.Range = &rv
	}
	return v, nil
}

func selectedList(dates []calendar.Date) []string {
	if len(dates) == 0 {
		return []string{NoSelectionText}
	}
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = calendar.FormatDisplay(d)
	}
	return out
}

func (s *Session) rangeView() RangeView {
	rv := RangeView{Start: UnsetRangeText, End: UnsetRangeText}
	if d, ok := s.rng.Start(); ok {
		rv.Start = calendar.FormatDisplay(d)
	}
	if d, ok := s.rng.End(); ok {
		rv.End = calendar.FormatDisplay(d)
	}
	rv.Days = s.rng.DaysBetween()
	rv.Band = bandFor(rv.Days)
	return rv
}

func totalsView(t ledger.Totals, rates ledger.Rates) TotalsView {
	return TotalsView{
		RestDays:    t.RestDays,
		WorkDays:    t.WorkDays,
		AdvanceDays: t.AdvanceDays,
		PaymentDays: t.PaymentDays,

		RestTotal:    ledger.FormatAmount(t.RestTotal),
		WorkTotal:    ledger.FormatAmount(t.WorkTotal),
		AdvanceTotal: ledger.FormatAmount(t.AdvanceTotal),
		PaymentTotal: ledger.FormatAmount(t.PaymentTotal),

		GrandTotal:    ledger.FormatMoney(t.EarningsTotal),
		TotalPayments: ledger.FormatMoney(t.PaymentTotal),
		FinalBalance:  ledger.FormatMoney(t.FinalBalance),

		RestCalc:    calcLine(t.RestDays, rates.Rest, t.RestTotal),
		WorkCalc:    calcLine(t.WorkDays, rates.Work, t.WorkTotal),
		AdvanceCalc: calcLine(t.AdvanceDays, rates.Advance, t.AdvanceTotal),
		PaymentCalc: "Total: " + ledger.FormatMoney(t.PaymentTotal),

		AdvanceRate:     ledger.FormatAmount(rates.Advance),
		BalanceNegative: t.FinalBalance.IsNegative(),
	}
}

// calcLine renders "2 × $400 = $800".
func calcLine(n int, rate, total decimal.Decimal) string {
	return fmt.Sprintf("%d × %s = %s", n, ledger.FormatMoney(rate), ledger.FormatMoney(total))
}

// Summary returns the ledger totals with their display strings, in any mode.
func (s *Session) Summary(ctx context.Context) (ledger.Totals, TotalsView, error) {
	t, err := s.ledger.Totals(ctx)
	if err != nil {
		return ledger.Totals{}, TotalsView{}, err
	}
	return t, totalsView(t, s.ledger.Rates()), nil
}
