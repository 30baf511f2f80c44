/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Query results that
  already carry JSON tags (session.Info, session.View, ledger.Totals) are
  returned as they are; these types cover request bodies and the few
  responses that need reshaping.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

COMMANDS:
  POST /api/calendar/commands takes one CommandRequest:
    {"type": "navigate_prev"}
    {"type": "navigate_next"}
    {"type": "navigate_today"}
    {"type": "go_to_month", "year": 2025, "month": 2}   month is 0-11
    {"type": "set_mode", "mode": "range"}
    {"type": "set_day_type", "kind": "advance"}
    {"type": "pick_day", "date": "2025-03-17"}
    {"type": "set_rate", "kind": "advance", "raw": "350"}
    {"type": "clear"}

VALIDATION:
  Validation is done when converting a request to domain values
  (ToCommand, Dates, ...). DTOs are otherwise pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - session/command.go: the Command set
*/
package api

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/session"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CommandRequest is the JSON form of a session.Command.
type CommandRequest struct {
	Type  string `json:"type"`
	Year  int    `json:"year,omitempty"`
	Month *int   `json:"month,omitempty"`
	Mode  string `json:"mode,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Date  string `json:"date,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// ToCommand converts the request into a Command.
func (r CommandRequest) ToCommand() (session.Command, error) {
	switch r.Type {
	case "navigate_prev":
		return session.NavigatePrev{}, nil
	case "navigate_next":
		return session.NavigateNext{}, nil
	case "navigate_today":
		return session.NavigateToday{}, nil
	case "go_to_month":
		if r.Month == nil {
			return nil, fmt.Errorf("%w: month is required", calendar.ErrInvalidMonth)
		}
		return session.GoToMonth{Year: r.Year, Month: *r.Month}, nil
	case "set_mode":
		m, err := session.ParseMode(r.Mode)
		if err != nil {
			return nil, err
		}
		return session.SetMode{Mode: m}, nil
	case "set_day_type":
		k, err := ledger.ParseKind(r.Kind)
		if err != nil {
			return nil, err
		}
		return session.SetDayType{Kind: k}, nil
	case "pick_day":
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		return session.PickDay{Date: d}, nil
	case "set_rate":
		k, err := ledger.ParseKind(r.Kind)
		if err != nil {
			return nil, err
		}
		return session.SetRate{Kind: k, Raw: r.Raw}, nil
	case "clear":
		return session.Clear{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", session.ErrUnknownCommand, r.Type)
	}
}

// MonthRequest moves the calendar; Month is 0-11.
type MonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// SetDayRequest marks one ledger day. Value is only used for advance and
// payment; without it the current rate is captured.
type SetDayRequest struct {
	Kind  string  `json:"kind"`
	Value *string `json:"value,omitempty"`
}

// Status validates the request.
func (r SetDayRequest) Status() (ledger.Kind, decimal.NullDecimal, error) {
	k, err := ledger.ParseKind(r.Kind)
	if err != nil {
		return "", decimal.NullDecimal{}, err
	}
	if r.Value == nil {
		return k, decimal.NullDecimal{}, nil
	}
	v, err := ledger.ParseAmount(*r.Value)
	if err != nil {
		return "", decimal.NullDecimal{}, err
	}
	return k, decimal.NewNullDecimal(v), nil
}

// PaymentDTO is one payment, in requests and responses. Amount accepts a
// JSON number or string.
type PaymentDTO struct {
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// SelectionRequest replaces the multi-selection.
type SelectionRequest struct {
	Dates []string `json:"dates"`
}

// RangeRequest sets both range endpoints.
type RangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds validates the request.
func (r RangeRequest) Bounds() (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(r.Start)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(r.End)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	return start, end, nil
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DayDTO is the status of one ledger day.
type DayDTO struct {
	Date calendar.Date `json:"date"`
	ledger.Status
}

// TotalsDTO pairs the numeric totals with their display strings.
type TotalsDTO struct {
	ledger.Totals
	Display session.TotalsView `json:"display"`
}

// ScenarioDTO describes a loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
