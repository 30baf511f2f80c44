/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario definitions into the options and seed plan a
  calendar session starts from. Scenarios can be edited without code
  changes, and the config file's seed section goes through the same
  conversion.

JSON SCHEMA:
  {
    "id": "reference",
    "name": "Reference engagement",
    "mode": "work",
    "day_type": "rest",
    "month": {"year": 2025, "month": 3},
    "rates": {"rest": "400", "work": "200", "advance": "300", "payment": "1500"},
    "seed": {
      "start": "2025-03-17",
      "end": "",
      "rest_days": ["2025-03-20"],
      "rest_rule": "FREQ=WEEKLY;BYDAY=SU",
      "payments": [{"date": "2025-05-11", "amount": "1800"}]
    }
  }

  Amounts are decimal strings. An empty seed end means "through today".
  Missing rates keep their defaults.

USAGE:
  f := NewScenarioFactory()
  sc, err := f.ParseScenario(jsonString)

  presets, err := f.Presets()

SEE ALSO:
  - presets/: built-in scenarios
  - ledger/seed.go: SeedPlan
*/
package factory

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/session"
)

//go:embed presets/*.json
var presetsFS embed.FS

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a scenario.
type ScenarioJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Mode        string     `json:"mode,omitempty"`
	DayType     string     `json:"day_type,omitempty"`
	Month       *MonthJSON `json:"month,omitempty"`
	Rates       *RatesJSON `json:"rates,omitempty"`
	Seed        *SeedJSON  `json:"seed,omitempty"`
}

// MonthJSON is the initially displayed month; Month is 1-12.
type MonthJSON struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// RatesJSON overrides the default rates. Empty fields keep the default.
type RatesJSON struct {
	Rest    string `json:"rest,omitempty"`
	Work    string `json:"work,omitempty"`
	Advance string `json:"advance,omitempty"`
	Payment string `json:"payment,omitempty"`
}

// SeedJSON is the initial ledger content.
type SeedJSON struct {
	Start    string        `json:"start"`
	End      string        `json:"end,omitempty"`
	RestDays []string      `json:"rest_days,omitempty"`
	RestRule string        `json:"rest_rule,omitempty"`
	Payments []PaymentJSON `json:"payments,omitempty"`
}

// PaymentJSON is one seeded payment.
type PaymentJSON struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// Scenario is a parsed, validated scenario.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Mode        session.Mode
	DayType     ledger.Kind
	Cursor      calendar.Cursor // zero means the month of today
	Rates       ledger.Rates
	Seed        *ledger.SeedPlan
}

// Options returns the session options the scenario starts from. The
// caller adds store, clock and logger.
func (s *Scenario) Options() session.Options {
	return session.Options{
		Rates:   s.Rates,
		Cursor:  s.Cursor,
		Mode:    s.Mode,
		DayType: s.DayType,
	}
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts JSON scenarios to Go structs.
type ScenarioFactory struct{}

// NewScenarioFactory creates a new scenario factory.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{}
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (*Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}

	return f.FromJSON(sj)
}

// FromJSON converts ScenarioJSON to a Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	if sj.ID == "" {
		return nil, fmt.Errorf("scenario id is required")
	}

	sc := &Scenario{
		ID:          sj.ID,
		Name:        sj.Name,
		Description: sj.Description,
		Mode:        session.ModeWork,
		DayType:     ledger.KindRest,
	}

	if sj.Mode != "" {
		m, err := session.ParseMode(sj.Mode)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sj.ID, err)
		}
		sc.Mode = m
	}
	if sj.DayType != "" {
		k, err := ledger.ParseKind(sj.DayType)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sj.ID, err)
		}
		sc.DayType = k
	}

	if sj.Month != nil {
		c, err := calendar.CursorAt(sj.Month.Year, sj.Month.Month-1)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sj.ID, err)
		}
		sc.Cursor = c
	}

	rates, err := ParseRates(sj.Rates)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sj.ID, err)
	}
	sc.Rates = rates

	if sj.Seed != nil {
		plan, err := ParseSeed(*sj.Seed)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sj.ID, err)
		}
		sc.Seed = &plan
	}

	return sc, nil
}

// ToJSON converts a Scenario back to ScenarioJSON.
func (f *ScenarioFactory) ToJSON(sc *Scenario) ScenarioJSON {
	sj := ScenarioJSON{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		Mode:        sc.Mode.String(),
		DayType:     sc.DayType.String(),
		Rates: &RatesJSON{
			Rest:    sc.Rates.Rest.String(),
			Work:    sc.Rates.Work.String(),
			Advance: sc.Rates.Advance.String(),
			Payment: sc.Rates.Payment.String(),
		},
	}

	if sc.Cursor != (calendar.Cursor{}) {
		sj.Month = &MonthJSON{Year: sc.Cursor.Year, Month: int(sc.Cursor.Month)}
	}

	if p := sc.Seed; p != nil {
		seed := &SeedJSON{
			Start:    p.Start.String(),
			RestRule: p.RestRule,
		}
		if !p.End.IsZero() {
			seed.End = p.End.String()
		}
		for _, d := range p.RestDays {
			seed.RestDays = append(seed.RestDays, d.String())
		}
		for _, pay := range p.Payments {
			seed.Payments = append(seed.Payments, PaymentJSON{Date: pay.Date.String(), Amount: pay.Amount.String()})
		}
		sj.Seed = seed
	}

	return sj
}

// Presets parses every built-in scenario, ordered by ID.
func (f *ScenarioFactory) Presets() ([]*Scenario, error) {
	files, err := fs.Glob(presetsFS, "presets/*.json")
	if err != nil {
		return nil, err
	}

	out := make([]*Scenario, 0, len(files))
	for _, name := range files {
		raw, err := presetsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset %s: %w", name, err)
		}
		sc, err := f.ParseScenario(string(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}

	slices.SortFunc(out, func(a, b *Scenario) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// ParseRates applies the non-empty fields of rj over the default rates.
func ParseRates(rj *RatesJSON) (ledger.Rates, error) {
	rates := ledger.DefaultRates()
	if rj == nil {
		return rates, nil
	}

	var err error
	if rates.Rest, err = rateOr(rj.Rest, rates.Rest, "rest"); err != nil {
		return ledger.Rates{}, err
	}
	if rates.Work, err = rateOr(rj.Work, rates.Work, "work"); err != nil {
		return ledger.Rates{}, err
	}
	if rates.Advance, err = rateOr(rj.Advance, rates.Advance, "advance"); err != nil {
		return ledger.Rates{}, err
	}
	if rates.Payment, err = rateOr(rj.Payment, rates.Payment, "payment"); err != nil {
		return ledger.Rates{}, err
	}
	return rates, nil
}

func rateOr(raw string, def decimal.Decimal, name string) (decimal.Decimal, error) {
	if raw == "" {
		return def, nil
	}
	v, err := ledger.ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s rate: %w", name, err)
	}
	return v, nil
}

// ParseSeed converts a SeedJSON to a SeedPlan. The plan's span is only
// checked once End is known, when the plan is applied.
func ParseSeed(sj SeedJSON) (ledger.SeedPlan, error) {
	var plan ledger.SeedPlan

	start, err := calendar.ParseDate(sj.Start)
	if err != nil {
		return plan, fmt.Errorf("seed start: %w", err)
	}
	plan.Start = start

	if sj.End != "" {
		end, err := calendar.ParseDate(sj.End)
		if err != nil {
			return plan, fmt.Errorf("seed end: %w", err)
		}
		plan.End = end
	}

	plan.RestDays, err = calendar.ParseDates(sj.RestDays)
	if err != nil {
		return plan, fmt.Errorf("seed rest_days: %w", err)
	}
	plan.RestRule = sj.RestRule

	plan.Payments, err = ParsePayments(sj.Payments)
	if err != nil {
		return plan, err
	}
	return plan, nil
}

// ParsePayments converts JSON payments to ledger entries.
func ParsePayments(pj []PaymentJSON) ([]ledger.PaymentEntry, error) {
	out := make([]ledger.PaymentEntry, 0, len(pj))
	for _, p := range pj {
		d, err := calendar.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("payment date: %w", err)
		}
		amt, err := ledger.ParseAmount(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("payment on %s: %w", d, err)
		}
		out = append(out, ledger.PaymentEntry{Date: d, Amount: amt})
	}
	return out, nil
}
