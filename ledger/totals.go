/*
totals.go - Earnings and balance derived from the ledger

PURPOSE:
  Answers "how much has been earned and what is still owed?" by folding
  every marked day. Totals are a snapshot, recomputed on every query.

FORMULA:
  RestTotal     = RestDays x Rates.Rest
  WorkTotal     = WorkDays x Rates.Work
  EarningsTotal = RestTotal + WorkTotal + AdvanceTotal
  FinalBalance  = EarningsTotal - PaymentTotal

  Advance and payment days contribute their stored amount. A stored amount
  is always present under the ledger's assignment rule; if one is missing
  the current default rate is used instead.

EXAMPLE:
  2 rest, 9 work, one payment of 1500 with default rates:
    RestTotal 800, WorkTotal 1800, EarningsTotal 2600, FinalBalance 1100
*/
package ledger

import (
	"iter"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
)

// Totals is the derived summary of a ledger.
type Totals struct {
	RestDays    int `json:"rest_days"`
	WorkDays    int `json:"work_days"`
	AdvanceDays int `json:"advance_days"`
	PaymentDays int `json:"payment_days"`

	RestTotal     decimal.Decimal `json:"rest_total"`
	WorkTotal     decimal.Decimal `json:"work_total"`
	AdvanceTotal  decimal.Decimal `json:"advance_total"`
	PaymentTotal  decimal.Decimal `json:"payment_total"`
	EarningsTotal decimal.Decimal `json:"earnings_total"`
	FinalBalance  decimal.Decimal `json:"final_balance"`
}

// MarkedDays is the number of days carrying any status.
func (t Totals) MarkedDays() int {
	return t.RestDays + t.WorkDays + t.AdvanceDays + t.PaymentDays
}

// ComputeTotals folds entries into Totals. It has no side effects and the
// result does not depend on iteration order.
func ComputeTotals(entries iter.Seq2[calendar.Date, Status], rates Rates) Totals {
	var t Totals
	advance := decimal.Zero
	payment := decimal.Zero

	for _, s := range entries {
		switch s.Kind {
		case KindRest:
			t.RestDays++
		case KindWork:
			t.WorkDays++
		case KindAdvance:
			t.AdvanceDays++
			advance = advance.Add(valueOr(s, rates.Advance))
		case KindPayment:
			t.PaymentDays++
			payment = payment.Add(valueOr(s, rates.Payment))
		}
	}

	t.RestTotal = rates.Rest.Mul(decimal.NewFromInt(int64(t.RestDays)))
	t.WorkTotal = rates.Work.Mul(decimal.NewFromInt(int64(t.WorkDays)))
	t.AdvanceTotal = advance
	t.PaymentTotal = payment
	t.EarningsTotal = t.RestTotal.Add(t.WorkTotal).Add(t.AdvanceTotal)
	t.FinalBalance = t.EarningsTotal.Sub(t.PaymentTotal)
	return t
}

func valueOr(s Status, fallback decimal.Decimal) decimal.Decimal {
	if s.Value.Valid {
		return s.Value.Decimal
	}
	return fallback
}
