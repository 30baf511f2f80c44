package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
)

// =============================================================================
// KIND - The four mutually exclusive day statuses
// =============================================================================

type Kind string

const (
	KindRest    Kind = "rest"
	KindWork    Kind = "work"
	KindAdvance Kind = "advance"
	KindPayment Kind = "payment"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindRest, KindWork, KindAdvance, KindPayment}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindRest, KindWork, KindAdvance, KindPayment:
		return true
	}
	return false
}

// Valued reports whether the kind carries a monetary amount.
func (k Kind) Valued() bool { return k == KindAdvance || k == KindPayment }

func (k Kind) String() string { return string(k) }

// =============================================================================
// STATUS - What a day is marked as
// =============================================================================

// Status is the ledger value of one day. Value is only Valid for advance and
// payment, and holds the amount captured when the status was assigned.
type Status struct {
	Kind  Kind                `json:"kind"`
	Value decimal.NullDecimal `json:"value"`
}

func Rest() Status { return Status{Kind: KindRest} }
func Work() Status { return Status{Kind: KindWork} }

func Advance(amount decimal.Decimal) Status {
	return Status{Kind: KindAdvance, Value: decimal.NewNullDecimal(amount)}
}

func Payment(amount decimal.Decimal) Status {
	return Status{Kind: KindPayment, Value: decimal.NewNullDecimal(amount)}
}

// Equal compares kind and value, ignoring decimal representation.
func (s Status) Equal(other Status) bool {
	if s.Kind != other.Kind || s.Value.Valid != other.Value.Valid {
		return false
	}
	return !s.Value.Valid || s.Value.Decimal.Equal(other.Value.Decimal)
}

func (s Status) String() string {
	if s.Value.Valid {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Value.Decimal)
	}
	return string(s.Kind)
}

// Entry pairs a date with its status.
type Entry struct {
	Date   calendar.Date `json:"date"`
	Status Status        `json:"status"`
}

// PaymentEntry is one payment of the ledger.
type PaymentEntry struct {
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
