package ledger

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATES - Per-day earnings and default advance/payment amounts
// =============================================================================

// Default rates of the reference deployment.
var (
	DefaultRestRate    = decimal.NewFromInt(400)
	DefaultWorkRate    = decimal.NewFromInt(200)
	DefaultAdvanceRate = decimal.NewFromInt(300)
	DefaultPaymentRate = decimal.NewFromInt(1500)
)

// Rates holds the amounts the ledger works with. Rest and Work are earned
// per marked day; Advance and Payment are the defaults captured when a day
// is marked without an explicit value.
type Rates struct {
	Rest    decimal.Decimal `json:"rest"`
	Work    decimal.Decimal `json:"work"`
	Advance decimal.Decimal `json:"advance"`
	Payment decimal.Decimal `json:"payment"`
}

func DefaultRates() Rates {
	return Rates{
		Rest:    DefaultRestRate,
		Work:    DefaultWorkRate,
		Advance: DefaultAdvanceRate,
		Payment: DefaultPaymentRate,
	}
}

// For returns the rate associated with a kind.
func (r Rates) For(k Kind) decimal.Decimal {
	switch k {
	case KindRest:
		return r.Rest
	case KindWork:
		return r.Work
	case KindAdvance:
		return r.Advance
	case KindPayment:
		return r.Payment
	}
	return decimal.Zero
}

// =============================================================================
// PARSING AND DISPLAY
// =============================================================================

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseRateInput reads free-form rate input the way the rate fields always
// have: the leading integer counts, anything that yields no integer or zero
// falls back to def. "450abc" is 450, "abc" and "0" are def.
func ParseRateInput(raw string, def decimal.Decimal) decimal.Decimal {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	v, err := decimal.NewFromString(s[:end])
	if err != nil || v.IsZero() {
		return def
	}
	return v
}

// FormatAmount renders an amount with thousands separators: 2600 -> "2,600",
// 12.5 -> "12.5".
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return humanize.Comma(d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return humanize.CommafWithDigits(f, 2)
}

// FormatMoney is FormatAmount with a currency sign: "$2,600", "-$300".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + FormatAmount(d.Neg())
	}
	return "$" + FormatAmount(d)
}
