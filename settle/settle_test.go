package settle_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/settle"
)

func TestCompute_Reference(t *testing.T) {
	// GIVEN: the agreed inputs
	// WHEN: computing the settlement
	// THEN: the final figure is 2,410,900

	res, err := settle.Compute(settle.Reference())
	require.NoError(t, err)

	assert.Equal(t, 30, res.DaysOff)
	assert.True(t, decimal.NewFromInt(12000).Equal(res.DaysOffValue))
	assert.Equal(t, 62, res.SpanDays)
	assert.True(t, decimal.NewFromInt(-11938).Equal(res.DaysWorked))
	assert.True(t, decimal.NewFromInt(1500).Equal(res.PaymentsTotal))
	assert.True(t, decimal.NewFromInt(2410900).Equal(res.Final), res.Final.String())
}

func TestCompute_NoDaysOff(t *testing.T) {
	res, err := settle.Compute(settle.Input{
		Start:    calendar.MustParseDate("2025-03-01"),
		End:      calendar.MustParseDate("2025-03-11"),
		Payments: []decimal.Decimal{decimal.NewFromInt(500), decimal.NewFromInt(250)},
		RestRate: decimal.NewFromInt(400),
		WorkRate: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// 10 days x 200 - 750
	assert.True(t, decimal.NewFromInt(1250).Equal(res.Final))
}

func TestCompute_EndBeforeStart(t *testing.T) {
	_, err := settle.Compute(settle.Input{
		Start: calendar.MustParseDate("2025-03-10"),
		End:   calendar.MustParseDate("2025-03-01"),
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidSpan)
}

func TestReferenceDaysOff_IsCopy(t *testing.T) {
	a := settle.ReferenceDaysOff()
	a[0] = calendar.MustParseDate("2000-01-01")
	assert.Equal(t, calendar.MustParseDate("2025-03-20"), settle.ReferenceDaysOff()[0])
}
