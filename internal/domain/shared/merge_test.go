package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type paymentLine struct {
	Type   string
	Branch string
	Amount decimal.Decimal
}

func newPaymentAccumulator() *Accumulator[string, paymentLine] {
	return NewAccumulator(
		func(p paymentLine) string { return p.Type + "/" + p.Branch },
		func(acc, next paymentLine) paymentLine {
			acc.Amount = acc.Amount.Add(next.Amount)
			return acc
		},
	)
}

func TestAccumulator_MergesSameKey(t *testing.T) {
	acc := newPaymentAccumulator()
	acc.Add(paymentLine{"Card", "Visa", decimal.NewFromInt(25)})
	acc.Add(paymentLine{"Cash", "Cash", decimal.NewFromInt(30)})
	acc.Add(paymentLine{"Card", "Visa", decimal.NewFromInt(10)})

	assert.Equal(t, 2, acc.Len())

	visa, ok := acc.Get("Card/Visa")
	assert.True(t, ok)
	assert.True(t, visa.Amount.Equal(decimal.NewFromInt(35)))
}

func TestAccumulator_ValuesPreserveFirstSeenOrder(t *testing.T) {
	acc := newPaymentAccumulator()
	acc.AddAll([]paymentLine{
		{"Cash", "Cash", decimal.NewFromInt(1)},
		{"Card", "Visa", decimal.NewFromInt(2)},
		{"Cash", "Cash", decimal.NewFromInt(3)},
	})

	values := acc.Values()
	assert.Len(t, values, 2)
	assert.Equal(t, "Cash", values[0].Type)
	assert.Equal(t, "Card", values[1].Type)
	assert.True(t, values[0].Amount.Equal(decimal.NewFromInt(4)))
}

func TestAccumulator_SortedValues(t *testing.T) {
	acc := newPaymentAccumulator()
	acc.Add(paymentLine{"Cash", "Cash", decimal.NewFromInt(5)})
	acc.Add(paymentLine{"Card", "Visa", decimal.NewFromInt(9)})

	values := acc.SortedValues(func(a, b paymentLine) bool {
		return a.Amount.GreaterThan(b.Amount)
	})
	assert.Equal(t, "Card", values[0].Type)
}

func TestAccumulator_Empty(t *testing.T) {
	acc := newPaymentAccumulator()
	assert.Equal(t, 0, acc.Len())
	assert.Empty(t, acc.Values())
}
