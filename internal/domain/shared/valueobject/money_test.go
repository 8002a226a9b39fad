package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := NewAmountFromFloat(50)
	b := NewAmountFromFloat(5)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(55)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(45)))
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := NewAmountFromFloat(10)
	eur, err := NewMoney(decimal.NewFromInt(10), EUR)
	require.NoError(t, err)

	_, err = usd.Add(eur)
	assert.Error(t, err)
	_, err = usd.LessThan(eur)
	assert.Error(t, err)
}

func TestMoneyPercentage(t *testing.T) {
	m := NewAmountFromFloat(1000)
	commission := m.CalculatePercentage(decimal.NewFromInt(8))
	assert.True(t, commission.Amount().Equal(decimal.NewFromInt(80)))

	discounted := m.ApplyDiscount(decimal.NewFromInt(25))
	assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(750)))
}

func TestMoneyDivide(t *testing.T) {
	m := NewAmountFromFloat(100)
	_, err := m.Divide(decimal.Zero)
	assert.Error(t, err)

	half, err := m.Divide(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, half.Amount().Equal(decimal.NewFromInt(50)))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewAmountFromFloat(12.5)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(back))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.42"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.42)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}
