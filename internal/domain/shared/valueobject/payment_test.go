package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePayments(t *testing.T) {
	valid := []Payment{
		{Type: PaymentTypeCash, Branch: "Cash", Amount: decimal.NewFromInt(30)},
		{Type: PaymentTypeCard, Branch: "Visa", Amount: decimal.NewFromInt(25)},
	}

	t.Run("valid list passes through", func(t *testing.T) {
		got, err := ValidatePayments(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, got)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		_, err := ValidatePayments(nil)
		assert.Error(t, err)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := ValidatePayments([]Payment{{Type: "Cheque", Branch: "Cheque", Amount: decimal.NewFromInt(5)}})
		assert.Error(t, err)
	})

	t.Run("branch inconsistent with type rejected", func(t *testing.T) {
		_, err := ValidatePayments([]Payment{{Type: PaymentTypeCard, Branch: "Cash", Amount: decimal.NewFromInt(5)}})
		assert.Error(t, err)
	})

	t.Run("missing branch rejected", func(t *testing.T) {
		_, err := ValidatePayments([]Payment{{Type: PaymentTypeCash, Amount: decimal.NewFromInt(5)}})
		assert.Error(t, err)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := ValidatePayments([]Payment{{Type: PaymentTypeCash, Branch: "Cash", Amount: decimal.NewFromInt(-1)}})
		assert.Error(t, err)
	})
}

func TestTotalPaid(t *testing.T) {
	payments := []Payment{
		{Type: PaymentTypeCash, Branch: "Cash", Amount: decimal.NewFromInt(30)},
		{Type: PaymentTypeCard, Branch: "Visa", Amount: decimal.NewFromInt(25)},
	}
	assert.True(t, TotalPaid(payments).Equal(decimal.NewFromInt(55)))
	assert.True(t, TotalPaid(nil).IsZero())
}

func TestPaymentKey(t *testing.T) {
	p := Payment{Type: PaymentTypeCard, Branch: "Visa"}
	assert.Equal(t, "Card/Visa", p.Key())
}
