package business

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusiness(t *testing.T) {
	t.Run("creates business with defaults", func(t *testing.T) {
		b, err := NewBusiness("", "Blue Lagoon Kft", "INFO@bluelagoon.hu", "12345678-1-42", "")
		require.NoError(t, err)
		assert.Equal(t, "Blue Lagoon Kft", b.TradeName)
		assert.Equal(t, "info@bluelagoon.hu", b.Email)
		assert.Equal(t, TierFree, b.Subscription)
		assert.True(t, b.Active)
	})

	t.Run("rejects missing identity fields", func(t *testing.T) {
		_, err := NewBusiness("x", "", "a@b.c", "1", TierFree)
		assert.Error(t, err)
		_, err = NewBusiness("x", "Legal", "", "1", TierFree)
		assert.Error(t, err)
		_, err = NewBusiness("x", "Legal", "a@b.c", "", TierFree)
		assert.Error(t, err)
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		_, err := NewBusiness("x", "Legal", "a@b.c", "1", SubscriptionTier("Platinum"))
		assert.Error(t, err)
	})
}

func TestSubscriptionCommissionRate(t *testing.T) {
	tests := []struct {
		tier SubscriptionTier
		rate int64
	}{
		{TierFree, 0},
		{TierBasic, 5},
		{TierPremium, 8},
		{TierEnterprise, 10},
	}
	for _, tt := range tests {
		assert.True(t, tt.tier.CommissionRate().Equal(decimal.NewFromInt(tt.rate)), string(tt.tier))
	}
}

func TestBusinessSalesLocations(t *testing.T) {
	b, err := NewBusiness("Trattoria", "Trattoria SRL", "hello@trattoria.it", "IT-999", TierBasic)
	require.NoError(t, err)

	loc, err := b.AddSalesLocation("Table 1", LocationTable, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, loc.BusinessID)

	t.Run("duplicate reference name rejected", func(t *testing.T) {
		_, err := b.AddSalesLocation("table 1", LocationTable, false)
		assert.Error(t, err)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := b.AddSalesLocation("Garden", SalesLocationType("patio"), false)
		assert.Error(t, err)
	})

	t.Run("qr code url recorded", func(t *testing.T) {
		require.NoError(t, b.SetLocationQRCode(loc.ID, "https://cdn.example.com/qr/t1.png"))
		found, err := b.FindSalesLocation(loc.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/qr/t1.png", found.QRCodeURL)
	})

	t.Run("remove location", func(t *testing.T) {
		require.NoError(t, b.RemoveSalesLocation(loc.ID))
		_, err := b.FindSalesLocation(loc.ID)
		assert.Error(t, err)
	})
}
