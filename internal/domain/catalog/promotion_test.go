package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPromotion(t *testing.T, promoType PromotionType, value float64) *Promotion {
	t.Helper()
	p, err := NewPromotion(uuid.New(), "Happy Hour", promoType, decimal.NewFromFloat(value),
		GoodIDs{uuid.New()},
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestPromotionAppliesAt(t *testing.T) {
	p := newTestPromotion(t, PromotionPercentage, 20)
	p.Weekdays = Weekdays{time.Friday}
	p.TimeFrom = "16:00"
	p.TimeTo = "19:00"

	// 2026-06-05 is a Friday
	assert.True(t, p.AppliesAt(time.Date(2026, 6, 5, 17, 0, 0, 0, time.UTC)))
	assert.False(t, p.AppliesAt(time.Date(2026, 6, 5, 20, 0, 0, 0, time.UTC)), "outside daily window")
	assert.False(t, p.AppliesAt(time.Date(2026, 6, 6, 17, 0, 0, 0, time.UTC)), "wrong weekday")
	assert.False(t, p.AppliesAt(time.Date(2027, 6, 4, 17, 0, 0, 0, time.UTC)), "outside date range")

	p.Active = false
	assert.False(t, p.AppliesAt(time.Date(2026, 6, 5, 17, 0, 0, 0, time.UTC)))
}

func TestPromotionDiscountedPrice(t *testing.T) {
	sale := decimal.NewFromInt(10)

	assert.True(t, newTestPromotion(t, PromotionPercentage, 20).DiscountedPrice(sale).Equal(decimal.NewFromInt(8)))
	assert.True(t, newTestPromotion(t, PromotionFixedPrice, 6).DiscountedPrice(sale).Equal(decimal.NewFromInt(6)))
	assert.True(t, newTestPromotion(t, PromotionTwoForOne, 0).DiscountedPrice(sale).Equal(decimal.NewFromInt(5)))
}

func TestNewPromotionValidation(t *testing.T) {
	goodIDs := GoodIDs{uuid.New()}
	from := time.Now()
	to := from.Add(24 * time.Hour)

	_, err := NewPromotion(uuid.New(), "x", PromotionPercentage, decimal.NewFromInt(120), goodIDs, from, to)
	assert.Error(t, err, "percentage above 100")

	_, err = NewPromotion(uuid.New(), "x", PromotionPercentage, decimal.NewFromInt(10), nil, from, to)
	assert.Error(t, err, "no applicable goods")

	_, err = NewPromotion(uuid.New(), "x", PromotionPercentage, decimal.NewFromInt(10), goodIDs, to, from)
	assert.Error(t, err, "inverted window")
}
