package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryApplyDelta(t *testing.T) {
	t.Run("should create an item on first delta", func(t *testing.T) {
		inv, err := NewInventory(uuid.New())
		require.NoError(t, err)
		goodID := uuid.New()

		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("10"), valueobject.UnitKilogram))

		assert.True(t, inv.CountOf(goodID).Equal(decimal.RequireFromString("10")))
	})

	t.Run("should convert deltas into the item's unit", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		goodID := uuid.New()
		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("2"), valueobject.UnitKilogram))

		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("500"), valueobject.UnitGram))

		assert.True(t, inv.CountOf(goodID).Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("should allow counts to go negative", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		goodID := uuid.New()

		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("-3"), valueobject.UnitPiece))

		assert.True(t, inv.CountOf(goodID).Equal(decimal.RequireFromString("-3")))
	})

	t.Run("should reject cross-family unit deltas", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		goodID := uuid.New()
		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("1"), valueobject.UnitKilogram))

		err := inv.ApplyDelta(goodID, decimal.RequireFromString("1"), valueobject.UnitLiter)

		assert.Error(t, err)
	})

	t.Run("untracked goods should count as zero", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		assert.True(t, inv.CountOf(uuid.New()).IsZero())
	})
}

func TestInventoryManualCount(t *testing.T) {
	t.Run("should overwrite the dynamic count and record drift", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		goodID := uuid.New()
		require.NoError(t, inv.ApplyDelta(goodID, decimal.RequireFromString("10"), valueobject.UnitKilogram))

		require.NoError(t, inv.RecordManualCount(goodID, decimal.RequireFromString("9.2"), valueobject.UnitKilogram))

		assert.True(t, inv.CountOf(goodID).Equal(decimal.RequireFromString("9.2")))
		item := inv.Items[0]
		require.NotNil(t, item.LastCountDrift)
		assert.True(t, item.LastCountDrift.Equal(decimal.RequireFromString("-0.8")))
		assert.NotNil(t, item.LastCountedAt)
	})

	t.Run("should reject negative counted quantities", func(t *testing.T) {
		inv, _ := NewInventory(uuid.New())
		err := inv.RecordManualCount(uuid.New(), decimal.RequireFromString("-1"), valueobject.UnitPiece)
		assert.Error(t, err)
	})
}

func TestNewPurchase(t *testing.T) {
	makeLine := func(qty, price string) PurchaseLineInput {
		return PurchaseLineInput{
			SupplierGoodID: uuid.New(),
			Quantity:       decimal.RequireFromString(qty),
			Unit:           valueobject.UnitKilogram,
			UnitPrice:      decimal.RequireFromString(price),
		}
	}

	t.Run("should total its lines", func(t *testing.T) {
		purchase, err := NewPurchase(uuid.New(), uuid.New(), uuid.New(), time.Now(), "weekly delivery", []PurchaseLineInput{
			makeLine("5", "4"),
			makeLine("2", "10"),
		})

		require.NoError(t, err)
		assert.True(t, purchase.TotalCost.Equal(decimal.RequireFromString("40")))
		require.Len(t, purchase.Lines, 2)
		assert.True(t, purchase.Lines[0].LineTotal.Equal(decimal.RequireFromString("20")))
	})

	t.Run("should fail with no lines", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), uuid.New(), uuid.New(), time.Now(), "", nil)
		assert.Error(t, err)
	})

	t.Run("should fail with a non-positive quantity", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), uuid.New(), uuid.New(), time.Now(), "", []PurchaseLineInput{
			makeLine("0", "4"),
		})
		assert.Error(t, err)
	})

	t.Run("should default the purchase time", func(t *testing.T) {
		purchase, err := NewPurchase(uuid.New(), uuid.New(), uuid.New(), time.Time{}, "", []PurchaseLineInput{
			makeLine("1", "1"),
		})
		require.NoError(t, err)
		assert.False(t, purchase.PurchasedAt.IsZero())
	})
}
