package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessGood_Composition(t *testing.T) {
	businessID := uuid.New()
	ingredient := []IngredientInput{{
		SupplierGoodID: uuid.New(),
		Quantity:       decimal.NewFromFloat(0.5),
		Unit:           valueobject.UnitKilogram,
	}}
	setMenu := []SetMenuInput{{MemberGoodID: uuid.New()}}

	t.Run("ingredients only is valid", func(t *testing.T) {
		g, err := NewBusinessGood(businessID, "Goulash", "food", decimal.NewFromInt(12), ingredient, nil)
		require.NoError(t, err)
		assert.Equal(t, CompositionIngredients, g.Composition)
		assert.False(t, g.IsSetMenu())
	})

	t.Run("set menu only is valid", func(t *testing.T) {
		g, err := NewBusinessGood(businessID, "Lunch Menu", "food", decimal.NewFromInt(20), nil, setMenu)
		require.NoError(t, err)
		assert.True(t, g.IsSetMenu())
		assert.True(t, g.SetMenuItems[0].Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("both rejected", func(t *testing.T) {
		_, err := NewBusinessGood(businessID, "Broken", "food", decimal.NewFromInt(1), ingredient, setMenu)
		assert.Error(t, err)
	})

	t.Run("neither rejected", func(t *testing.T) {
		_, err := NewBusinessGood(businessID, "Broken", "food", decimal.NewFromInt(1), nil, nil)
		assert.Error(t, err)
	})

	t.Run("direct self reference rejected", func(t *testing.T) {
		g, err := NewBusinessGood(businessID, "Menu", "food", decimal.NewFromInt(1), nil, setMenu)
		require.NoError(t, err)
		err = g.SetComposition(nil, []SetMenuInput{{MemberGoodID: g.ID}})
		assert.Error(t, err)
	})

	t.Run("zero ingredient quantity rejected", func(t *testing.T) {
		_, err := NewBusinessGood(businessID, "Broken", "food", decimal.NewFromInt(1), []IngredientInput{{
			SupplierGoodID: uuid.New(),
			Quantity:       decimal.Zero,
			Unit:           valueobject.UnitGram,
		}}, nil)
		assert.Error(t, err)
	})
}

func TestAllergensUnion(t *testing.T) {
	a := Allergens{"gluten", "egg"}
	b := Allergens{"egg", "milk"}
	assert.Equal(t, Allergens{"gluten", "egg", "milk"}, a.Union(b))
	assert.Equal(t, Allergens{"gluten", "egg"}, a.Union(nil))
}
