package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSupplierGoodRepo serves supplier goods from a map; only the lookups the
// calculator uses are backed.
type stubSupplierGoodRepo struct {
	SupplierGoodRepository
	goods map[uuid.UUID]*SupplierGood
}

func (s *stubSupplierGoodRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*SupplierGood, error) {
	if g, ok := s.goods[id]; ok {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

type stubBusinessGoodRepo struct {
	BusinessGoodRepository
	goods map[uuid.UUID]*BusinessGood
}

func (s *stubBusinessGoodRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*BusinessGood, error) {
	if g, ok := s.goods[id]; ok {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

func newTestSupplierGood(t *testing.T, businessID uuid.UUID, name string, unit valueobject.Unit, price float64, allergens ...string) *SupplierGood {
	t.Helper()
	sg, err := NewSupplierGood(businessID, uuid.New(), name, unit, decimal.NewFromFloat(price), Allergens(allergens))
	require.NoError(t, err)
	return sg
}

func TestCostCalculator_IngredientCost(t *testing.T) {
	businessID := uuid.New()
	flour := newTestSupplierGood(t, businessID, "Flour", valueobject.UnitKilogram, 4, "gluten")

	goodRepo := &stubBusinessGoodRepo{goods: map[uuid.UUID]*BusinessGood{}}
	supplierRepo := &stubSupplierGoodRepo{goods: map[uuid.UUID]*SupplierGood{flour.ID: flour}}
	calc := NewCostCalculator(supplierRepo, goodRepo)

	t.Run("matching units", func(t *testing.T) {
		// 0.5 kg at 4/kg = 2.00
		good, err := NewBusinessGood(businessID, "Bread", "food", decimal.NewFromInt(5), []IngredientInput{{
			SupplierGoodID: flour.ID,
			Quantity:       decimal.NewFromFloat(0.5),
			Unit:           valueobject.UnitKilogram,
		}}, nil)
		require.NoError(t, err)

		cost, allergens, err := calc.Calculate(context.Background(), good)
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(2)), "got %s", cost)
		assert.Equal(t, Allergens{"gluten"}, allergens)
	})

	t.Run("converts grams to supplier kilograms", func(t *testing.T) {
		good, err := NewBusinessGood(businessID, "Roll", "food", decimal.NewFromInt(2), []IngredientInput{{
			SupplierGoodID: flour.ID,
			Quantity:       decimal.NewFromInt(250),
			Unit:           valueobject.UnitGram,
		}}, nil)
		require.NoError(t, err)

		cost, _, err := calc.Calculate(context.Background(), good)
		require.NoError(t, err)
		assert.True(t, cost.Equal(decimal.NewFromInt(1)), "got %s", cost)
	})

	t.Run("cross family conversion fails", func(t *testing.T) {
		good, err := NewBusinessGood(businessID, "Broken", "food", decimal.NewFromInt(2), []IngredientInput{{
			SupplierGoodID: flour.ID,
			Quantity:       decimal.NewFromInt(1),
			Unit:           valueobject.UnitLiter,
		}}, nil)
		require.NoError(t, err)

		_, _, err = calc.Calculate(context.Background(), good)
		assert.Error(t, err)
	})
}

func TestCostCalculator_SetMenuCost(t *testing.T) {
	businessID := uuid.New()

	soup := &BusinessGood{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  "Soup",
		Composition:           CompositionIngredients,
		CostPrice:             decimal.NewFromFloat(1.5),
		Allergens:             Allergens{"celery"},
	}
	main := &BusinessGood{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  "Main",
		Composition:           CompositionIngredients,
		CostPrice:             decimal.NewFromFloat(3.25),
		Allergens:             Allergens{"gluten", "celery"},
	}

	goodRepo := &stubBusinessGoodRepo{goods: map[uuid.UUID]*BusinessGood{soup.ID: soup, main.ID: main}}
	calc := NewCostCalculator(&stubSupplierGoodRepo{}, goodRepo)

	menu, err := NewBusinessGood(businessID, "Lunch Menu", "food", decimal.NewFromInt(12), nil, []SetMenuInput{
		{MemberGoodID: soup.ID},
		{MemberGoodID: main.ID},
	})
	require.NoError(t, err)

	cost, allergens, err := calc.Calculate(context.Background(), menu)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromFloat(4.75)), "got %s", cost)
	assert.Equal(t, Allergens{"celery", "gluten"}, allergens)
}

func TestCostCalculator_ExpandConsumption(t *testing.T) {
	businessID := uuid.New()
	flour := newTestSupplierGood(t, businessID, "Flour", valueobject.UnitKilogram, 4)
	milk := newTestSupplierGood(t, businessID, "Milk", valueobject.UnitLiter, 1.2)

	bread, err := NewBusinessGood(businessID, "Bread", "food", decimal.NewFromInt(5), []IngredientInput{
		{SupplierGoodID: flour.ID, Quantity: decimal.NewFromFloat(0.5), Unit: valueobject.UnitKilogram},
	}, nil)
	require.NoError(t, err)

	latte, err := NewBusinessGood(businessID, "Latte", "drink", decimal.NewFromInt(4), []IngredientInput{
		{SupplierGoodID: milk.ID, Quantity: decimal.NewFromInt(200), Unit: valueobject.UnitMilliliter},
	}, nil)
	require.NoError(t, err)

	combo, err := NewBusinessGood(businessID, "Breakfast", "food", decimal.NewFromInt(8), nil, []SetMenuInput{
		{MemberGoodID: bread.ID},
		{MemberGoodID: latte.ID},
	})
	require.NoError(t, err)

	goodRepo := &stubBusinessGoodRepo{goods: map[uuid.UUID]*BusinessGood{
		bread.ID: bread, latte.ID: latte, combo.ID: combo,
	}}
	supplierRepo := &stubSupplierGoodRepo{goods: map[uuid.UUID]*SupplierGood{
		flour.ID: flour, milk.ID: milk,
	}}
	calc := NewCostCalculator(supplierRepo, goodRepo)

	t.Run("flattens set menu and merges by supplier good", func(t *testing.T) {
		// 2x combo plus 1x bread: flour 3*0.5 kg, milk 2*0.2 l
		out, err := calc.ExpandConsumption(context.Background(), businessID, map[uuid.UUID]decimal.Decimal{
			combo.ID: decimal.NewFromInt(2),
			bread.ID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		require.Len(t, out, 2)

		byID := map[uuid.UUID]decimal.Decimal{}
		for _, sc := range out {
			byID[sc.SupplierGoodID] = sc.Quantity
		}
		assert.True(t, byID[flour.ID].Equal(decimal.NewFromFloat(1.5)), "flour %s", byID[flour.ID])
		assert.True(t, byID[milk.ID].Equal(decimal.NewFromFloat(0.4)), "milk %s", byID[milk.ID])
	})

	t.Run("cycle is a fatal validation error", func(t *testing.T) {
		a := &BusinessGood{
			BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
			Name:                  "Menu A",
			Composition:           CompositionSetMenu,
		}
		b := &BusinessGood{
			BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
			Name:                  "Menu B",
			Composition:           CompositionSetMenu,
		}
		a.SetMenuItems = []SetMenuItem{{ID: uuid.New(), BusinessGoodID: a.ID, MemberGoodID: b.ID, Quantity: decimal.NewFromInt(1)}}
		b.SetMenuItems = []SetMenuItem{{ID: uuid.New(), BusinessGoodID: b.ID, MemberGoodID: a.ID, Quantity: decimal.NewFromInt(1)}}
		goodRepo.goods[a.ID] = a
		goodRepo.goods[b.ID] = b

		_, err := calc.ExpandConsumption(context.Background(), businessID, map[uuid.UUID]decimal.Decimal{
			a.ID: decimal.NewFromInt(1),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SET_MENU_CYCLE", domainErr.Code)
	})
}
