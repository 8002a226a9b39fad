package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SupplierConsumption is the flattened ingredient requirement of one or more
// business goods, expressed in the supplier good's own measurement unit.
type SupplierConsumption struct {
	SupplierGoodID uuid.UUID
	Quantity       decimal.Decimal
}

// CostCalculator derives cost price, allergen sets and flattened ingredient
// consumption from a good's composition. It is a pure domain service: it
// reads through the repositories and writes nothing.
type CostCalculator struct {
	supplierGoods SupplierGoodRepository
	businessGoods BusinessGoodRepository
}

// NewCostCalculator creates a new CostCalculator
func NewCostCalculator(supplierGoods SupplierGoodRepository, businessGoods BusinessGoodRepository) *CostCalculator {
	return &CostCalculator{
		supplierGoods: supplierGoods,
		businessGoods: businessGoods,
	}
}

// Calculate computes the cost price and allergen set of a business good.
// For an ingredients good each line is priced in the supplier good's unit,
// converting the required quantity when the units differ. For a set menu the
// cost is the sum of the members' already-derived cost prices.
func (c *CostCalculator) Calculate(ctx context.Context, good *BusinessGood) (decimal.Decimal, Allergens, error) {
	if good.IsSetMenu() {
		return c.calculateSetMenu(ctx, good)
	}
	return c.calculateIngredients(ctx, good)
}

func (c *CostCalculator) calculateIngredients(ctx context.Context, good *BusinessGood) (decimal.Decimal, Allergens, error) {
	cost := decimal.Zero
	var allergens Allergens

	for _, ing := range good.Ingredients {
		sg, err := c.supplierGoods.FindByIDForBusiness(ctx, good.BusinessID, ing.SupplierGoodID)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("ingredient %s: %w", ing.SupplierGoodID, err)
		}

		qty := ing.Quantity
		if ing.Unit != sg.Unit {
			qty, err = valueobject.ConvertQuantity(ing.Quantity, ing.Unit, sg.Unit)
			if err != nil {
				return decimal.Zero, nil, shared.NewDomainError("UNIT_MISMATCH",
					fmt.Sprintf("Cannot convert %s of %s from %s to %s", ing.Quantity, sg.Name, ing.Unit, sg.Unit))
			}
		}

		cost = cost.Add(sg.PricePerUnit.Mul(qty))
		allergens = allergens.Union(sg.Allergens)
	}

	return cost, allergens, nil
}

func (c *CostCalculator) calculateSetMenu(ctx context.Context, good *BusinessGood) (decimal.Decimal, Allergens, error) {
	cost := decimal.Zero
	var allergens Allergens

	for _, item := range good.SetMenuItems {
		member, err := c.businessGoods.FindByIDForBusiness(ctx, good.BusinessID, item.MemberGoodID)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("set-menu member %s: %w", item.MemberGoodID, err)
		}
		cost = cost.Add(member.CostPrice.Mul(item.Quantity))
		allergens = allergens.Union(member.Allergens)
	}

	return cost, allergens, nil
}

// ExpandConsumption resolves business goods into their flattened supplier-good
// requirements. Set menus expand recursively through their members; a menu
// that directly or transitively references itself is a fatal validation
// error, never an infinite recursion.
//
// goods maps business good IDs to the number of portions ordered. The result
// aggregates per distinct supplier good, quantities in the supplier good's
// own unit.
func (c *CostCalculator) ExpandConsumption(ctx context.Context, businessID uuid.UUID, goods map[uuid.UUID]decimal.Decimal) ([]SupplierConsumption, error) {
	acc := shared.NewAccumulator(
		func(sc SupplierConsumption) uuid.UUID { return sc.SupplierGoodID },
		func(a, b SupplierConsumption) SupplierConsumption {
			a.Quantity = a.Quantity.Add(b.Quantity)
			return a
		},
	)

	for goodID, portions := range goods {
		if err := c.expandGood(ctx, businessID, goodID, portions, acc, make(map[uuid.UUID]bool)); err != nil {
			return nil, err
		}
	}

	return acc.SortedValues(func(a, b SupplierConsumption) bool {
		return a.SupplierGoodID.String() < b.SupplierGoodID.String()
	}), nil
}

func (c *CostCalculator) expandGood(ctx context.Context, businessID, goodID uuid.UUID, portions decimal.Decimal, acc *shared.Accumulator[uuid.UUID, SupplierConsumption], path map[uuid.UUID]bool) error {
	if path[goodID] {
		return shared.NewDomainError("SET_MENU_CYCLE",
			fmt.Sprintf("Set menu %s references itself directly or transitively", goodID))
	}
	path[goodID] = true
	defer delete(path, goodID)

	good, err := c.businessGoods.FindByIDForBusiness(ctx, businessID, goodID)
	if err != nil {
		return fmt.Errorf("business good %s: %w", goodID, err)
	}

	if good.IsSetMenu() {
		for _, item := range good.SetMenuItems {
			if err := c.expandGood(ctx, businessID, item.MemberGoodID, portions.Mul(item.Quantity), acc, path); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ing := range good.Ingredients {
		sg, err := c.supplierGoods.FindByIDForBusiness(ctx, businessID, ing.SupplierGoodID)
		if err != nil {
			return fmt.Errorf("ingredient %s: %w", ing.SupplierGoodID, err)
		}
		qty := ing.Quantity
		if ing.Unit != sg.Unit {
			qty, err = valueobject.ConvertQuantity(ing.Quantity, ing.Unit, sg.Unit)
			if err != nil {
				return shared.NewDomainError("UNIT_MISMATCH",
					fmt.Sprintf("Cannot convert %s of %s from %s to %s", ing.Quantity, sg.Name, ing.Unit, sg.Unit))
			}
		}
		acc.Add(SupplierConsumption{
			SupplierGoodID: sg.ID,
			Quantity:       qty.Mul(portions),
		})
	}
	return nil
}
