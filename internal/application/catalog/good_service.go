package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// GoodService handles sellable goods and keeps their derived cost price and
// allergen list in sync with the composition.
type GoodService struct {
	goodRepo         catalog.BusinessGoodRepository
	supplierGoodRepo catalog.SupplierGoodRepository
	calculator       *catalog.CostCalculator
	txManager        shared.TransactionManager
}

// NewGoodService creates a new GoodService
func NewGoodService(
	goodRepo catalog.BusinessGoodRepository,
	supplierGoodRepo catalog.SupplierGoodRepository,
	txManager shared.TransactionManager,
) *GoodService {
	return &GoodService{
		goodRepo:         goodRepo,
		supplierGoodRepo: supplierGoodRepo,
		calculator:       catalog.NewCostCalculator(supplierGoodRepo, goodRepo),
		txManager:        txManager,
	}
}

func toIngredientInputs(reqs []IngredientRequest) []catalog.IngredientInput {
	out := make([]catalog.IngredientInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, catalog.IngredientInput{
			SupplierGoodID: r.SupplierGoodID,
			Quantity:       r.Quantity,
			Unit:           valueobject.Unit(r.Unit),
		})
	}
	return out
}

func toSetMenuInputs(reqs []SetMenuItemRequest) []catalog.SetMenuInput {
	out := make([]catalog.SetMenuInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, catalog.SetMenuInput{
			MemberGoodID: r.MemberGoodID,
			Quantity:     r.Quantity,
		})
	}
	return out
}

// Create adds a sellable good and derives its cost price and allergens
func (s *GoodService) Create(ctx context.Context, businessID uuid.UUID, req CreateBusinessGoodRequest) (*BusinessGoodResponse, error) {
	good, err := catalog.NewBusinessGood(businessID, req.Name, req.Category, req.SalePrice, toIngredientInputs(req.Ingredients), toSetMenuInputs(req.SetMenuItems))
	if err != nil {
		return nil, err
	}
	cost, allergens, err := s.calculator.Calculate(ctx, good)
	if err != nil {
		return nil, err
	}
	good.SetDerived(cost, allergens)

	if err := s.goodRepo.Save(ctx, good); err != nil {
		return nil, err
	}
	resp := ToBusinessGoodResponse(good)
	return &resp, nil
}

// GetByID retrieves a good of the business
func (s *GoodService) GetByID(ctx context.Context, businessID, goodID uuid.UUID) (*BusinessGoodResponse, error) {
	good, err := s.goodRepo.FindByIDForBusiness(ctx, businessID, goodID)
	if err != nil {
		return nil, err
	}
	resp := ToBusinessGoodResponse(good)
	return &resp, nil
}

// List retrieves the business's goods
func (s *GoodService) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]BusinessGoodResponse, error) {
	goods, err := s.goodRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]BusinessGoodResponse, 0, len(goods))
	for i := range goods {
		out = append(out, ToBusinessGoodResponse(&goods[i]))
	}
	return out, nil
}

// Update changes descriptive fields and the sale price
func (s *GoodService) Update(ctx context.Context, businessID, goodID uuid.UUID, req UpdateBusinessGoodRequest) (*BusinessGoodResponse, error) {
	good, err := s.goodRepo.FindByIDForBusiness(ctx, businessID, goodID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		good.Name = *req.Name
	}
	if req.Category != nil {
		good.Category = *req.Category
	}
	if req.SalePrice != nil {
		if err := good.UpdateSalePrice(*req.SalePrice); err != nil {
			return nil, err
		}
	}
	if req.OnMenu != nil {
		good.OnMenu = *req.OnMenu
	}
	good.Touch()
	if err := s.goodRepo.Save(ctx, good); err != nil {
		return nil, err
	}
	resp := ToBusinessGoodResponse(good)
	return &resp, nil
}

// SetComposition replaces the good's composition, rederives its cost and
// allergens, and cascades the recompute into set menus that contain it.
func (s *GoodService) SetComposition(ctx context.Context, businessID, goodID uuid.UUID, req SetCompositionRequest) (*BusinessGoodResponse, error) {
	good, err := s.goodRepo.FindByIDForBusiness(ctx, businessID, goodID)
	if err != nil {
		return nil, err
	}
	if err := good.SetComposition(toIngredientInputs(req.Ingredients), toSetMenuInputs(req.SetMenuItems)); err != nil {
		return nil, err
	}
	cost, allergens, err := s.calculator.Calculate(ctx, good)
	if err != nil {
		return nil, err
	}
	good.SetDerived(cost, allergens)

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.goodRepo.Save(ctx, good); err != nil {
			return err
		}
		return s.recomputeDependents(ctx, businessID, good.ID, map[uuid.UUID]bool{good.ID: true})
	})
	if err != nil {
		return nil, err
	}
	resp := ToBusinessGoodResponse(good)
	return &resp, nil
}

// RecomputeForSupplierGood rederives every good whose composition uses the
// supplier good. Called after a supplier price change.
func (s *GoodService) RecomputeForSupplierGood(ctx context.Context, businessID, supplierGoodID uuid.UUID) error {
	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	goods, err := s.goodRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return err
	}
	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		for i := range goods {
			good := &goods[i]
			uses := false
			for _, ing := range good.Ingredients {
				if ing.SupplierGoodID == supplierGoodID {
					uses = true
					break
				}
			}
			if !uses {
				continue
			}
			cost, allergens, err := s.calculator.Calculate(ctx, good)
			if err != nil {
				return err
			}
			good.SetDerived(cost, allergens)
			if err := s.goodRepo.Save(ctx, good); err != nil {
				return err
			}
			if err := s.recomputeDependents(ctx, businessID, good.ID, map[uuid.UUID]bool{good.ID: true}); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateSupplierGoodPrice changes a purchasable good's price and cascades
// the cost recompute into every sellable good built on it.
func (s *GoodService) UpdateSupplierGoodPrice(ctx context.Context, businessID, supplierGoodID uuid.UUID, req UpdateSupplierGoodPriceRequest) (*SupplierGoodResponse, error) {
	good, err := s.supplierGoodRepo.FindByIDForBusiness(ctx, businessID, supplierGoodID)
	if err != nil {
		return nil, err
	}
	if err := good.UpdatePrice(req.PricePerUnit); err != nil {
		return nil, err
	}
	if err := s.supplierGoodRepo.Save(ctx, good); err != nil {
		return nil, err
	}
	if err := s.RecomputeForSupplierGood(ctx, businessID, supplierGoodID); err != nil {
		return nil, err
	}
	resp := ToSupplierGoodResponse(good)
	return &resp, nil
}

// Delete removes a good unless a set menu still contains it
func (s *GoodService) Delete(ctx context.Context, businessID, goodID uuid.UUID) error {
	good, err := s.goodRepo.FindByIDForBusiness(ctx, businessID, goodID)
	if err != nil {
		return err
	}
	parents, err := s.goodRepo.FindSetMenusReferencing(ctx, businessID, goodID)
	if err != nil {
		return err
	}
	if len(parents) > 0 {
		return shared.NewDomainError("GOOD_IN_SET_MENU", "The good is still part of a set menu")
	}
	return s.goodRepo.Delete(ctx, good.ID)
}

// recomputeDependents walks set menus containing the changed good upward.
// The visited set guards against composition cycles that slipped past
// validation.
func (s *GoodService) recomputeDependents(ctx context.Context, businessID, changedGoodID uuid.UUID, visited map[uuid.UUID]bool) error {
	parents, err := s.goodRepo.FindSetMenusReferencing(ctx, businessID, changedGoodID)
	if err != nil {
		return err
	}
	for i := range parents {
		parent := &parents[i]
		if visited[parent.ID] {
			continue
		}
		visited[parent.ID] = true
		cost, allergens, err := s.calculator.Calculate(ctx, parent)
		if err != nil {
			return err
		}
		parent.SetDerived(cost, allergens)
		if err := s.goodRepo.Save(ctx, parent); err != nil {
			return err
		}
		if err := s.recomputeDependents(ctx, businessID, parent.ID, visited); err != nil {
			return err
		}
	}
	return nil
}
