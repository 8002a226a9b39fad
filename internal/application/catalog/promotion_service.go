package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PromotionService handles discount rules and resolves the promotion price
// of a good at a point in time.
type PromotionService struct {
	promotionRepo catalog.PromotionRepository
	goodRepo      catalog.BusinessGoodRepository
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotionRepo catalog.PromotionRepository, goodRepo catalog.BusinessGoodRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		goodRepo:      goodRepo,
	}
}

// Create registers a promotion after checking every referenced good exists
func (s *PromotionService) Create(ctx context.Context, businessID uuid.UUID, req CreatePromotionRequest) (*PromotionResponse, error) {
	goods, err := s.goodRepo.FindByIDs(ctx, businessID, req.GoodIDs)
	if err != nil {
		return nil, err
	}
	if len(goods) != len(req.GoodIDs) {
		return nil, shared.NewDomainError("UNKNOWN_GOODS", "A referenced business good does not exist")
	}

	promo, err := catalog.NewPromotion(businessID, req.Name, catalog.PromotionType(req.Type), req.Value, catalog.GoodIDs(req.GoodIDs), req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}
	promo.Weekdays = catalog.Weekdays(req.Weekdays)
	promo.TimeFrom = req.TimeFrom
	promo.TimeTo = req.TimeTo

	if err := s.promotionRepo.Save(ctx, promo); err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// GetByID retrieves a promotion of the business
func (s *PromotionService) GetByID(ctx context.Context, businessID, promotionID uuid.UUID) (*PromotionResponse, error) {
	promo, err := s.promotionRepo.FindByIDForBusiness(ctx, businessID, promotionID)
	if err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// List retrieves the business's promotions
func (s *PromotionService) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]PromotionResponse, error) {
	promos, err := s.promotionRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PromotionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, ToPromotionResponse(&promos[i]))
	}
	return out, nil
}

// Update renames or toggles a promotion
func (s *PromotionService) Update(ctx context.Context, businessID, promotionID uuid.UUID, req UpdatePromotionRequest) (*PromotionResponse, error) {
	promo, err := s.promotionRepo.FindByIDForBusiness(ctx, businessID, promotionID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		promo.Name = *req.Name
	}
	if req.Active != nil {
		promo.Active = *req.Active
	}
	promo.Touch()
	if err := s.promotionRepo.Save(ctx, promo); err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// Delete removes a promotion
func (s *PromotionService) Delete(ctx context.Context, businessID, promotionID uuid.UUID) error {
	promo, err := s.promotionRepo.FindByIDForBusiness(ctx, businessID, promotionID)
	if err != nil {
		return err
	}
	return s.promotionRepo.Delete(ctx, promo.ID)
}

// ResolvePrice returns the best active promotion for a good at the given
// time along with the discounted price. A nil promotion means the regular
// price stands.
func (s *PromotionService) ResolvePrice(ctx context.Context, businessID, goodID uuid.UUID, salePrice decimal.Decimal, at time.Time) (*catalog.Promotion, decimal.Decimal, error) {
	promos, err := s.promotionRepo.FindActiveForBusiness(ctx, businessID)
	if err != nil {
		return nil, salePrice, err
	}

	best := decimal.Decimal{}
	var bestPromo *catalog.Promotion
	for i := range promos {
		promo := &promos[i]
		if !promo.AppliesTo(goodID) || !promo.AppliesAt(at) {
			continue
		}
		price := promo.DiscountedPrice(salePrice)
		if bestPromo == nil || price.LessThan(best) {
			best = price
			bestPromo = promo
		}
	}
	if bestPromo == nil {
		return nil, salePrice, nil
	}
	return bestPromo, best, nil
}
