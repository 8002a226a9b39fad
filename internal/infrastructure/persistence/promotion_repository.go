package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var promotionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"date_from":  true,
	"date_to":    true,
}

// GormPromotionRepository implements catalog.PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID finds a promotion by its ID
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Promotion, error) {
	var promo catalog.Promotion
	if err := dbFor(ctx, r.db).First(&promo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// FindByIDForBusiness finds a promotion by ID scoped to a business
func (r *GormPromotionRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*catalog.Promotion, error) {
	var promo catalog.Promotion
	if err := dbFor(ctx, r.db).First(&promo, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// FindAllForBusiness finds all promotions of a business matching the filter
func (r *GormPromotionRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.Promotion, error) {
	var promos []catalog.Promotion
	query := dbFor(ctx, r.db).Model(&catalog.Promotion{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if err := applyFilter(query, filter, promotionSortFields).Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// FindActiveForBusiness returns enabled promotions whose date window has not
// passed. Weekday and time-of-day applicability is evaluated in the domain.
func (r *GormPromotionRepository) FindActiveForBusiness(ctx context.Context, businessID uuid.UUID) ([]catalog.Promotion, error) {
	var promos []catalog.Promotion
	err := dbFor(ctx, r.db).
		Where("business_id = ? AND active = true AND date_to >= NOW()", businessID).
		Order("date_from ASC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

// Save creates or updates a promotion
func (r *GormPromotionRepository) Save(ctx context.Context, p *catalog.Promotion) error {
	return dbFor(ctx, r.db).Save(p).Error
}

// Delete deletes a promotion by ID
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&catalog.Promotion{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every promotion of a business
func (r *GormPromotionRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&catalog.Promotion{}, "business_id = ?", businessID).Error
}
