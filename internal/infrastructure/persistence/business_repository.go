package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var businessSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"trade_name": true,
	"legal_name": true,
	"email":      true,
}

// GormBusinessRepository implements business.BusinessRepository using GORM
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewGormBusinessRepository creates a new GormBusinessRepository
func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// FindByID finds a business by its ID, including its sales locations
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	var biz business.Business
	if err := dbFor(ctx, r.db).Preload("SalesLocations").First(&biz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &biz, nil
}

// FindAll finds all businesses matching the filter
func (r *GormBusinessRepository) FindAll(ctx context.Context, filter shared.Filter) ([]business.Business, error) {
	var businesses []business.Business
	query := dbFor(ctx, r.db).Model(&business.Business{}).Preload("SalesLocations")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("trade_name ILIKE ? OR legal_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if err := applyFilter(query, filter, businessSortFields).Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// Count counts businesses matching the filter
func (r *GormBusinessRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&business.Business{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("trade_name ILIKE ? OR legal_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsWithIdentity reports whether another business already uses the
// legal name, email or tax number
func (r *GormBusinessRepository) ExistsWithIdentity(ctx context.Context, legalName, email, taxNumber string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&business.Business{}).
		Where("legal_name = ? OR email = ? OR tax_number = ?", legalName, strings.ToLower(email), taxNumber)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a business
func (r *GormBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
}

// Delete deletes a business and, through cascades, its sales locations
func (r *GormBusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&business.Business{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
