package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var supplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// GormSupplierRepository implements catalog.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := dbFor(ctx, r.db).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByIDForBusiness finds a supplier by ID scoped to a business
func (r *GormSupplierRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := dbFor(ctx, r.db).First(&supplier, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForBusiness finds all suppliers of a business matching the filter
func (r *GormSupplierRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := dbFor(ctx, r.db).Model(&catalog.Supplier{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_name ILIKE ?", pattern, pattern)
	}
	if err := applyFilter(query, filter, supplierSortFields).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// FindOneTime returns the business's synthetic one-time-purchase supplier
func (r *GormSupplierRepository) FindOneTime(ctx context.Context, businessID uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := dbFor(ctx, r.db).First(&supplier, "business_id = ? AND one_time = true", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, s *catalog.Supplier) error {
	return dbFor(ctx, r.db).Save(s).Error
}

// Delete deletes a supplier by ID
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&catalog.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every supplier of a business
func (r *GormSupplierRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&catalog.Supplier{}, "business_id = ?", businessID).Error
}
