package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var supplierGoodSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"unit":           true,
	"price_per_unit": true,
}

// GormSupplierGoodRepository implements catalog.SupplierGoodRepository using GORM
type GormSupplierGoodRepository struct {
	db *gorm.DB
}

// NewGormSupplierGoodRepository creates a new GormSupplierGoodRepository
func NewGormSupplierGoodRepository(db *gorm.DB) *GormSupplierGoodRepository {
	return &GormSupplierGoodRepository{db: db}
}

// FindByID finds a supplier good by its ID
func (r *GormSupplierGoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SupplierGood, error) {
	var good catalog.SupplierGood
	if err := dbFor(ctx, r.db).First(&good, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByIDForBusiness finds a supplier good by ID scoped to a business
func (r *GormSupplierGoodRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*catalog.SupplierGood, error) {
	var good catalog.SupplierGood
	if err := dbFor(ctx, r.db).First(&good, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByIDs loads a batch of supplier goods scoped to a business. Missing
// IDs are simply absent from the result; callers check for completeness.
func (r *GormSupplierGoodRepository) FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]catalog.SupplierGood, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var goods []catalog.SupplierGood
	if err := dbFor(ctx, r.db).Where("business_id = ? AND id IN ?", businessID, ids).Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// FindAllForBusiness finds all supplier goods of a business matching the filter
func (r *GormSupplierGoodRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.SupplierGood, error) {
	var goods []catalog.SupplierGood
	query := dbFor(ctx, r.db).Model(&catalog.SupplierGood{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if err := applyFilter(query, filter, supplierGoodSortFields).Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// FindBySupplier returns the goods registered under one supplier
func (r *GormSupplierGoodRepository) FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]catalog.SupplierGood, error) {
	var goods []catalog.SupplierGood
	err := dbFor(ctx, r.db).
		Where("business_id = ? AND supplier_id = ?", businessID, supplierID).
		Order("name ASC").
		Find(&goods).Error
	if err != nil {
		return nil, err
	}
	return goods, nil
}

// Save creates or updates a supplier good
func (r *GormSupplierGoodRepository) Save(ctx context.Context, g *catalog.SupplierGood) error {
	return dbFor(ctx, r.db).Save(g).Error
}

// Delete deletes a supplier good by ID
func (r *GormSupplierGoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&catalog.SupplierGood{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every supplier good of a business
func (r *GormSupplierGoodRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&catalog.SupplierGood{}, "business_id = ?", businessID).Error
}
