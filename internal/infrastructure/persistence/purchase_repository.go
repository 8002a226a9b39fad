package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var purchaseSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"purchased_at": true,
	"total_cost":   true,
}

// GormPurchaseRepository implements inventory.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) withLines(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("Lines")
}

// FindByID finds a purchase by its ID, including its lines
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Purchase, error) {
	var purchase inventory.Purchase
	if err := r.withLines(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByIDForBusiness finds a purchase by ID scoped to a business
func (r *GormPurchaseRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*inventory.Purchase, error) {
	var purchase inventory.Purchase
	if err := r.withLines(ctx).First(&purchase, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds all purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Purchase, error) {
	var purchases []inventory.Purchase
	query := r.withLines(ctx).Model(&inventory.Purchase{})
	if err := applyFilter(query, filter, purchaseSortFields).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindAllForBusiness finds all purchases of a business matching the filter
func (r *GormPurchaseRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]inventory.Purchase, error) {
	var purchases []inventory.Purchase
	query := r.withLines(ctx).Model(&inventory.Purchase{}).Where("business_id = ?", businessID)
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if err := applyFilter(query, filter, purchaseSortFields).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByPeriod returns purchases booked inside the given time window
func (r *GormPurchaseRepository) FindByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*inventory.Purchase, error) {
	var purchases []*inventory.Purchase
	err := r.withLines(ctx).
		Where("business_id = ? AND purchased_at >= ? AND purchased_at < ?", businessID, from, to).
		Order("purchased_at ASC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindBySupplier returns purchases from one supplier
func (r *GormPurchaseRepository) FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]*inventory.Purchase, error) {
	var purchases []*inventory.Purchase
	err := r.withLines(ctx).
		Where("business_id = ? AND supplier_id = ?", businessID, supplierID).
		Order("purchased_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&inventory.Purchase{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase together with its lines
func (r *GormPurchaseRepository) Save(ctx context.Context, p *inventory.Purchase) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

// Delete deletes a purchase by ID
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var purchase inventory.Purchase
	purchase.ID = id
	result := dbFor(ctx, r.db).Select("Lines").Delete(&purchase)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every purchase of a business
func (r *GormPurchaseRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&inventory.Purchase{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("purchase_id IN (?)", sub).Delete(&inventory.PurchaseLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inventory.Purchase{}, "business_id = ?", businessID).Error
	})
}
