package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) withItems(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("Items")
}

// FindByID finds an inventory document by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.withItems(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByIDForBusiness finds an inventory document by ID scoped to a business
func (r *GormInventoryRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.withItems(ctx).First(&inv, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByBusiness returns the business's single inventory document
func (r *GormInventoryRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.withItems(ctx).First(&inv, "business_id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindAll finds all inventory documents matching the filter
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Inventory, error) {
	var invs []inventory.Inventory
	query := r.withItems(ctx).Model(&inventory.Inventory{})
	if err := applyFilter(query, filter, commonSortFields).Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

// FindAllForBusiness finds the inventory documents of a business
func (r *GormInventoryRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]inventory.Inventory, error) {
	var invs []inventory.Inventory
	query := r.withItems(ctx).Model(&inventory.Inventory{}).Where("business_id = ?", businessID)
	if err := applyFilter(query, filter, commonSortFields).Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

// Count counts inventory documents matching the filter
func (r *GormInventoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&inventory.Inventory{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates the inventory document together with its items
func (r *GormInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(inv).Error
}

// Delete deletes an inventory document by ID
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var inv inventory.Inventory
	inv.ID = id
	result := dbFor(ctx, r.db).Select("Items").Delete(&inv)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes the inventory document of a business
func (r *GormInventoryRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&inventory.Inventory{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("inventory_id IN (?)", sub).Delete(&inventory.InventoryItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inventory.Inventory{}, "business_id = ?", businessID).Error
	})
}
