package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var salesInstanceSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"opened_at":              true,
	"status":                 true,
	"daily_reference_number": true,
}

// GormSalesInstanceRepository implements sales.SalesInstanceRepository using GORM
type GormSalesInstanceRepository struct {
	db *gorm.DB
}

// NewGormSalesInstanceRepository creates a new GormSalesInstanceRepository
func NewGormSalesInstanceRepository(db *gorm.DB) *GormSalesInstanceRepository {
	return &GormSalesInstanceRepository{db: db}
}

func (r *GormSalesInstanceRepository) withChildren(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("Groups")
}

// FindByID finds a sales instance by its ID, including its groups
func (r *GormSalesInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesInstance, error) {
	var instance sales.SalesInstance
	if err := r.withChildren(ctx).First(&instance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// FindByIDForBusiness finds a sales instance by ID scoped to a business
func (r *GormSalesInstanceRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*sales.SalesInstance, error) {
	var instance sales.SalesInstance
	if err := r.withChildren(ctx).First(&instance, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// FindAll finds all sales instances matching the filter
func (r *GormSalesInstanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SalesInstance, error) {
	var instances []sales.SalesInstance
	query := r.withChildren(ctx).Model(&sales.SalesInstance{})
	if err := applyFilter(query, filter, salesInstanceSortFields).Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// FindAllForBusiness finds all sales instances of a business matching the filter
func (r *GormSalesInstanceRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]sales.SalesInstance, error) {
	var instances []sales.SalesInstance
	query := r.withChildren(ctx).Model(&sales.SalesInstance{}).Where("business_id = ?", businessID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if locationID, ok := filter.Filters["sales_location_id"]; ok {
		query = query.Where("sales_location_id = ?", locationID)
	}
	if dailyRef, ok := filter.Filters["daily_reference_number"]; ok {
		query = query.Where("daily_reference_number = ?", dailyRef)
	}
	if err := applyFilter(query, filter, salesInstanceSortFields).Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// FindOpenByLocation returns the non-closed instances at a location
func (r *GormSalesInstanceRepository) FindOpenByLocation(ctx context.Context, businessID, locationID uuid.UUID) ([]*sales.SalesInstance, error) {
	var instances []*sales.SalesInstance
	err := r.withChildren(ctx).
		Where("business_id = ? AND sales_location_id = ? AND status <> ?", businessID, locationID, sales.InstanceClosed).
		Order("opened_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// FindOpen returns every non-closed instance of a business
func (r *GormSalesInstanceRepository) FindOpen(ctx context.Context, businessID uuid.UUID) ([]*sales.SalesInstance, error) {
	var instances []*sales.SalesInstance
	err := r.withChildren(ctx).
		Where("business_id = ? AND status <> ?", businessID, sales.InstanceClosed).
		Order("opened_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// FindByDailyReference returns every instance of one business day
func (r *GormSalesInstanceRepository) FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*sales.SalesInstance, error) {
	var instances []*sales.SalesInstance
	err := r.withChildren(ctx).
		Where("business_id = ? AND daily_reference_number = ?", businessID, dailyRef).
		Order("opened_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// FindEmptyOpenOlderThan returns stale open instances with no attached orders
func (r *GormSalesInstanceRepository) FindEmptyOpenOlderThan(ctx context.Context, businessID uuid.UUID, minutes int) ([]*sales.SalesInstance, error) {
	var instances []*sales.SalesInstance
	err := r.withChildren(ctx).
		Where("business_id = ? AND status <> ?", businessID, sales.InstanceClosed).
		Where(fmt.Sprintf("updated_at < NOW() - INTERVAL '%d minutes'", minutes)).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.sales_instance_id = sales_instances.id)").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// Count counts sales instances matching the filter
func (r *GormSalesInstanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&sales.SalesInstance{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sales instance together with its groups
func (r *GormSalesInstanceRepository) Save(ctx context.Context, si *sales.SalesInstance) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(si).Error
}

// Delete deletes a sales instance by ID
func (r *GormSalesInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var instance sales.SalesInstance
	instance.ID = id
	result := dbFor(ctx, r.db).Select("Groups").Delete(&instance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every instance of a business
func (r *GormSalesInstanceRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&sales.SalesInstance{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("sales_instance_id IN (?)", sub).Delete(&sales.SalesGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sales.SalesInstance{}, "business_id = ?", businessID).Error
	})
}
