package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var orderSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"batch_code":             true,
	"daily_reference_number": true,
	"billing_status":         true,
	"gross_price":            true,
	"net_price":              true,
}

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withChildren(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("Items").Preload("Payments")
}

// FindByID finds an order by its ID, including items and payments
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := r.withChildren(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForBusiness finds an order by ID scoped to a business
func (r *GormOrderRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := r.withChildren(ctx).First(&order, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.withChildren(ctx).Model(&sales.Order{})
	if err := applyFilter(query, filter, orderSortFields).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllForBusiness finds all orders of a business matching the filter
func (r *GormOrderRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.withChildren(ctx).Model(&sales.Order{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		query = query.Where("batch_code ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["billing_status"]; ok {
		query = query.Where("billing_status = ?", status)
	}
	if err := applyFilter(query, filter, orderSortFields).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByInstance returns every order attached to a sales instance
func (r *GormOrderRepository) FindByInstance(ctx context.Context, businessID, instanceID uuid.UUID) ([]*sales.Order, error) {
	var orders []*sales.Order
	err := r.withChildren(ctx).
		Where("business_id = ? AND sales_instance_id = ?", businessID, instanceID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByDailyReference returns every order for one business day
func (r *GormOrderRepository) FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*sales.Order, error) {
	var orders []*sales.Order
	err := r.withChildren(ctx).
		Where("business_id = ? AND daily_reference_number = ?", businessID, dailyRef).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOpenByInstance counts orders still billing-open on an instance
func (r *GormOrderRepository) CountOpenByInstance(ctx context.Context, businessID, instanceID uuid.UUID) (int64, error) {
	var count int64
	err := dbFor(ctx, r.db).Model(&sales.Order{}).
		Where("business_id = ? AND sales_instance_id = ? AND billing_status = ?", businessID, instanceID, sales.BillingOpen).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&sales.Order{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order together with its items and payments
func (r *GormOrderRepository) Save(ctx context.Context, o *sales.Order) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

// Delete deletes an order by ID
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var order sales.Order
	order.ID = id
	result := dbFor(ctx, r.db).Select("Items", "Payments").Delete(&order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every order of a business
func (r *GormOrderRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&sales.Order{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("order_id IN (?)", sub).Delete(&sales.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id IN (?)", sub).Delete(&sales.OrderPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sales.Order{}, "business_id = ?", businessID).Error
	})
}
