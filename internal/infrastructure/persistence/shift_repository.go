package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/scheduling"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var shiftSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"starts_at":  true,
	"ends_at":    true,
	"kind":       true,
}

// GormShiftRepository implements scheduling.ShiftRepository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// FindByID finds a shift by its ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Shift, error) {
	var shift scheduling.Shift
	if err := dbFor(ctx, r.db).First(&shift, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

// FindByIDForBusiness finds a shift by ID scoped to a business
func (r *GormShiftRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*scheduling.Shift, error) {
	var shift scheduling.Shift
	if err := dbFor(ctx, r.db).First(&shift, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

// FindAll finds all shifts matching the filter
func (r *GormShiftRepository) FindAll(ctx context.Context, filter shared.Filter) ([]scheduling.Shift, error) {
	var shifts []scheduling.Shift
	query := dbFor(ctx, r.db).Model(&scheduling.Shift{})
	if err := applyFilter(query, filter, shiftSortFields).Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// FindAllForBusiness finds all shifts of a business matching the filter
func (r *GormShiftRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]scheduling.Shift, error) {
	var shifts []scheduling.Shift
	query := dbFor(ctx, r.db).Model(&scheduling.Shift{}).Where("business_id = ?", businessID)
	if employeeID, ok := filter.Filters["employee_id"]; ok {
		query = query.Where("employee_id = ?", employeeID)
	}
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if err := applyFilter(query, filter, shiftSortFields).Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// FindByEmployee returns an employee's shifts overlapping a time window
func (r *GormShiftRepository) FindByEmployee(ctx context.Context, businessID, employeeID uuid.UUID, from, to time.Time) ([]*scheduling.Shift, error) {
	var shifts []*scheduling.Shift
	err := dbFor(ctx, r.db).
		Where("business_id = ? AND employee_id = ? AND starts_at < ? AND ends_at > ?", businessID, employeeID, to, from).
		Order("starts_at ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

// FindByPeriod returns every shift of a business overlapping a time window
func (r *GormShiftRepository) FindByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*scheduling.Shift, error) {
	var shifts []*scheduling.Shift
	err := dbFor(ctx, r.db).
		Where("business_id = ? AND starts_at < ? AND ends_at > ?", businessID, to, from).
		Order("starts_at ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

// Count counts shifts matching the filter
func (r *GormShiftRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&scheduling.Shift{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a shift
func (r *GormShiftRepository) Save(ctx context.Context, s *scheduling.Shift) error {
	return dbFor(ctx, r.db).Save(s).Error
}

// Delete deletes a shift by ID
func (r *GormShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&scheduling.Shift{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every shift of a business
func (r *GormShiftRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&scheduling.Shift{}, "business_id = ?", businessID).Error
}
