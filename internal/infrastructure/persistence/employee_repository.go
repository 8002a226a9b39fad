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

var employeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"email":      true,
}

// GormEmployeeRepository implements business.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Employee, error) {
	var employee business.Employee
	if err := dbFor(ctx, r.db).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByIDForBusiness finds an employee by ID within a business
func (r *GormEmployeeRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*business.Employee, error) {
	var employee business.Employee
	if err := dbFor(ctx, r.db).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByUsername finds an employee by username within a business
func (r *GormEmployeeRepository) FindByUsername(ctx context.Context, businessID uuid.UUID, username string) (*business.Employee, error) {
	var employee business.Employee
	if err := dbFor(ctx, r.db).
		Where("business_id = ? AND username = ?", businessID, strings.TrimSpace(username)).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAllForBusiness finds all employees of a business
func (r *GormEmployeeRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]business.Employee, error) {
	var employees []business.Employee
	query := dbFor(ctx, r.db).Model(&business.Employee{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if err := applyFilter(query, filter, employeeSortFields).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// CountForBusiness counts employees of a business
func (r *GormEmployeeRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&business.Employee{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsWithIdentity reports whether another employee of the business
// already uses the username, email, tax number or ID number
func (r *GormEmployeeRepository) ExistsWithIdentity(ctx context.Context, businessID uuid.UUID, username, email, taxNumber, idNumber string, excludeID uuid.UUID) (bool, error) {
	query := dbFor(ctx, r.db).Model(&business.Employee{}).Where("business_id = ?", businessID)

	identity := dbFor(ctx, r.db).Where("username = ?", strings.TrimSpace(username)).
		Or("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if taxNumber != "" {
		identity = identity.Or("tax_number = ?", taxNumber)
	}
	if idNumber != "" {
		identity = identity.Or("id_number = ?", idNumber)
	}
	query = query.Where(identity)

	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *business.Employee) error {
	return dbFor(ctx, r.db).Save(e).Error
}

// Delete deletes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&business.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness deletes every employee of a business
func (r *GormEmployeeRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&business.Employee{}, "business_id = ?", businessID).Error
}
