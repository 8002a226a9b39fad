package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// ShiftRepository persists scheduled shifts
type ShiftRepository interface {
	shared.BusinessRepository[Shift]

	// FindByEmployee returns an employee's shifts inside a time window
	FindByEmployee(ctx context.Context, businessID, employeeID uuid.UUID, from, to time.Time) ([]*Shift, error)

	// FindByPeriod returns every shift of a business inside a time window
	FindByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*Shift, error)

	// DeleteForBusiness removes every shift of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
