package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// BusinessRepository persists Business aggregates
type BusinessRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Business, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsWithIdentity reports whether another business already uses the
	// legal name, email or tax number. excludeID skips the business itself
	// on updates.
	ExistsWithIdentity(ctx context.Context, legalName, email, taxNumber string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, b *Business) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository persists Employee aggregates
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Employee, error)
	FindByUsername(ctx context.Context, businessID uuid.UUID, username string) (*Employee, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Employee, error)
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsWithIdentity reports whether another employee of the business
	// already uses the username, email, tax number or ID number.
	ExistsWithIdentity(ctx context.Context, businessID uuid.UUID, username, email, taxNumber, idNumber string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
