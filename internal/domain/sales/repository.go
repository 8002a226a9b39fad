package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// OrderRepository persists orders
type OrderRepository interface {
	shared.BusinessRepository[Order]

	// FindByInstance returns every order attached to a sales instance
	FindByInstance(ctx context.Context, businessID, instanceID uuid.UUID) ([]*Order, error)

	// FindByDailyReference returns every order for one business day
	FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*Order, error)

	// CountOpenByInstance counts orders still billing-open on an instance
	CountOpenByInstance(ctx context.Context, businessID, instanceID uuid.UUID) (int64, error)

	// DeleteForBusiness removes every order of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// SalesInstanceRepository persists sales instances
type SalesInstanceRepository interface {
	shared.BusinessRepository[SalesInstance]

	// FindOpenByLocation returns the non-closed instances at a location
	FindOpenByLocation(ctx context.Context, businessID, locationID uuid.UUID) ([]*SalesInstance, error)

	// FindOpen returns every non-closed instance of a business
	FindOpen(ctx context.Context, businessID uuid.UUID) ([]*SalesInstance, error)

	// FindByDailyReference returns every instance of one business day
	FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*SalesInstance, error)

	// FindEmptyOpenOlderThan returns open instances with no attached orders
	// whose last update is older than the given number of minutes. The
	// garbage collector closes these.
	FindEmptyOpenOlderThan(ctx context.Context, businessID uuid.UUID, minutes int) ([]*SalesInstance, error)

	// DeleteForBusiness removes every instance of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
