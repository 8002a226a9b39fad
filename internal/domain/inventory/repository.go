package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// InventoryRepository persists the per-business stock document
type InventoryRepository interface {
	shared.BusinessRepository[Inventory]

	// FindByBusiness returns the business's inventory document
	FindByBusiness(ctx context.Context, businessID uuid.UUID) (*Inventory, error)

	// DeleteForBusiness removes the inventory document of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// PurchaseRepository persists purchase records
type PurchaseRepository interface {
	shared.BusinessRepository[Purchase]

	// FindByPeriod returns purchases booked inside the given time window
	FindByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*Purchase, error)

	// FindBySupplier returns purchases from one supplier
	FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]*Purchase, error)

	// DeleteForBusiness removes every purchase of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
