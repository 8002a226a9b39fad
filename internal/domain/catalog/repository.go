package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// SupplierRepository persists Supplier aggregates
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Supplier, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	// FindOneTime returns the business's synthetic one-time-purchase
	// supplier, or shared.ErrNotFound if it has not been created yet.
	FindOneTime(ctx context.Context, businessID uuid.UUID) (*Supplier, error)
	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// SupplierGoodRepository persists SupplierGood aggregates
type SupplierGoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierGood, error)
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*SupplierGood, error)
	FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]SupplierGood, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]SupplierGood, error)
	FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]SupplierGood, error)
	Save(ctx context.Context, g *SupplierGood) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// BusinessGoodRepository persists BusinessGood aggregates
type BusinessGoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessGood, error)
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*BusinessGood, error)
	FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]BusinessGood, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]BusinessGood, error)
	// FindSetMenusReferencing returns set menus that include the good as a
	// member; used to recompute derived prices when a component changes.
	FindSetMenusReferencing(ctx context.Context, businessID, memberGoodID uuid.UUID) ([]BusinessGood, error)
	Save(ctx context.Context, g *BusinessGood) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// PromotionRepository persists Promotion aggregates
type PromotionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Promotion, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Promotion, error)
	FindActiveForBusiness(ctx context.Context, businessID uuid.UUID) ([]Promotion, error)
	Save(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
