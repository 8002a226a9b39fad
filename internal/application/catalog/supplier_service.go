package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// SupplierService handles vendors and their purchasable goods
type SupplierService struct {
	supplierRepo     catalog.SupplierRepository
	supplierGoodRepo catalog.SupplierGoodRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo catalog.SupplierRepository, supplierGoodRepo catalog.SupplierGoodRepository) *SupplierService {
	return &SupplierService{
		supplierRepo:     supplierRepo,
		supplierGoodRepo: supplierGoodRepo,
	}
}

// Create registers a vendor
func (s *SupplierService) Create(ctx context.Context, businessID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := catalog.NewSupplier(businessID, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier of the business
func (s *SupplierService) GetByID(ctx context.Context, businessID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves the business's suppliers
func (s *SupplierService) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, ToSupplierResponse(&suppliers[i]))
	}
	return out, nil
}

// Update changes mutable supplier fields. The one-time supplier is managed
// by the system and cannot be edited.
func (s *SupplierService) Update(ctx context.Context, businessID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier.OneTime {
		return nil, shared.NewDomainError("ONE_TIME_SUPPLIER", "The one-time supplier cannot be edited")
	}
	if req.Name != nil {
		renamed, err := catalog.NewSupplier(businessID, *req.Name)
		if err != nil {
			return nil, err
		}
		supplier.Name = renamed.Name
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	supplier.Touch()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier. The one-time supplier cannot be deleted.
func (s *SupplierService) Delete(ctx context.Context, businessID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, supplierID)
	if err != nil {
		return err
	}
	if supplier.OneTime {
		return shared.NewDomainError("ONE_TIME_SUPPLIER", "The one-time supplier cannot be deleted")
	}
	return s.supplierRepo.Delete(ctx, supplier.ID)
}

// EnsureOneTime returns the business's synthetic one-time supplier,
// creating it on first use.
func (s *SupplierService) EnsureOneTime(ctx context.Context, businessID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindOneTime(ctx, businessID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		supplier = catalog.NewOneTimeSupplier(businessID)
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return nil, err
		}
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// AddGood adds a purchasable good under a supplier
func (s *SupplierService) AddGood(ctx context.Context, businessID, supplierID uuid.UUID, req CreateSupplierGoodRequest) (*SupplierGoodResponse, error) {
	if _, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, supplierID); err != nil {
		return nil, err
	}
	good, err := catalog.NewSupplierGood(businessID, supplierID, req.Name, valueobject.Unit(req.Unit), req.PricePerUnit, catalog.Allergens(req.Allergens))
	if err != nil {
		return nil, err
	}
	if err := s.supplierGoodRepo.Save(ctx, good); err != nil {
		return nil, err
	}
	resp := ToSupplierGoodResponse(good)
	return &resp, nil
}

// ListGoods retrieves a supplier's goods
func (s *SupplierService) ListGoods(ctx context.Context, businessID, supplierID uuid.UUID) ([]SupplierGoodResponse, error) {
	goods, err := s.supplierGoodRepo.FindBySupplier(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierGoodResponse, 0, len(goods))
	for i := range goods {
		out = append(out, ToSupplierGoodResponse(&goods[i]))
	}
	return out, nil
}
