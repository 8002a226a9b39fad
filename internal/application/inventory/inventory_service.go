package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// InventoryService books purchases and manual counts against the stock
// document. A purchase and its inventory increments commit in one
// transaction.
type InventoryService struct {
	inventoryRepo    inventory.InventoryRepository
	purchaseRepo     inventory.PurchaseRepository
	supplierRepo     catalog.SupplierRepository
	supplierGoodRepo catalog.SupplierGoodRepository
	txManager        shared.TransactionManager
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	purchaseRepo inventory.PurchaseRepository,
	supplierRepo catalog.SupplierRepository,
	supplierGoodRepo catalog.SupplierGoodRepository,
	txManager shared.TransactionManager,
) *InventoryService {
	return &InventoryService{
		inventoryRepo:    inventoryRepo,
		purchaseRepo:     purchaseRepo,
		supplierRepo:     supplierRepo,
		supplierGoodRepo: supplierGoodRepo,
		txManager:        txManager,
	}
}

// Get returns the business's stock document, an empty one when nothing has
// been tracked yet
func (s *InventoryService) Get(ctx context.Context, businessID uuid.UUID) (*InventoryResponse, error) {
	inv, err := s.loadOrCreate(ctx, businessID)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

func (s *InventoryService) loadOrCreate(ctx context.Context, businessID uuid.UUID) (*inventory.Inventory, error) {
	inv, err := s.inventoryRepo.FindByBusiness(ctx, businessID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return inventory.NewInventory(businessID)
}

// RecordPurchase books a supplier delivery and raises the dynamic counts of
// every line's supplier good inside one transaction
func (s *InventoryService) RecordPurchase(ctx context.Context, businessID, userID uuid.UUID, req RecordPurchaseRequest) (*PurchaseResponse, error) {
	if _, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, req.SupplierID); err != nil {
		return nil, err
	}

	lines := make([]inventory.PurchaseLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		if _, err := s.supplierGoodRepo.FindByIDForBusiness(ctx, businessID, l.SupplierGoodID); err != nil {
			return nil, err
		}
		lines = append(lines, inventory.PurchaseLineInput{
			SupplierGoodID: l.SupplierGoodID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			Unit:           valueobject.Unit(l.Unit),
			UnitPrice:      l.UnitPrice,
		})
	}

	purchasedAt := time.Time{}
	if req.PurchasedAt != nil {
		purchasedAt = *req.PurchasedAt
	}
	purchase, err := inventory.NewPurchase(businessID, req.SupplierID, userID, purchasedAt, req.Comment, lines)
	if err != nil {
		return nil, err
	}

	inv, err := s.loadOrCreate(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for _, line := range purchase.Lines {
		if err := inv.ApplyDelta(line.SupplierGoodID, line.Quantity, line.Unit); err != nil {
			return nil, err
		}
	}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
			return err
		}
		return s.inventoryRepo.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// GetPurchase retrieves one purchase of the business
func (s *InventoryService) GetPurchase(ctx context.Context, businessID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForBusiness(ctx, businessID, purchaseID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// ListPurchases returns purchases booked inside a time window
func (s *InventoryService) ListPurchases(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindByPeriod(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, ToPurchaseResponse(p))
	}
	return out, nil
}

// ListPurchasesBySupplier returns purchases booked from one supplier
func (s *InventoryService) ListPurchasesBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindBySupplier(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, ToPurchaseResponse(p))
	}
	return out, nil
}

// RecordManualCount overwrites one item's dynamic count with a physically
// counted quantity
func (s *InventoryService) RecordManualCount(ctx context.Context, businessID uuid.UUID, req ManualCountRequest) (*InventoryResponse, error) {
	if _, err := s.supplierGoodRepo.FindByIDForBusiness(ctx, businessID, req.SupplierGoodID); err != nil {
		return nil, err
	}
	inv, err := s.loadOrCreate(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := inv.RecordManualCount(req.SupplierGoodID, req.Counted, valueobject.Unit(req.Unit)); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(inv)
	return &resp, nil
}
