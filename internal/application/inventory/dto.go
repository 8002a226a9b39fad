package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PurchaseLineRequest is one received supplier good on a purchase
type PurchaseLineRequest struct {
	SupplierGoodID uuid.UUID       `json:"supplier_good_id" binding:"required"`
	Description    string          `json:"description" binding:"max=200"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Unit           string          `json:"unit" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
}

// RecordPurchaseRequest books a supplier delivery
type RecordPurchaseRequest struct {
	SupplierID  uuid.UUID             `json:"supplier_id" binding:"required"`
	PurchasedAt *time.Time            `json:"purchased_at"`
	Comment     string                `json:"comment" binding:"max=500"`
	Lines       []PurchaseLineRequest `json:"lines" binding:"required,min=1"`
}

// ManualCountRequest overwrites one item's dynamic count with a physical count
type ManualCountRequest struct {
	SupplierGoodID uuid.UUID       `json:"supplier_good_id" binding:"required"`
	Counted        decimal.Decimal `json:"counted" binding:"required"`
	Unit           string          `json:"unit" binding:"required"`
}

// InventoryItemResponse is the API shape of one stock line
type InventoryItemResponse struct {
	SupplierGoodID     uuid.UUID        `json:"supplier_good_id"`
	Unit               string           `json:"unit"`
	DynamicSystemCount decimal.Decimal  `json:"dynamic_system_count"`
	LastCountedAt      *time.Time       `json:"last_counted_at,omitempty"`
	LastCountDrift     *decimal.Decimal `json:"last_count_drift,omitempty"`
}

// InventoryResponse is the API shape of the business stock document
type InventoryResponse struct {
	ID        uuid.UUID               `json:"id"`
	Items     []InventoryItemResponse `json:"items"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// ToInventoryResponse maps the aggregate to its API shape
func ToInventoryResponse(inv *inventory.Inventory) InventoryResponse {
	items := make([]InventoryItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InventoryItemResponse{
			SupplierGoodID:     item.SupplierGoodID,
			Unit:               string(item.Unit),
			DynamicSystemCount: item.DynamicSystemCount,
			LastCountedAt:      item.LastCountedAt,
			LastCountDrift:     item.LastCountDrift,
		})
	}
	return InventoryResponse{
		ID:        inv.ID,
		Items:     items,
		UpdatedAt: inv.UpdatedAt,
	}
}

// PurchaseLineResponse is the API shape of one purchase line
type PurchaseLineResponse struct {
	SupplierGoodID uuid.UUID       `json:"supplier_good_id"`
	Description    string          `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// PurchaseResponse is the API shape of a booked purchase
type PurchaseResponse struct {
	ID           uuid.UUID              `json:"id"`
	SupplierID   uuid.UUID              `json:"supplier_id"`
	Lines        []PurchaseLineResponse `json:"lines"`
	TotalCost    decimal.Decimal        `json:"total_cost"`
	RecordedByID uuid.UUID              `json:"recorded_by_id"`
	Comment      string                 `json:"comment,omitempty"`
	PurchasedAt  time.Time              `json:"purchased_at"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ToPurchaseResponse maps the aggregate to its API shape
func ToPurchaseResponse(p *inventory.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, PurchaseLineResponse{
			SupplierGoodID: l.SupplierGoodID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			Unit:           string(l.Unit),
			UnitPrice:      l.UnitPrice,
			LineTotal:      l.LineTotal,
		})
	}
	return PurchaseResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		Lines:        lines,
		TotalCost:    p.TotalCost,
		RecordedByID: p.RecordedByID,
		Comment:      p.Comment,
		PurchasedAt:  p.PurchasedAt,
		CreatedAt:    p.CreatedAt,
	}
}
