package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks one supplier good's stock level. DynamicSystemCount
// is the running theoretical quantity, moved by purchases and sales; manual
// counts overwrite it and record the drift.
type InventoryItem struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey"`
	InventoryID        uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_inventory_good"`
	SupplierGoodID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_good"`
	Unit               valueobject.Unit `gorm:"size:20;not null"`
	DynamicSystemCount decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0"`
	LastCountedAt      *time.Time
	LastCountDrift     *decimal.Decimal `gorm:"type:decimal(20,4)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName returns the database table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// Inventory is the single stock document of a business. Every supplier good
// the business consumes has one item row.
type Inventory struct {
	shared.BusinessAggregateRoot
	Items []InventoryItem `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name
func (Inventory) TableName() string {
	return "inventories"
}

// NewInventory creates the stock document for a business
func NewInventory(businessID uuid.UUID) (*Inventory, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	return &Inventory{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
	}, nil
}

func (inv *Inventory) findItem(supplierGoodID uuid.UUID) *InventoryItem {
	for i := range inv.Items {
		if inv.Items[i].SupplierGoodID == supplierGoodID {
			return &inv.Items[i]
		}
	}
	return nil
}

// EnsureItem returns the item for a supplier good, creating a zero-count
// row in the good's unit when none exists yet.
func (inv *Inventory) EnsureItem(supplierGoodID uuid.UUID, unit valueobject.Unit) (*InventoryItem, error) {
	if supplierGoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_GOOD", "Supplier good ID cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown measurement unit")
	}
	if item := inv.findItem(supplierGoodID); item != nil {
		return item, nil
	}
	now := time.Now()
	inv.Items = append(inv.Items, InventoryItem{
		ID:                 uuid.New(),
		InventoryID:        inv.ID,
		SupplierGoodID:     supplierGoodID,
		Unit:               unit,
		DynamicSystemCount: decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	inv.Touch()
	return &inv.Items[len(inv.Items)-1], nil
}

// ApplyDelta moves an item's dynamic count by the given quantity, converting
// into the item's unit first. Positive deltas come from purchases, negative
// ones from sales. Counts may go negative; drift shows up at the next manual
// count.
func (inv *Inventory) ApplyDelta(supplierGoodID uuid.UUID, delta decimal.Decimal, unit valueobject.Unit) error {
	item, err := inv.EnsureItem(supplierGoodID, unit)
	if err != nil {
		return err
	}
	converted, err := valueobject.ConvertQuantity(delta, unit, item.Unit)
	if err != nil {
		return shared.NewDomainError("UNIT_MISMATCH", err.Error())
	}
	item.DynamicSystemCount = item.DynamicSystemCount.Add(converted)
	item.UpdatedAt = time.Now()
	inv.Touch()
	return nil
}

// RecordManualCount overwrites an item's dynamic count with a physically
// counted quantity and stores the drift between the two.
func (inv *Inventory) RecordManualCount(supplierGoodID uuid.UUID, counted decimal.Decimal, unit valueobject.Unit) error {
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_COUNT", "Counted quantity cannot be negative")
	}
	item, err := inv.EnsureItem(supplierGoodID, unit)
	if err != nil {
		return err
	}
	converted, err := valueobject.ConvertQuantity(counted, unit, item.Unit)
	if err != nil {
		return shared.NewDomainError("UNIT_MISMATCH", err.Error())
	}
	drift := converted.Sub(item.DynamicSystemCount)
	now := time.Now()
	item.DynamicSystemCount = converted
	item.LastCountedAt = &now
	item.LastCountDrift = &drift
	item.UpdatedAt = now
	inv.Touch()
	return nil
}

// CountOf returns an item's dynamic count, zero when the good is untracked
func (inv *Inventory) CountOf(supplierGoodID uuid.UUID) decimal.Decimal {
	if item := inv.findItem(supplierGoodID); item != nil {
		return item.DynamicSystemCount
	}
	return decimal.Zero
}
