package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseLine is one supplier good received on a purchase
type PurchaseLine struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	PurchaseID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	SupplierGoodID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Description    string           `gorm:"size:200"`
	Quantity       decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	Unit           valueobject.Unit `gorm:"size:20;not null"`
	UnitPrice      decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	LineTotal      decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	CreatedAt      time.Time
}

// TableName returns the database table name
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}

// Purchase records goods received from a supplier. Booking one raises the
// inventory counts of its lines in the same transaction.
type Purchase struct {
	shared.BusinessAggregateRoot
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Lines        []PurchaseLine  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	RecordedByID uuid.UUID       `gorm:"type:uuid;not null"`
	Comment      string          `gorm:"size:500"`
	PurchasedAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the database table name
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseLineInput is the caller-supplied shape of one purchase line
type PurchaseLineInput struct {
	SupplierGoodID uuid.UUID
	Description    string
	Quantity       decimal.Decimal
	Unit           valueobject.Unit
	UnitPrice      decimal.Decimal
}

// NewPurchase records a delivery and totals its lines
func NewPurchase(businessID, supplierID, recordedBy uuid.UUID, purchasedAt time.Time, comment string, lines []PurchaseLineInput) (*Purchase, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Recording user ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_PURCHASE", "Purchase needs at least one line")
	}
	if purchasedAt.IsZero() {
		purchasedAt = time.Now()
	}

	purchase := &Purchase{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SupplierID:            supplierID,
		RecordedByID:          recordedBy,
		Comment:               strings.TrimSpace(comment),
		PurchasedAt:           purchasedAt,
		TotalCost:             decimal.Zero,
	}

	now := time.Now()
	for _, in := range lines {
		if in.SupplierGoodID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PURCHASE", "Purchase line good ID cannot be empty")
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_PURCHASE", "Purchase line quantity must be positive")
		}
		if !in.Unit.IsValid() {
			return nil, shared.NewDomainError("INVALID_UNIT", "Unknown measurement unit on purchase line")
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PURCHASE", "Purchase line price cannot be negative")
		}
		lineTotal := in.UnitPrice.Mul(in.Quantity)
		purchase.Lines = append(purchase.Lines, PurchaseLine{
			ID:             uuid.New(),
			PurchaseID:     purchase.ID,
			SupplierGoodID: in.SupplierGoodID,
			Description:    strings.TrimSpace(in.Description),
			Quantity:       in.Quantity,
			Unit:           in.Unit,
			UnitPrice:      in.UnitPrice,
			LineTotal:      lineTotal,
			CreatedAt:      now,
		})
		purchase.TotalCost = purchase.TotalCost.Add(lineTotal)
	}

	return purchase, nil
}
