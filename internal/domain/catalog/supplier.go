package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OneTimeSupplierName is the reserved name of the synthetic supplier used for
// goods bought without a pre-registered vendor.
const OneTimeSupplierName = "One-Time Purchase"

// Supplier is a vendor a business purchases goods from
type Supplier struct {
	shared.BusinessAggregateRoot
	Name        string `gorm:"size:200;not null"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:50"`
	Email       string `gorm:"size:200"`
	// OneTime marks the synthetic default supplier; each business has at
	// most one and it cannot be deleted.
	OneTime bool `gorm:"not null;default:false"`
}

// TableName returns the database table name
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier for a business
func NewSupplier(businessID uuid.UUID, name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if strings.EqualFold(name, OneTimeSupplierName) {
		return nil, shared.NewDomainError("RESERVED_SUPPLIER_NAME", "This supplier name is reserved")
	}
	return &Supplier{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  name,
	}, nil
}

// NewOneTimeSupplier creates the synthetic default supplier for a business
func NewOneTimeSupplier(businessID uuid.UUID) *Supplier {
	return &Supplier{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  OneTimeSupplierName,
		OneTime:               true,
	}
}

// Allergens is a deduplicated list of allergen tags stored as a JSON column
type Allergens []string

// Union merges another allergen list, keeping entries unique and preserving
// first-seen order
func (a Allergens) Union(other Allergens) Allergens {
	seen := make(map[string]struct{}, len(a))
	out := make(Allergens, 0, len(a)+len(other))
	for _, tag := range a {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	for _, tag := range other {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// SupplierGood is a purchasable unit with a measurement unit and price per unit
type SupplierGood struct {
	shared.BusinessAggregateRoot
	SupplierID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"size:200;not null"`
	Unit         valueobject.Unit `gorm:"size:20;not null"`
	PricePerUnit decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	Allergens    Allergens        `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the database table name
func (SupplierGood) TableName() string {
	return "supplier_goods"
}

// NewSupplierGood creates a new purchasable good under a supplier
func NewSupplierGood(businessID, supplierID uuid.UUID, name string, unit valueobject.Unit, pricePerUnit decimal.Decimal, allergens Allergens) (*SupplierGood, error) {
	name = strings.TrimSpace(name)
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GOOD_NAME", "Supplier good name cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown measurement unit "+unit.String())
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}
	return &SupplierGood{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SupplierID:            supplierID,
		Name:                  name,
		Unit:                  unit,
		PricePerUnit:          pricePerUnit,
		Allergens:             Allergens(nil).Union(allergens),
	}, nil
}

// UpdatePrice changes the price per unit
func (g *SupplierGood) UpdatePrice(pricePerUnit decimal.Decimal) error {
	if pricePerUnit.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}
	g.PricePerUnit = pricePerUnit
	g.Touch()
	return nil
}
