package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CompositionKind tags how a business good is composed. A good is built either
// from supplier-good ingredients or from other business goods (set menu),
// never both.
type CompositionKind string

const (
	CompositionIngredients CompositionKind = "ingredients"
	CompositionSetMenu     CompositionKind = "set-menu"
)

// Ingredient references a SupplierGood with the quantity a single portion
// requires, in the ingredient's own measurement unit.
type Ingredient struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	BusinessGoodID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SupplierGoodID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal  `gorm:"type:decimal(20,6);not null"`
	Unit           valueobject.Unit `gorm:"size:20;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the database table name
func (Ingredient) TableName() string {
	return "business_good_ingredients"
}

// SetMenuItem references another BusinessGood as a component of a set menu
type SetMenuItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BusinessGoodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MemberGoodID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the database table name
func (SetMenuItem) TableName() string {
	return "business_good_set_menu_items"
}

// BusinessGood is a sellable item. CostPrice and Allergens are derived from
// the composition by the cost calculator, never supplied directly.
type BusinessGood struct {
	shared.BusinessAggregateRoot
	Name         string          `gorm:"size:200;not null"`
	Category     string          `gorm:"size:100"`
	Composition  CompositionKind `gorm:"size:20;not null"`
	Ingredients  []Ingredient    `gorm:"foreignKey:BusinessGoodID;constraint:OnDelete:CASCADE"`
	SetMenuItems []SetMenuItem   `gorm:"foreignKey:BusinessGoodID;constraint:OnDelete:CASCADE"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Allergens    Allergens       `gorm:"type:jsonb;serializer:json"`
	OnMenu       bool            `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (BusinessGood) TableName() string {
	return "business_goods"
}

// IngredientInput is the caller-supplied shape of one ingredient line
type IngredientInput struct {
	SupplierGoodID uuid.UUID
	Quantity       decimal.Decimal
	Unit           valueobject.Unit
}

// SetMenuInput is the caller-supplied shape of one set-menu member line
type SetMenuInput struct {
	MemberGoodID uuid.UUID
	Quantity     decimal.Decimal
}

// NewBusinessGood creates a sellable item. Exactly one of ingredients and
// setMenu must be non-empty.
func NewBusinessGood(businessID uuid.UUID, name, category string, salePrice decimal.Decimal, ingredients []IngredientInput, setMenu []SetMenuInput) (*BusinessGood, error) {
	name = strings.TrimSpace(name)
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GOOD_NAME", "Business good name cannot be empty")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	good := &BusinessGood{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  name,
		Category:              strings.TrimSpace(category),
		SalePrice:             salePrice,
		OnMenu:                true,
	}
	if err := good.SetComposition(ingredients, setMenu); err != nil {
		return nil, err
	}
	return good, nil
}

// SetComposition replaces the good's composition. It enforces the
// one-of-ingredients-or-set-menu rule at this single boundary.
func (g *BusinessGood) SetComposition(ingredients []IngredientInput, setMenu []SetMenuInput) error {
	hasIngredients := len(ingredients) > 0
	hasSetMenu := len(setMenu) > 0

	if hasIngredients && hasSetMenu {
		return shared.NewDomainError("INVALID_COMPOSITION", "A business good cannot have both ingredients and set-menu members")
	}
	if !hasIngredients && !hasSetMenu {
		return shared.NewDomainError("INVALID_COMPOSITION", "A business good needs either ingredients or set-menu members")
	}

	now := time.Now()
	if hasIngredients {
		lines := make([]Ingredient, 0, len(ingredients))
		for _, in := range ingredients {
			if in.SupplierGoodID == uuid.Nil {
				return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient supplier good ID cannot be empty")
			}
			if !in.Quantity.IsPositive() {
				return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient quantity must be positive")
			}
			if !in.Unit.IsValid() {
				return shared.NewDomainError("INVALID_INGREDIENT", "Unknown ingredient unit "+in.Unit.String())
			}
			lines = append(lines, Ingredient{
				ID:             uuid.New(),
				BusinessGoodID: g.ID,
				SupplierGoodID: in.SupplierGoodID,
				Quantity:       in.Quantity,
				Unit:           in.Unit,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		g.Composition = CompositionIngredients
		g.Ingredients = lines
		g.SetMenuItems = nil
	} else {
		lines := make([]SetMenuItem, 0, len(setMenu))
		for _, in := range setMenu {
			if in.MemberGoodID == uuid.Nil {
				return shared.NewDomainError("INVALID_SET_MENU", "Set-menu member good ID cannot be empty")
			}
			if in.MemberGoodID == g.ID {
				return shared.NewDomainError("SET_MENU_CYCLE", "A set menu cannot reference itself")
			}
			qty := in.Quantity
			if qty.IsZero() {
				qty = decimal.NewFromInt(1)
			}
			if !qty.IsPositive() {
				return shared.NewDomainError("INVALID_SET_MENU", "Set-menu member quantity must be positive")
			}
			lines = append(lines, SetMenuItem{
				ID:             uuid.New(),
				BusinessGoodID: g.ID,
				MemberGoodID:   in.MemberGoodID,
				Quantity:       qty,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		g.Composition = CompositionSetMenu
		g.SetMenuItems = lines
		g.Ingredients = nil
	}

	g.Touch()
	return nil
}

// IsSetMenu reports whether the good is composed of other business goods
func (g *BusinessGood) IsSetMenu() bool {
	return g.Composition == CompositionSetMenu
}

// SetDerived records the calculator's outputs on the good
func (g *BusinessGood) SetDerived(costPrice decimal.Decimal, allergens Allergens) {
	g.CostPrice = costPrice
	g.Allergens = allergens
	g.Touch()
}

// UpdateSalePrice changes the gross sale price
func (g *BusinessGood) UpdateSalePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	g.SalePrice = price
	g.Touch()
	return nil
}
