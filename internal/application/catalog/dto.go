package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest registers a vendor
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// UpdateSupplierRequest changes mutable supplier fields
type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

// SupplierResponse is the API shape of a supplier
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	OneTime     bool      `json:"one_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToSupplierResponse maps the aggregate to its API shape
func ToSupplierResponse(s *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		OneTime:     s.OneTime,
		CreatedAt:   s.CreatedAt,
	}
}

// CreateSupplierGoodRequest adds a purchasable good under a supplier
type CreateSupplierGoodRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Unit         string          `json:"unit" binding:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
	Allergens    []string        `json:"allergens"`
}

// UpdateSupplierGoodPriceRequest changes a good's price per unit
type UpdateSupplierGoodPriceRequest struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
}

// SupplierGoodResponse is the API shape of a supplier good
type SupplierGoodResponse struct {
	ID           uuid.UUID       `json:"id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Allergens    []string        `json:"allergens"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToSupplierGoodResponse maps the aggregate to its API shape
func ToSupplierGoodResponse(g *catalog.SupplierGood) SupplierGoodResponse {
	return SupplierGoodResponse{
		ID:           g.ID,
		SupplierID:   g.SupplierID,
		Name:         g.Name,
		Unit:         string(g.Unit),
		PricePerUnit: g.PricePerUnit,
		Allergens:    g.Allergens,
		CreatedAt:    g.CreatedAt,
	}
}

// IngredientRequest is one supplier good reference in a composition
type IngredientRequest struct {
	SupplierGoodID uuid.UUID       `json:"supplier_good_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Unit           string          `json:"unit" binding:"required"`
}

// SetMenuItemRequest is one member good reference in a set menu
type SetMenuItemRequest struct {
	MemberGoodID uuid.UUID       `json:"member_good_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// CreateBusinessGoodRequest creates a sellable good. Exactly one of
// Ingredients and SetMenuItems must be non-empty.
type CreateBusinessGoodRequest struct {
	Name         string               `json:"name" binding:"required,min=1,max=200"`
	Category     string               `json:"category" binding:"max=100"`
	SalePrice    decimal.Decimal      `json:"sale_price" binding:"required"`
	Ingredients  []IngredientRequest  `json:"ingredients"`
	SetMenuItems []SetMenuItemRequest `json:"set_menu_items"`
}

// UpdateBusinessGoodRequest changes a good's descriptive fields and price
type UpdateBusinessGoodRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category  *string          `json:"category" binding:"omitempty,max=100"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	OnMenu    *bool            `json:"on_menu"`
}

// SetCompositionRequest replaces a good's composition
type SetCompositionRequest struct {
	Ingredients  []IngredientRequest  `json:"ingredients"`
	SetMenuItems []SetMenuItemRequest `json:"set_menu_items"`
}

// IngredientResponse is the API shape of one composition line
type IngredientResponse struct {
	SupplierGoodID uuid.UUID       `json:"supplier_good_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
}

// SetMenuItemResponse is the API shape of one set menu member
type SetMenuItemResponse struct {
	MemberGoodID uuid.UUID       `json:"member_good_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// BusinessGoodResponse is the API shape of a sellable good
type BusinessGoodResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Category     string                `json:"category,omitempty"`
	Composition  string                `json:"composition"`
	SalePrice    decimal.Decimal       `json:"sale_price"`
	CostPrice    decimal.Decimal       `json:"cost_price"`
	Allergens    []string              `json:"allergens"`
	OnMenu       bool                  `json:"on_menu"`
	Ingredients  []IngredientResponse  `json:"ingredients,omitempty"`
	SetMenuItems []SetMenuItemResponse `json:"set_menu_items,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToBusinessGoodResponse maps the aggregate to its API shape
func ToBusinessGoodResponse(g *catalog.BusinessGood) BusinessGoodResponse {
	resp := BusinessGoodResponse{
		ID:          g.ID,
		Name:        g.Name,
		Category:    g.Category,
		Composition: string(g.Composition),
		SalePrice:   g.SalePrice,
		CostPrice:   g.CostPrice,
		Allergens:   g.Allergens,
		OnMenu:      g.OnMenu,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	for _, ing := range g.Ingredients {
		resp.Ingredients = append(resp.Ingredients, IngredientResponse{
			SupplierGoodID: ing.SupplierGoodID,
			Quantity:       ing.Quantity,
			Unit:           string(ing.Unit),
		})
	}
	for _, item := range g.SetMenuItems {
		resp.SetMenuItems = append(resp.SetMenuItems, SetMenuItemResponse{
			MemberGoodID: item.MemberGoodID,
			Quantity:     item.Quantity,
		})
	}
	return resp
}

// CreatePromotionRequest creates a windowed discount rule
type CreatePromotionRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=200"`
	Type     string          `json:"type" binding:"required,oneof=fixed-price percentage two-for-one"`
	Value    decimal.Decimal `json:"value"`
	GoodIDs  []uuid.UUID     `json:"good_ids" binding:"required,min=1"`
	Weekdays []time.Weekday  `json:"weekdays"`
	DateFrom time.Time       `json:"date_from" binding:"required"`
	DateTo   time.Time       `json:"date_to" binding:"required"`
	TimeFrom string          `json:"time_from" binding:"omitempty,len=5"`
	TimeTo   string          `json:"time_to" binding:"omitempty,len=5"`
}

// UpdatePromotionRequest toggles or rewords a promotion
type UpdatePromotionRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=200"`
	Active *bool   `json:"active"`
}

// PromotionResponse is the API shape of a promotion
type PromotionResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	GoodIDs  []uuid.UUID     `json:"good_ids"`
	Weekdays []time.Weekday  `json:"weekdays,omitempty"`
	DateFrom time.Time       `json:"date_from"`
	DateTo   time.Time       `json:"date_to"`
	TimeFrom string          `json:"time_from,omitempty"`
	TimeTo   string          `json:"time_to,omitempty"`
	Active   bool            `json:"active"`
}

// ToPromotionResponse maps the aggregate to its API shape
func ToPromotionResponse(p *catalog.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:       p.ID,
		Name:     p.Name,
		Type:     string(p.Type),
		Value:    p.Value,
		GoodIDs:  p.GoodIDs,
		Weekdays: p.Weekdays,
		DateFrom: p.DateFrom,
		DateTo:   p.DateTo,
		TimeFrom: p.TimeFrom,
		TimeTo:   p.TimeTo,
		Active:   p.Active,
	}
}
