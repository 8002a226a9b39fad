package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PromotionType is the discount rule a promotion applies
type PromotionType string

const (
	PromotionFixedPrice PromotionType = "fixed-price"
	PromotionPercentage PromotionType = "percentage"
	PromotionTwoForOne  PromotionType = "two-for-one"
)

// IsValid checks if the promotion type is known
func (t PromotionType) IsValid() bool {
	switch t {
	case PromotionFixedPrice, PromotionPercentage, PromotionTwoForOne:
		return true
	}
	return false
}

// Weekdays is a list of applicable weekdays stored as a JSON column.
// Empty means every day.
type Weekdays []time.Weekday

// Contains reports whether the list includes the weekday
func (w Weekdays) Contains(day time.Weekday) bool {
	if len(w) == 0 {
		return true
	}
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// GoodIDs is a list of applicable business good IDs stored as a JSON column
type GoodIDs []uuid.UUID

// Contains reports whether the list includes the good
func (g GoodIDs) Contains(id uuid.UUID) bool {
	for _, gid := range g {
		if gid == id {
			return true
		}
	}
	return false
}

// Promotion is a time and weekday windowed discount rule referencing
// applicable business goods. Promotions are mutually exclusive with manual
// order discounts; that exclusivity is enforced on the order.
type Promotion struct {
	shared.BusinessAggregateRoot
	Name     string          `gorm:"size:200;not null"`
	Type     PromotionType   `gorm:"size:20;not null"`
	Value    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	GoodIDs  GoodIDs         `gorm:"type:jsonb;serializer:json"`
	Weekdays Weekdays        `gorm:"type:jsonb;serializer:json"`
	DateFrom time.Time       `gorm:"not null"`
	DateTo   time.Time       `gorm:"not null"`
	// TimeFrom/TimeTo bound the daily window in "HH:MM"; both empty means
	// the whole day.
	TimeFrom string `gorm:"size:5"`
	TimeTo   string `gorm:"size:5"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Promotion) TableName() string {
	return "promotions"
}

// NewPromotion creates a new promotion rule
func NewPromotion(businessID uuid.UUID, name string, promoType PromotionType, value decimal.Decimal, goodIDs GoodIDs, dateFrom, dateTo time.Time) (*Promotion, error) {
	name = strings.TrimSpace(name)
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROMOTION_NAME", "Promotion name cannot be empty")
	}
	if !promoType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROMOTION_TYPE", "Unknown promotion type")
	}
	switch promoType {
	case PromotionPercentage:
		if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, shared.NewDomainError("INVALID_PROMOTION_VALUE", "Percentage must be between 0 and 100")
		}
	case PromotionFixedPrice:
		if value.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PROMOTION_VALUE", "Fixed price cannot be negative")
		}
	}
	if len(goodIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_PROMOTION_GOODS", "Promotion needs at least one applicable good")
	}
	if dateTo.Before(dateFrom) {
		return nil, shared.NewDomainError("INVALID_PROMOTION_WINDOW", "Promotion end date precedes start date")
	}

	return &Promotion{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  name,
		Type:                  promoType,
		Value:                 value,
		GoodIDs:               goodIDs,
		DateFrom:              dateFrom,
		DateTo:                dateTo,
		Active:                true,
	}, nil
}

// AppliesAt reports whether the promotion is live at the given instant
func (p *Promotion) AppliesAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if t.Before(p.DateFrom) || t.After(p.DateTo) {
		return false
	}
	if !p.Weekdays.Contains(t.Weekday()) {
		return false
	}
	if p.TimeFrom != "" && p.TimeTo != "" {
		hhmm := t.Format("15:04")
		if hhmm < p.TimeFrom || hhmm > p.TimeTo {
			return false
		}
	}
	return true
}

// AppliesTo reports whether the promotion covers a business good
func (p *Promotion) AppliesTo(goodID uuid.UUID) bool {
	return p.GoodIDs.Contains(goodID)
}

// DiscountedPrice returns the unit price after applying the promotion rule to
// the good's normal sale price. Two-for-one halves the effective unit price.
func (p *Promotion) DiscountedPrice(salePrice decimal.Decimal) decimal.Decimal {
	switch p.Type {
	case PromotionFixedPrice:
		return p.Value
	case PromotionPercentage:
		return salePrice.Sub(salePrice.Mul(p.Value).Div(decimal.NewFromInt(100)))
	case PromotionTwoForOne:
		return salePrice.Div(decimal.NewFromInt(2))
	}
	return salePrice
}
