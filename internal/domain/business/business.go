package business

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SubscriptionTier drives the POS commission percentage applied to daily sales
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "Free"
	TierBasic      SubscriptionTier = "Basic"
	TierPremium    SubscriptionTier = "Premium"
	TierEnterprise SubscriptionTier = "Enterprise"
)

// IsValid checks if the tier is a known subscription tier
func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierBasic, TierPremium, TierEnterprise:
		return true
	}
	return false
}

// CommissionRate returns the commission percentage for the tier
func (t SubscriptionTier) CommissionRate() decimal.Decimal {
	switch t {
	case TierBasic:
		return decimal.NewFromInt(5)
	case TierPremium:
		return decimal.NewFromInt(8)
	case TierEnterprise:
		return decimal.NewFromInt(10)
	default:
		return decimal.Zero
	}
}

// SalesLocationType categorizes a named sales location inside a business
type SalesLocationType string

const (
	LocationTable     SalesLocationType = "table"
	LocationCounter   SalesLocationType = "counter"
	LocationDelivery  SalesLocationType = "delivery"
	LocationSelfOrder SalesLocationType = "self-order"
)

// IsValid checks if the location type is known
func (t SalesLocationType) IsValid() bool {
	switch t {
	case LocationTable, LocationCounter, LocationDelivery, LocationSelfOrder:
		return true
	}
	return false
}

// SalesLocation is a named physical or virtual sales point belonging to a
// business. The QR code image lives in blob storage; only its URL is kept here.
type SalesLocation struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	BusinessID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ReferenceName string            `gorm:"size:100;not null"`
	Type          SalesLocationType `gorm:"size:20;not null"`
	SelfOrdering  bool              `gorm:"not null;default:false"`
	QRCodeURL     string            `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the database table name
func (SalesLocation) TableName() string {
	return "sales_locations"
}

// Address holds the business postal address
type Address struct {
	Country    string `gorm:"size:100" json:"country"`
	City       string `gorm:"size:100" json:"city"`
	Street     string `gorm:"size:200" json:"street"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
}

// Business is the top-level tenant aggregate. Legal name, email and tax number
// are unique across all businesses.
type Business struct {
	shared.BaseAggregateRoot
	TradeName      string           `gorm:"size:200;not null"`
	LegalName      string           `gorm:"size:200;not null;uniqueIndex"`
	Email          string           `gorm:"size:200;not null;uniqueIndex"`
	Phone          string           `gorm:"size:50"`
	TaxNumber      string           `gorm:"size:50;not null;uniqueIndex"`
	Address        Address          `gorm:"embedded;embeddedPrefix:address_"`
	Subscription   SubscriptionTier `gorm:"size:20;not null;default:'Free'"`
	Active         bool             `gorm:"not null;default:true"`
	SalesLocations []SalesLocation  `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name
func (Business) TableName() string {
	return "businesses"
}

// NewBusiness creates a new business tenant
func NewBusiness(tradeName, legalName, email, taxNumber string, subscription SubscriptionTier) (*Business, error) {
	tradeName = strings.TrimSpace(tradeName)
	legalName = strings.TrimSpace(legalName)
	email = strings.TrimSpace(strings.ToLower(email))
	taxNumber = strings.TrimSpace(taxNumber)

	if legalName == "" {
		return nil, shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if taxNumber == "" {
		return nil, shared.NewDomainError("INVALID_TAX_NUMBER", "Tax number cannot be empty")
	}
	if subscription == "" {
		subscription = TierFree
	}
	if !subscription.IsValid() {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Unknown subscription tier")
	}
	if tradeName == "" {
		tradeName = legalName
	}

	return &Business{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TradeName:         tradeName,
		LegalName:         legalName,
		Email:             email,
		TaxNumber:         taxNumber,
		Subscription:      subscription,
		Active:            true,
	}, nil
}

// ChangeSubscription switches the business to another tier
func (b *Business) ChangeSubscription(tier SubscriptionTier) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_SUBSCRIPTION", "Unknown subscription tier")
	}
	b.Subscription = tier
	b.Touch()
	return nil
}

// AddSalesLocation appends a named sales location. Reference names must be
// unique within the business.
func (b *Business) AddSalesLocation(referenceName string, locType SalesLocationType, selfOrdering bool) (*SalesLocation, error) {
	referenceName = strings.TrimSpace(referenceName)
	if referenceName == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_NAME", "Sales location reference name cannot be empty")
	}
	if !locType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Unknown sales location type")
	}
	for _, loc := range b.SalesLocations {
		if strings.EqualFold(loc.ReferenceName, referenceName) {
			return nil, shared.NewDomainError("DUPLICATE_LOCATION", "A sales location with this name already exists")
		}
	}

	now := time.Now()
	loc := SalesLocation{
		ID:            uuid.New(),
		BusinessID:    b.ID,
		ReferenceName: referenceName,
		Type:          locType,
		SelfOrdering:  selfOrdering,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.SalesLocations = append(b.SalesLocations, loc)
	b.Touch()
	return &b.SalesLocations[len(b.SalesLocations)-1], nil
}

// SetLocationQRCode records the blob-storage URL of a location's QR code image
func (b *Business) SetLocationQRCode(locationID uuid.UUID, url string) error {
	for i := range b.SalesLocations {
		if b.SalesLocations[i].ID == locationID {
			b.SalesLocations[i].QRCodeURL = url
			b.SalesLocations[i].UpdatedAt = time.Now()
			b.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveSalesLocation deletes a sales location by ID
func (b *Business) RemoveSalesLocation(locationID uuid.UUID) error {
	for i := range b.SalesLocations {
		if b.SalesLocations[i].ID == locationID {
			b.SalesLocations = append(b.SalesLocations[:i], b.SalesLocations[i+1:]...)
			b.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindSalesLocation returns a sales location by ID
func (b *Business) FindSalesLocation(locationID uuid.UUID) (*SalesLocation, error) {
	for i := range b.SalesLocations {
		if b.SalesLocations[i].ID == locationID {
			return &b.SalesLocations[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// Deactivate marks the business inactive without deleting its records
func (b *Business) Deactivate() {
	b.Active = false
	b.Touch()
}
