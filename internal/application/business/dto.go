package business

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/shopspring/decimal"
)

// CreateBusinessRequest registers a new business together with its owner
type CreateBusinessRequest struct {
	TradeName    string            `json:"trade_name" binding:"max=200"`
	LegalName    string            `json:"legal_name" binding:"required,min=2,max=200"`
	Email        string            `json:"email" binding:"required,email"`
	TaxNumber    string            `json:"tax_number" binding:"required,max=50"`
	Phone        string            `json:"phone" binding:"max=50"`
	Subscription string            `json:"subscription" binding:"omitempty,oneof=Free Basic Premium Enterprise"`
	Address      AddressRequest    `json:"address"`
	Owner        CreateOwnerDetail `json:"owner" binding:"required"`
}

// AddressRequest is the address shape shared by requests
type AddressRequest struct {
	Country    string `json:"country" binding:"max=100"`
	City       string `json:"city" binding:"max=100"`
	Street     string `json:"street" binding:"max=200"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

// CreateOwnerDetail is the owner account created along with the business
type CreateOwnerDetail struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateBusinessRequest changes mutable business fields
type UpdateBusinessRequest struct {
	TradeName *string         `json:"trade_name" binding:"omitempty,min=2,max=200"`
	Phone     *string         `json:"phone" binding:"omitempty,max=50"`
	Address   *AddressRequest `json:"address"`
}

// ChangeSubscriptionRequest moves a business to another tier
type ChangeSubscriptionRequest struct {
	Tier string `json:"tier" binding:"required,oneof=Free Basic Premium Enterprise"`
}

// AddSalesLocationRequest adds a table, counter or delivery slot
type AddSalesLocationRequest struct {
	ReferenceName string `json:"reference_name" binding:"required,min=1,max=100"`
	Type          string `json:"type" binding:"required,oneof=table counter delivery self-order"`
	SelfOrdering  bool   `json:"self_ordering"`
}

// BusinessResponse is the API shape of a business
type BusinessResponse struct {
	ID             uuid.UUID               `json:"id"`
	TradeName      string                  `json:"trade_name"`
	LegalName      string                  `json:"legal_name"`
	Email          string                  `json:"email"`
	TaxNumber      string                  `json:"tax_number"`
	Phone          string                  `json:"phone"`
	Subscription   string                  `json:"subscription"`
	CommissionRate decimal.Decimal         `json:"commission_rate"`
	Active         bool                    `json:"active"`
	Address        AddressRequest          `json:"address"`
	SalesLocations []SalesLocationResponse `json:"sales_locations"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// SalesLocationResponse is the API shape of a sales location
type SalesLocationResponse struct {
	ID            uuid.UUID `json:"id"`
	ReferenceName string    `json:"reference_name"`
	Type          string    `json:"type"`
	SelfOrdering  bool      `json:"self_ordering"`
	QRCodeURL     string    `json:"qr_code_url,omitempty"`
}

// ToBusinessResponse maps the aggregate to its API shape
func ToBusinessResponse(b *business.Business) BusinessResponse {
	resp := BusinessResponse{
		ID:             b.ID,
		TradeName:      b.TradeName,
		LegalName:      b.LegalName,
		Email:          b.Email,
		TaxNumber:      b.TaxNumber,
		Phone:          b.Phone,
		Subscription:   string(b.Subscription),
		CommissionRate: b.Subscription.CommissionRate(),
		Active:         b.Active,
		Address: AddressRequest{
			Country:    b.Address.Country,
			City:       b.Address.City,
			Street:     b.Address.Street,
			PostalCode: b.Address.PostalCode,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	for _, loc := range b.SalesLocations {
		resp.SalesLocations = append(resp.SalesLocations, SalesLocationResponse{
			ID:            loc.ID,
			ReferenceName: loc.ReferenceName,
			Type:          string(loc.Type),
			SelfOrdering:  loc.SelfOrdering,
			QRCodeURL:     loc.QRCodeURL,
		})
	}
	return resp
}

// CreateEmployeeRequest hires an employee into a business
type CreateEmployeeRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	TaxNumber string   `json:"tax_number" binding:"max=50"`
	IDNumber  string   `json:"id_number" binding:"max=50"`
	Roles     []string `json:"roles" binding:"required,min=1"`
}

// UpdateEmployeeRequest changes mutable employee fields
type UpdateEmployeeRequest struct {
	Email *string  `json:"email" binding:"omitempty,email"`
	Roles []string `json:"roles" binding:"omitempty,min=1"`
}

// SetSalaryRequest sets an employee's pay terms
type SetSalaryRequest struct {
	Frequency string          `json:"frequency" binding:"required,oneof=Monthly Weekly Daily Hourly"`
	Gross     decimal.Decimal `json:"gross" binding:"required"`
	Net       decimal.Decimal `json:"net"`
}

// GrantVacationRequest adds vacation days to an employee's balance
type GrantVacationRequest struct {
	Days int `json:"days" binding:"required,min=1"`
}

// EmployeeResponse is the API shape of an employee
type EmployeeResponse struct {
	ID              uuid.UUID       `json:"id"`
	BusinessID      uuid.UUID       `json:"business_id"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	Roles           []string        `json:"roles"`
	Active          bool            `json:"active"`
	OnDuty          bool            `json:"on_duty"`
	SalaryFrequency string          `json:"salary_frequency,omitempty"`
	SalaryGross     decimal.Decimal `json:"salary_gross"`
	VacationDays    int             `json:"vacation_days"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToEmployeeResponse maps the aggregate to its API shape
func ToEmployeeResponse(e *business.Employee) EmployeeResponse {
	roles := make([]string, 0, len(e.Roles))
	for _, r := range e.Roles {
		roles = append(roles, string(r))
	}
	return EmployeeResponse{
		ID:              e.ID,
		BusinessID:      e.BusinessID,
		Username:        e.Username,
		Email:           e.Email,
		Roles:           roles,
		Active:          e.Active,
		OnDuty:          e.OnDuty,
		SalaryFrequency: string(e.Salary.Frequency),
		SalaryGross:     e.Salary.Gross,
		VacationDays:    e.VacationDays,
		CreatedAt:       e.CreatedAt,
	}
}

// LoginRequest authenticates an employee
type LoginRequest struct {
	BusinessID uuid.UUID `json:"business_id" binding:"required"`
	Username   string    `json:"username" binding:"required"`
	Password   string    `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the employee it belongs to
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee EmployeeResponse `json:"employee"`
}
