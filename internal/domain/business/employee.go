package business

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Role is an employee role within a business
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleWaiter  Role = "waiter"
	RoleCook    Role = "cook"
	RoleBar     Role = "bar"
	RoleCashier Role = "cashier"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleWaiter, RoleCook, RoleBar, RoleCashier:
		return true
	}
	return false
}

// PayFrequency is how often an employee's salary is granted
type PayFrequency string

const (
	PayMonthly PayFrequency = "Monthly"
	PayWeekly  PayFrequency = "Weekly"
	PayDaily   PayFrequency = "Daily"
	PayHourly  PayFrequency = "Hourly"
)

// IsValid checks if the frequency is known
func (f PayFrequency) IsValid() bool {
	switch f {
	case PayMonthly, PayWeekly, PayDaily, PayHourly:
		return true
	}
	return false
}

// SalaryStructure holds the employee's pay terms
type SalaryStructure struct {
	Frequency PayFrequency    `gorm:"column:salary_frequency;size:20" json:"frequency"`
	Gross     decimal.Decimal `gorm:"column:salary_gross;type:decimal(20,4)" json:"gross"`
	Net       decimal.Decimal `gorm:"column:salary_net;type:decimal(20,4)" json:"net"`
}

// Roles is a list of employee roles stored as a JSON column
type Roles []Role

// Contains reports whether the list includes the role
func (rs Roles) Contains(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Employee belongs to exactly one business. Username, email, tax number and ID
// number are unique within the business.
type Employee struct {
	shared.BusinessAggregateRoot
	Username     string          `gorm:"size:100;not null;index:idx_employees_username,unique,composite:business_id"`
	Email        string          `gorm:"size:200;not null;index:idx_employees_email,unique,composite:business_id"`
	TaxNumber    string          `gorm:"size:50;index:idx_employees_tax,unique,composite:business_id"`
	IDNumber     string          `gorm:"size:50;index:idx_employees_idnum,unique,composite:business_id"`
	PasswordHash string          `gorm:"size:100;not null" json:"-"`
	Roles        Roles           `gorm:"type:jsonb;serializer:json"`
	Salary       SalaryStructure `gorm:"embedded"`
	VacationDays int             `gorm:"not null;default:0"`
	Active       bool            `gorm:"not null;default:true"`
	OnDuty       bool            `gorm:"not null;default:false"`
}

// TableName returns the database table name
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a new employee under a business
func NewEmployee(businessID uuid.UUID, username, email, password string, roles Roles) (*Employee, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(roles) == 0 {
		return nil, shared.NewDomainError("INVALID_ROLES", "Employee needs at least one role")
	}
	for _, r := range roles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLES", "Unknown role "+string(r))
		}
	}

	emp := &Employee{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Username:              username,
		Email:                 email,
		Roles:                 roles,
		Active:                true,
	}
	if err := emp.SetPassword(password); err != nil {
		return nil, err
	}
	return emp, nil
}

// SetPassword hashes and stores a new password
func (e *Employee) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(hash)
	e.Touch()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}

// SetSalary updates the salary structure
func (e *Employee) SetSalary(frequency PayFrequency, gross, net decimal.Decimal) error {
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_PAY_FREQUENCY", "Unknown pay frequency")
	}
	if gross.IsNegative() || net.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary amounts cannot be negative")
	}
	e.Salary = SalaryStructure{Frequency: frequency, Gross: gross, Net: net}
	e.Touch()
	return nil
}

// GrantVacationDays adds to the remaining vacation balance
func (e *Employee) GrantVacationDays(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_VACATION_DAYS", "Granted vacation days must be positive")
	}
	e.VacationDays += days
	e.Touch()
	return nil
}

// ConsumeVacationDay decrements the remaining vacation balance by one
func (e *Employee) ConsumeVacationDay() error {
	if e.VacationDays <= 0 {
		return shared.NewDomainError("NO_VACATION_DAYS", "Employee has no remaining vacation days")
	}
	e.VacationDays--
	e.Touch()
	return nil
}

// ClockIn marks the employee on duty
func (e *Employee) ClockIn() {
	e.OnDuty = true
	e.Touch()
}

// ClockOut marks the employee off duty
func (e *Employee) ClockOut() {
	e.OnDuty = false
	e.Touch()
}

// Deactivate disables the employee account
func (e *Employee) Deactivate() {
	e.Active = false
	e.OnDuty = false
	e.Touch()
}
