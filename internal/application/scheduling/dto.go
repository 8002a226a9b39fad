package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/scheduling"
	"github.com/shopspring/decimal"
)

// CreateShiftRequest schedules a block of time for an employee
type CreateShiftRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Kind       string    `json:"kind" binding:"omitempty,oneof=Work Vacation"`
	Role       string    `json:"role" binding:"omitempty,oneof=owner manager waiter cook bar cashier"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Note       string    `json:"note" binding:"max=300"`
}

// RescheduleShiftRequest moves a shift to a new window
type RescheduleShiftRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// ShiftResponse is the API shape of one scheduled shift
type ShiftResponse struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Kind       string    `json:"kind"`
	Role       string    `json:"role,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Note       string    `json:"note,omitempty"`
}

// ToShiftResponse maps the aggregate to its API shape
func ToShiftResponse(s *scheduling.Shift) ShiftResponse {
	return ShiftResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Kind:       string(s.Kind),
		Role:       string(s.Role),
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
		Note:       s.Note,
	}
}

// EmployeeCostResponse is one employee's slice of the labour cost summary
type EmployeeCostResponse struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Shifts     int             `json:"shifts"`
	Hours      decimal.Decimal `json:"hours"`
	Cost       decimal.Decimal `json:"cost"`
}

// LabourCostResponse summarizes scheduled labour cost over a period
type LabourCostResponse struct {
	From      time.Time              `json:"from"`
	To        time.Time              `json:"to"`
	TotalCost decimal.Decimal        `json:"total_cost"`
	Employees []EmployeeCostResponse `json:"employees"`
}
