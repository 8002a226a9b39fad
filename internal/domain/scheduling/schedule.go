package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShiftKind distinguishes worked shifts from booked vacation days
type ShiftKind string

const (
	ShiftWork     ShiftKind = "Work"
	ShiftVacation ShiftKind = "Vacation"
)

// IsValid checks if the shift kind is known
func (k ShiftKind) IsValid() bool {
	return k == ShiftWork || k == ShiftVacation
}

// Shift is one scheduled block for an employee. Shifts of the same employee
// must not overlap in time.
type Shift struct {
	shared.BusinessAggregateRoot
	EmployeeID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Kind       ShiftKind     `gorm:"size:20;not null;default:'Work'"`
	Role       business.Role `gorm:"size:30"`
	StartsAt   time.Time     `gorm:"not null;index"`
	EndsAt     time.Time     `gorm:"not null"`
	Note       string        `gorm:"size:300"`
}

// TableName returns the database table name
func (Shift) TableName() string {
	return "shifts"
}

// NewShift schedules a block of time for an employee
func NewShift(businessID, employeeID uuid.UUID, kind ShiftKind, role business.Role, startsAt, endsAt time.Time, note string) (*Shift, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if kind == "" {
		kind = ShiftWork
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Unknown shift kind")
	}
	if startsAt.IsZero() || endsAt.IsZero() || !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift end must be after its start")
	}

	return &Shift{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		EmployeeID:            employeeID,
		Kind:                  kind,
		Role:                  role,
		StartsAt:              startsAt,
		EndsAt:                endsAt,
		Note:                  note,
	}, nil
}

// Reschedule moves the shift to a new time window
func (s *Shift) Reschedule(startsAt, endsAt time.Time) error {
	if startsAt.IsZero() || endsAt.IsZero() || !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_SHIFT", "Shift end must be after its start")
	}
	s.StartsAt = startsAt
	s.EndsAt = endsAt
	s.Touch()
	return nil
}

// Overlaps reports whether two shifts share any time. Touching boundaries
// (one ends exactly when the other starts) do not overlap.
func (s *Shift) Overlaps(other *Shift) bool {
	return s.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(s.EndsAt)
}

// Hours is the shift length in hours
func (s *Shift) Hours() decimal.Decimal {
	return decimal.NewFromFloat(s.EndsAt.Sub(s.StartsAt).Hours())
}

// weekdaysInMonth counts Monday through Friday in the month containing t
func weekdaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	days := first.AddDate(0, 1, -1).Day()
	count := 0
	for d := 0; d < days; d++ {
		switch first.AddDate(0, 0, d).Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// Cost attributes a slice of the employee's salary to this shift. Monthly
// pay spreads over the weekdays of the shift's month, weekly pay over a
// five day week, daily pay lands whole, hourly pay follows the shift length.
func (s *Shift) Cost(salary business.SalaryStructure) (decimal.Decimal, error) {
	switch salary.Frequency {
	case business.PayMonthly:
		weekdays := weekdaysInMonth(s.StartsAt)
		if weekdays == 0 {
			return decimal.Zero, nil
		}
		return salary.Gross.Div(decimal.NewFromInt(int64(weekdays))).Round(4), nil
	case business.PayWeekly:
		return salary.Gross.Div(decimal.NewFromInt(5)).Round(4), nil
	case business.PayDaily:
		return salary.Gross, nil
	case business.PayHourly:
		return salary.Gross.Mul(s.Hours()).Round(4), nil
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_SALARY", "Employee has no pay frequency set")
	}
}

// FindConflict returns the first existing shift of the same employee that
// overlaps the candidate, or nil when the schedule is clear.
func FindConflict(candidate *Shift, existing []*Shift) *Shift {
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if other.EmployeeID != candidate.EmployeeID {
			continue
		}
		if candidate.Overlaps(other) {
			return other
		}
	}
	return nil
}
