package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/scheduling"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScheduleService manages shifts and vacation bookings. Booking a vacation
// shift consumes one of the employee's vacation days; deleting it gives the
// day back.
type ScheduleService struct {
	shiftRepo    scheduling.ShiftRepository
	employeeRepo business.EmployeeRepository
	txManager    shared.TransactionManager
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	shiftRepo scheduling.ShiftRepository,
	employeeRepo business.EmployeeRepository,
	txManager shared.TransactionManager,
) *ScheduleService {
	return &ScheduleService{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
	}
}

func (s *ScheduleService) checkConflict(ctx context.Context, candidate *scheduling.Shift) error {
	existing, err := s.shiftRepo.FindByEmployee(ctx, candidate.BusinessID, candidate.EmployeeID, candidate.StartsAt, candidate.EndsAt)
	if err != nil {
		return err
	}
	if conflict := scheduling.FindConflict(candidate, existing); conflict != nil {
		return shared.NewDomainError("SHIFT_OVERLAP", "The employee already has a shift in that window")
	}
	return nil
}

// Create schedules a shift. Overlapping shifts of the same employee are
// rejected; vacation shifts consume a vacation day.
func (s *ScheduleService) Create(ctx context.Context, businessID uuid.UUID, req CreateShiftRequest) (*ShiftResponse, error) {
	employee, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	shift, err := scheduling.NewShift(businessID, req.EmployeeID, scheduling.ShiftKind(req.Kind), business.Role(req.Role), req.StartsAt, req.EndsAt, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, shift); err != nil {
		return nil, err
	}

	if shift.Kind == scheduling.ShiftVacation {
		if err := employee.ConsumeVacationDay(); err != nil {
			return nil, err
		}
		err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
			if err := s.shiftRepo.Save(ctx, shift); err != nil {
				return err
			}
			return s.employeeRepo.Save(ctx, employee)
		})
	} else {
		err = s.shiftRepo.Save(ctx, shift)
	}
	if err != nil {
		return nil, err
	}

	resp := ToShiftResponse(shift)
	return &resp, nil
}

// GetByID retrieves one shift of the business
func (s *ScheduleService) GetByID(ctx context.Context, businessID, shiftID uuid.UUID) (*ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByIDForBusiness(ctx, businessID, shiftID)
	if err != nil {
		return nil, err
	}
	resp := ToShiftResponse(shift)
	return &resp, nil
}

// ListByPeriod returns every shift of the business inside a time window
func (s *ScheduleService) ListByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindByPeriod(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, ToShiftResponse(shift))
	}
	return out, nil
}

// ListByEmployee returns one employee's shifts inside a time window
func (s *ScheduleService) ListByEmployee(ctx context.Context, businessID, employeeID uuid.UUID, from, to time.Time) ([]ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindByEmployee(ctx, businessID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, ToShiftResponse(shift))
	}
	return out, nil
}

// Reschedule moves a shift to a new window, re-checking for conflicts
func (s *ScheduleService) Reschedule(ctx context.Context, businessID, shiftID uuid.UUID, req RescheduleShiftRequest) (*ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByIDForBusiness(ctx, businessID, shiftID)
	if err != nil {
		return nil, err
	}
	if err := shift.Reschedule(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, shift); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	resp := ToShiftResponse(shift)
	return &resp, nil
}

// Delete removes a shift. Deleting a vacation shift returns the consumed
// vacation day to the employee.
func (s *ScheduleService) Delete(ctx context.Context, businessID, shiftID uuid.UUID) error {
	shift, err := s.shiftRepo.FindByIDForBusiness(ctx, businessID, shiftID)
	if err != nil {
		return err
	}
	if shift.Kind != scheduling.ShiftVacation {
		return s.shiftRepo.Delete(ctx, shift.ID)
	}

	employee, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, shift.EmployeeID)
	if err != nil {
		return err
	}
	if err := employee.GrantVacationDays(1); err != nil {
		return err
	}
	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.shiftRepo.Delete(ctx, shift.ID); err != nil {
			return err
		}
		return s.employeeRepo.Save(ctx, employee)
	})
}

// LabourCost sums the attributed salary cost of every shift in a period
func (s *ScheduleService) LabourCost(ctx context.Context, businessID uuid.UUID, from, to time.Time) (*LabourCostResponse, error) {
	shifts, err := s.shiftRepo.FindByPeriod(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}

	perEmployee := make(map[uuid.UUID]*EmployeeCostResponse)
	var order []uuid.UUID
	total := decimal.Zero

	for _, shift := range shifts {
		if shift.Kind != scheduling.ShiftWork {
			continue
		}
		entry, ok := perEmployee[shift.EmployeeID]
		if !ok {
			entry = &EmployeeCostResponse{
				EmployeeID: shift.EmployeeID,
				Hours:      decimal.Zero,
				Cost:       decimal.Zero,
			}
			perEmployee[shift.EmployeeID] = entry
			order = append(order, shift.EmployeeID)
		}

		employee, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, shift.EmployeeID)
		if err != nil {
			return nil, err
		}
		cost, err := shift.Cost(employee.Salary)
		if err != nil {
			return nil, err
		}
		entry.Shifts++
		entry.Hours = entry.Hours.Add(shift.Hours())
		entry.Cost = entry.Cost.Add(cost)
		total = total.Add(cost)
	}

	resp := &LabourCostResponse{From: from, To: to, TotalCost: total}
	for _, id := range order {
		resp.Employees = append(resp.Employees, *perEmployee[id])
	}
	return resp, nil
}
