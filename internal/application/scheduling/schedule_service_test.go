package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/scheduling"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubShiftRepo keeps shifts in memory
type stubShiftRepo struct {
	scheduling.ShiftRepository
	shifts map[uuid.UUID]*scheduling.Shift
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[uuid.UUID]*scheduling.Shift)}
}

func (s *stubShiftRepo) FindByIDForBusiness(_ context.Context, businessID, id uuid.UUID) (*scheduling.Shift, error) {
	if shift, ok := s.shifts[id]; ok && shift.BusinessID == businessID {
		return shift, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubShiftRepo) FindByEmployee(_ context.Context, businessID, employeeID uuid.UUID, from, to time.Time) ([]*scheduling.Shift, error) {
	var out []*scheduling.Shift
	for _, shift := range s.shifts {
		if shift.BusinessID == businessID && shift.EmployeeID == employeeID && shift.StartsAt.Before(to) && from.Before(shift.EndsAt) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (s *stubShiftRepo) FindByPeriod(_ context.Context, businessID uuid.UUID, from, to time.Time) ([]*scheduling.Shift, error) {
	var out []*scheduling.Shift
	for _, shift := range s.shifts {
		if shift.BusinessID == businessID && shift.StartsAt.Before(to) && from.Before(shift.EndsAt) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (s *stubShiftRepo) Save(_ context.Context, shift *scheduling.Shift) error {
	s.shifts[shift.ID] = shift
	return nil
}

func (s *stubShiftRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.shifts, id)
	return nil
}

// stubEmployeeRepo serves one employee
type stubEmployeeRepo struct {
	business.EmployeeRepository
	employee *business.Employee
	saves    int
}

func (s *stubEmployeeRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*business.Employee, error) {
	if s.employee != nil && s.employee.ID == id {
		return s.employee, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubEmployeeRepo) Save(_ context.Context, e *business.Employee) error {
	s.employee = e
	s.saves++
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type scheduleFixture struct {
	service      *ScheduleService
	shiftRepo    *stubShiftRepo
	employeeRepo *stubEmployeeRepo
	businessID   uuid.UUID
	employeeID   uuid.UUID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	businessID := uuid.New()
	employee, err := business.NewEmployee(businessID, "alice", "alice@example.com", "secret-pass", business.Roles{business.RoleWaiter})
	require.NoError(t, err)
	require.NoError(t, employee.GrantVacationDays(5))

	shiftRepo := newStubShiftRepo()
	employeeRepo := &stubEmployeeRepo{employee: employee}
	service := NewScheduleService(shiftRepo, employeeRepo, passthroughTxManager{})

	return &scheduleFixture{
		service:      service,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		businessID:   businessID,
		employeeID:   employee.ID,
	}
}

func day(hour int) time.Time {
	return time.Date(2026, 1, 15, hour, 0, 0, 0, time.UTC)
}

func TestScheduleServiceCreate(t *testing.T) {
	t.Run("should store a clear shift", func(t *testing.T) {
		f := newScheduleFixture(t)

		resp, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID,
			Kind:       "Work",
			Role:       "waiter",
			StartsAt:   day(9),
			EndsAt:     day(17),
		})

		require.NoError(t, err)
		assert.Equal(t, "Work", resp.Kind)
		assert.Len(t, f.shiftRepo.shifts, 1)
	})

	t.Run("should reject an overlapping shift", func(t *testing.T) {
		f := newScheduleFixture(t)
		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(9), EndsAt: day(17),
		})
		require.NoError(t, err)

		_, err = f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(16), EndsAt: day(20),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SHIFT_OVERLAP", domainErr.Code)
		assert.Len(t, f.shiftRepo.shifts, 1)
	})

	t.Run("back to back shifts should not conflict", func(t *testing.T) {
		f := newScheduleFixture(t)
		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(9), EndsAt: day(17),
		})
		require.NoError(t, err)

		_, err = f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(17), EndsAt: day(22),
		})

		require.NoError(t, err)
		assert.Len(t, f.shiftRepo.shifts, 2)
	})

	t.Run("a vacation shift should consume a vacation day", func(t *testing.T) {
		f := newScheduleFixture(t)

		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID,
			Kind:       "Vacation",
			StartsAt:   day(0),
			EndsAt:     day(23),
		})

		require.NoError(t, err)
		assert.Equal(t, 4, f.employeeRepo.employee.VacationDays)
	})

	t.Run("an exhausted vacation balance should block the booking", func(t *testing.T) {
		f := newScheduleFixture(t)
		for f.employeeRepo.employee.VacationDays > 0 {
			require.NoError(t, f.employeeRepo.employee.ConsumeVacationDay())
		}

		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID,
			Kind:       "Vacation",
			StartsAt:   day(0),
			EndsAt:     day(23),
		})

		assert.Error(t, err)
		assert.Empty(t, f.shiftRepo.shifts)
	})
}

func TestScheduleServiceReschedule(t *testing.T) {
	t.Run("should move a shift when the new window is clear", func(t *testing.T) {
		f := newScheduleFixture(t)
		created, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(9), EndsAt: day(17),
		})
		require.NoError(t, err)

		resp, err := f.service.Reschedule(context.Background(), f.businessID, created.ID, RescheduleShiftRequest{
			StartsAt: day(10), EndsAt: day(18),
		})

		require.NoError(t, err)
		assert.Equal(t, day(10), resp.StartsAt)
	})

	t.Run("should reject a move onto another shift", func(t *testing.T) {
		f := newScheduleFixture(t)
		created, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(9), EndsAt: day(12),
		})
		require.NoError(t, err)
		_, err = f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(14), EndsAt: day(18),
		})
		require.NoError(t, err)

		_, err = f.service.Reschedule(context.Background(), f.businessID, created.ID, RescheduleShiftRequest{
			StartsAt: day(13), EndsAt: day(16),
		})

		assert.Error(t, err)
	})
}

func TestScheduleServiceDelete(t *testing.T) {
	t.Run("deleting a vacation shift should give the day back", func(t *testing.T) {
		f := newScheduleFixture(t)
		created, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID,
			Kind:       "Vacation",
			StartsAt:   day(0),
			EndsAt:     day(23),
		})
		require.NoError(t, err)
		require.Equal(t, 4, f.employeeRepo.employee.VacationDays)

		require.NoError(t, f.service.Delete(context.Background(), f.businessID, created.ID))

		assert.Equal(t, 5, f.employeeRepo.employee.VacationDays)
		assert.Empty(t, f.shiftRepo.shifts)
	})
}

func TestScheduleServiceLabourCost(t *testing.T) {
	t.Run("should attribute salary cost per shift", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.employeeRepo.employee.SetSalary(business.PayHourly, decimal.NewFromInt(15), decimal.NewFromInt(12)))

		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(9), EndsAt: day(17),
		})
		require.NoError(t, err)
		_, err = f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID, StartsAt: day(18), EndsAt: day(22),
		})
		require.NoError(t, err)

		resp, err := f.service.LabourCost(context.Background(), f.businessID, day(0), day(23))

		require.NoError(t, err)
		// 8h plus 4h at 15 per hour
		assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(180)))
		require.Len(t, resp.Employees, 1)
		assert.Equal(t, 2, resp.Employees[0].Shifts)
		assert.True(t, resp.Employees[0].Hours.Equal(decimal.NewFromInt(12)))
	})

	t.Run("vacation shifts should not cost anything", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.employeeRepo.employee.SetSalary(business.PayDaily, decimal.NewFromInt(120), decimal.NewFromInt(100)))

		_, err := f.service.Create(context.Background(), f.businessID, CreateShiftRequest{
			EmployeeID: f.employeeID,
			Kind:       "Vacation",
			StartsAt:   day(0),
			EndsAt:     day(23),
		})
		require.NoError(t, err)

		resp, err := f.service.LabourCost(context.Background(), f.businessID, day(0), day(23))

		require.NoError(t, err)
		assert.True(t, resp.TotalCost.IsZero())
		assert.Empty(t, resp.Employees)
	})
}
