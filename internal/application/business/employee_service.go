package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
)

// EmployeeService handles employee accounts inside a business
type EmployeeService struct {
	employeeRepo business.EmployeeRepository
	businessRepo business.BusinessRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo business.EmployeeRepository, businessRepo business.BusinessRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		businessRepo: businessRepo,
	}
}

// Create hires an employee into the business
func (s *EmployeeService) Create(ctx context.Context, businessID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	if _, err := s.businessRepo.FindByID(ctx, businessID); err != nil {
		return nil, err
	}
	exists, err := s.employeeRepo.ExistsWithIdentity(ctx, businessID, req.Username, req.Email, req.TaxNumber, req.IDNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_EMPLOYEE", "An employee with this username, email, tax number or ID number already exists")
	}

	roles := make(business.Roles, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, business.Role(r))
	}
	emp, err := business.NewEmployee(businessID, req.Username, req.Email, req.Password, roles)
	if err != nil {
		return nil, err
	}
	emp.TaxNumber = req.TaxNumber
	emp.IDNumber = req.IDNumber

	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// GetByID retrieves an employee of the business
func (s *EmployeeService) GetByID(ctx context.Context, businessID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// List retrieves the business's employees with pagination
func (s *EmployeeService) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (*shared.Paginated[EmployeeResponse], error) {
	items, err := s.employeeRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.employeeRepo.CountForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]EmployeeResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToEmployeeResponse(&items[i]))
	}
	out := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &out, nil
}

// Update changes mutable employee fields
func (s *EmployeeService) Update(ctx context.Context, businessID, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		exists, err := s.employeeRepo.ExistsWithIdentity(ctx, businessID, "", *req.Email, "", "", employeeID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_EMPLOYEE", "Another employee already uses this email")
		}
		emp.Email = *req.Email
	}
	if len(req.Roles) > 0 {
		roles := make(business.Roles, 0, len(req.Roles))
		for _, r := range req.Roles {
			role := business.Role(r)
			if !role.IsValid() {
				return nil, shared.NewDomainError("INVALID_ROLES", "Unknown role "+r)
			}
			roles = append(roles, role)
		}
		emp.Roles = roles
	}
	emp.Touch()
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// SetSalary sets the employee's pay terms
func (s *EmployeeService) SetSalary(ctx context.Context, businessID, employeeID uuid.UUID, req SetSalaryRequest) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := emp.SetSalary(business.PayFrequency(req.Frequency), req.Gross, req.Net); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// GrantVacation adds days to the employee's vacation balance
func (s *EmployeeService) GrantVacation(ctx context.Context, businessID, employeeID uuid.UUID, req GrantVacationRequest) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := emp.GrantVacationDays(req.Days); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// ClockIn marks an employee on duty
func (s *EmployeeService) ClockIn(ctx context.Context, businessID, employeeID uuid.UUID) error {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return err
	}
	emp.ClockIn()
	return s.employeeRepo.Save(ctx, emp)
}

// ClockOut marks an employee off duty
func (s *EmployeeService) ClockOut(ctx context.Context, businessID, employeeID uuid.UUID) error {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return err
	}
	emp.ClockOut()
	return s.employeeRepo.Save(ctx, emp)
}

// Deactivate disables the employee account. The last active owner of a
// business cannot be deactivated.
func (s *EmployeeService) Deactivate(ctx context.Context, businessID, employeeID uuid.UUID) error {
	emp, err := s.employeeRepo.FindByIDForBusiness(ctx, businessID, employeeID)
	if err != nil {
		return err
	}
	if emp.Roles.Contains(business.RoleOwner) {
		owners, err := s.countActiveOwners(ctx, businessID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return shared.NewDomainError("LAST_OWNER", "The last active owner cannot be deactivated")
		}
	}
	emp.Deactivate()
	return s.employeeRepo.Save(ctx, emp)
}

func (s *EmployeeService) countActiveOwners(ctx context.Context, businessID uuid.UUID) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	employees, err := s.employeeRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range employees {
		if employees[i].Active && employees[i].Roles.Contains(business.RoleOwner) {
			count++
		}
	}
	return count, nil
}
