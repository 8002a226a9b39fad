package handler

import (
	businessapp "github.com/pos/backend/internal/application/business"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *businessapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *businessapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create adds a new employee to the business
func (h *EmployeeHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req businessapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetByID returns a single employee
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), businessID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// List returns a paginated list of the business's employees
func (h *EmployeeHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employees, err := h.employeeService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, employees.Items, employees.Total, employees.Page, employees.PageSize)
}

// Update changes an employee's details
func (h *EmployeeHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req businessapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), businessID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// SetSalary sets an employee's salary terms
func (h *EmployeeHandler) SetSalary(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req businessapp.SetSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.SetSalary(c.Request.Context(), businessID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// GrantVacation credits vacation days to an employee
func (h *EmployeeHandler) GrantVacation(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req businessapp.GrantVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.GrantVacation(c.Request.Context(), businessID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// ClockIn records the start of the authenticated employee's work session
func (h *EmployeeHandler) ClockIn(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := getEmployeeID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.ClockIn(c.Request.Context(), businessID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ClockOut records the end of the authenticated employee's work session
func (h *EmployeeHandler) ClockOut(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := getEmployeeID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.ClockOut(c.Request.Context(), businessID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate disables an employee's account
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	if err := h.employeeService.Deactivate(c.Request.Context(), businessID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
