package handler

import (
	schedulingapp "github.com/pos/backend/internal/application/scheduling"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles shift scheduling endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *schedulingapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *schedulingapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Create books a new shift
func (h *ScheduleHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req schedulingapp.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shift, err := h.scheduleService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, shift)
}

// GetByID returns a single shift
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	shiftID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shift ID format")
		return
	}

	shift, err := h.scheduleService.GetByID(c.Request.Context(), businessID, shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shift)
}

// ListByPeriod returns the shifts overlapping a period
func (h *ScheduleHandler) ListByPeriod(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shifts, err := h.scheduleService.ListByPeriod(c.Request.Context(), businessID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shifts)
}

// ListByEmployee returns one employee's shifts overlapping a period
func (h *ScheduleHandler) ListByEmployee(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	employeeID, err := parseIDParam(c, "employee_id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shifts, err := h.scheduleService.ListByEmployee(c.Request.Context(), businessID, employeeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shifts)
}

// Reschedule moves a shift to a new time window
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	shiftID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shift ID format")
		return
	}

	var req schedulingapp.RescheduleShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shift, err := h.scheduleService.Reschedule(c.Request.Context(), businessID, shiftID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shift)
}

// Delete cancels a shift
func (h *ScheduleHandler) Delete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	shiftID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shift ID format")
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), businessID, shiftID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LabourCost estimates the cost of the shifts inside a period
func (h *ScheduleHandler) LabourCost(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cost, err := h.scheduleService.LabourCost(c.Request.Context(), businessID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cost)
}
