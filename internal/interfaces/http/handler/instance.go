package handler

import (
	"strconv"

	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// defaultAbandonedMinutes is how long an empty open instance may sit
// before a cleanup run closes it, unless configured otherwise
const defaultAbandonedMinutes = 120

// InstanceHandler handles sales instance endpoints
type InstanceHandler struct {
	BaseHandler
	instanceService  *salesapp.InstanceService
	abandonedMinutes int
}

// NewInstanceHandler creates a new InstanceHandler
func NewInstanceHandler(instanceService *salesapp.InstanceService, abandonedMinutes int) *InstanceHandler {
	if abandonedMinutes <= 0 {
		abandonedMinutes = defaultAbandonedMinutes
	}
	return &InstanceHandler{
		instanceService:  instanceService,
		abandonedMinutes: abandonedMinutes,
	}
}

// Open starts a new sales instance at a location
func (h *InstanceHandler) Open(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	userID, err := getEmployeeID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid employee ID")
		return
	}

	var req salesapp.OpenInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instance, err := h.instanceService.Open(c.Request.Context(), businessID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, instance)
}

// GetByID returns a single sales instance with its groups
func (h *InstanceHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid instance ID format")
		return
	}

	instance, err := h.instanceService.GetByID(c.Request.Context(), businessID, instanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instance)
}

// ListOpen returns all instances not yet closed
func (h *InstanceHandler) ListOpen(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	instances, err := h.instanceService.ListOpen(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instances)
}

// ChangeResponsible hands the instance over to another employee
func (h *InstanceHandler) ChangeResponsible(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid instance ID format")
		return
	}

	var req salesapp.ChangeResponsibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instance, err := h.instanceService.ChangeResponsible(c.Request.Context(), businessID, instanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instance)
}

// TransferGroup moves a guest group and its orders to another instance
func (h *InstanceHandler) TransferGroup(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	sourceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid instance ID format")
		return
	}

	var req salesapp.TransferGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.instanceService.TransferGroup(c.Request.Context(), businessID, sourceID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Close settles and closes a sales instance
func (h *InstanceHandler) Close(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	closedBy, err := getEmployeeID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid employee ID")
		return
	}

	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid instance ID format")
		return
	}

	instance, err := h.instanceService.Close(c.Request.Context(), businessID, instanceID, closedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instance)
}

// CloseAbandoned closes open instances that have no orders and have not
// been touched for the given number of minutes
func (h *InstanceHandler) CloseAbandoned(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	closedBy, err := getEmployeeID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid employee ID")
		return
	}

	olderThanMinutes := h.abandonedMinutes
	if raw := c.Query("older_than_minutes"); raw != "" {
		olderThanMinutes, err = strconv.Atoi(raw)
		if err != nil || olderThanMinutes <= 0 {
			h.BadRequest(c, "Invalid older_than_minutes value")
			return
		}
	}

	closed, err := h.instanceService.CloseAbandoned(c.Request.Context(), businessID, closedBy, olderThanMinutes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"closed": closed})
}
