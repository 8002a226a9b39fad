package handler

import (
	"time"

	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles inventory and purchase endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Get returns the business's inventory with all tracked items
func (h *InventoryHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	inv, err := h.inventoryService.Get(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// RecordManualCount overwrites tracked quantities with a physical count
func (h *InventoryHandler) RecordManualCount(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req inventoryapp.ManualCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.inventoryService.RecordManualCount(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// RecordPurchase books a delivery and updates tracked stock
func (h *InventoryHandler) RecordPurchase(c *gin.Context) {
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

	var req inventoryapp.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.inventoryService.RecordPurchase(c.Request.Context(), businessID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, purchase)
}

// GetPurchase returns a single purchase with its lines
func (h *InventoryHandler) GetPurchase(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	purchaseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	purchase, err := h.inventoryService.GetPurchase(c.Request.Context(), businessID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// ListPurchases returns purchases booked inside a period
func (h *InventoryHandler) ListPurchases(c *gin.Context) {
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

	purchases, err := h.inventoryService.ListPurchases(c.Request.Context(), businessID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchases)
}

// ListPurchasesBySupplier returns purchases from one supplier,
// newest first
func (h *InventoryHandler) ListPurchasesBySupplier(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "supplier_id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	purchases, err := h.inventoryService.ListPurchasesBySupplier(c.Request.Context(), businessID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchases)
}

// parsePeriod reads the from/to query parameters. Missing bounds default
// to the last 30 days ending now.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = parseTimeParam(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = parseTimeParam(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

// parseTimeParam accepts RFC3339 timestamps and plain dates
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
