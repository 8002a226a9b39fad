package handler

import (
	catalogapp "github.com/pos/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier and supplier good endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *catalogapp.SupplierService
	goodService     *catalogapp.GoodService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *catalogapp.SupplierService, goodService *catalogapp.GoodService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		goodService:     goodService,
	}
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req catalogapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID returns a single supplier
func (h *SupplierHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), businessID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List returns the business's suppliers
func (h *SupplierHandler) List(c *gin.Context) {
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

	suppliers, err := h.supplierService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suppliers)
}

// Update changes a supplier's details
func (h *SupplierHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req catalogapp.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), businessID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), businessID, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// EnsureOneTime returns the business's one-time purchase supplier,
// creating it on first use
func (h *SupplierHandler) EnsureOneTime(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplier, err := h.supplierService.EnsureOneTime(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// AddGood registers a good offered by the supplier
func (h *SupplierHandler) AddGood(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req catalogapp.CreateSupplierGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.supplierService.AddGood(c.Request.Context(), businessID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, good)
}

// ListGoods returns the goods offered by a supplier
func (h *SupplierHandler) ListGoods(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	goods, err := h.supplierService.ListGoods(c.Request.Context(), businessID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, goods)
}

// UpdateGoodPrice changes a supplier good's unit price and recomputes
// the cost of every business good built on it
func (h *SupplierHandler) UpdateGoodPrice(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	supplierGoodID, err := parseIDParam(c, "good_id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier good ID format")
		return
	}

	var req catalogapp.UpdateSupplierGoodPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodService.UpdateSupplierGoodPrice(c.Request.Context(), businessID, supplierGoodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}
