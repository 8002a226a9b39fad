package handler

import (
	catalogapp "github.com/pos/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// GoodHandler handles business good endpoints
type GoodHandler struct {
	BaseHandler
	goodService *catalogapp.GoodService
}

// NewGoodHandler creates a new GoodHandler
func NewGoodHandler(goodService *catalogapp.GoodService) *GoodHandler {
	return &GoodHandler{goodService: goodService}
}

// Create adds a new business good
func (h *GoodHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req catalogapp.CreateBusinessGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, good)
}

// GetByID returns a single business good with its composition
func (h *GoodHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid good ID format")
		return
	}

	good, err := h.goodService.GetByID(c.Request.Context(), businessID, goodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// List returns the business's goods
func (h *GoodHandler) List(c *gin.Context) {
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
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}
	if onMenu := c.Query("on_menu"); onMenu != "" {
		filter.Filters["on_menu"] = onMenu
	}

	goods, err := h.goodService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, goods)
}

// Update changes a business good's details
func (h *GoodHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid good ID format")
		return
	}

	var req catalogapp.UpdateBusinessGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodService.Update(c.Request.Context(), businessID, goodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// SetComposition replaces a good's ingredient list or set menu members
func (h *GoodHandler) SetComposition(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid good ID format")
		return
	}

	var req catalogapp.SetCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodService.SetComposition(c.Request.Context(), businessID, goodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// Delete removes a business good
func (h *GoodHandler) Delete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid good ID format")
		return
	}

	if err := h.goodService.Delete(c.Request.Context(), businessID, goodID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
