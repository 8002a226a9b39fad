package handler

import (
	"time"

	catalogapp "github.com/pos/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromotionHandler handles promotion endpoints
type PromotionHandler struct {
	BaseHandler
	promotionService *catalogapp.PromotionService
	goodService      *catalogapp.GoodService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *catalogapp.PromotionService, goodService *catalogapp.GoodService) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
		goodService:      goodService,
	}
}

// ResolvedPriceResponse is the price a good sells for right now,
// together with the promotion that produced it, if any
type ResolvedPriceResponse struct {
	Promotion *catalogapp.PromotionResponse `json:"promotion,omitempty"`
	Price     decimal.Decimal               `json:"price"`
}

// Create adds a new promotion
func (h *PromotionHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req catalogapp.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	promotion, err := h.promotionService.Create(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, promotion)
}

// GetByID returns a single promotion
func (h *PromotionHandler) GetByID(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	promotionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid promotion ID format")
		return
	}

	promotion, err := h.promotionService.GetByID(c.Request.Context(), businessID, promotionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promotion)
}

// List returns the business's promotions
func (h *PromotionHandler) List(c *gin.Context) {
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
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active
	}

	promotions, err := h.promotionService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promotions)
}

// Update changes a promotion
func (h *PromotionHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	promotionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid promotion ID format")
		return
	}

	var req catalogapp.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	promotion, err := h.promotionService.Update(c.Request.Context(), businessID, promotionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promotion)
}

// Delete removes a promotion
func (h *PromotionHandler) Delete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	promotionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid promotion ID format")
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), businessID, promotionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ResolvePrice returns the effective price of a good at a point in time,
// applying the best active promotion
func (h *PromotionHandler) ResolvePrice(c *gin.Context) {
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

	at := time.Now()
	if atParam := c.Query("at"); atParam != "" {
		at, err = time.Parse(time.RFC3339, atParam)
		if err != nil {
			h.BadRequest(c, "Invalid at timestamp, expected RFC3339")
			return
		}
	}

	good, err := h.goodService.GetByID(c.Request.Context(), businessID, goodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	promotion, price, err := h.promotionService.ResolvePrice(c.Request.Context(), businessID, goodID, good.SalePrice, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ResolvedPriceResponse{Price: price}
	if promotion != nil {
		pr := catalogapp.ToPromotionResponse(promotion)
		resp.Promotion = &pr
	}

	h.Success(c, resp)
}
