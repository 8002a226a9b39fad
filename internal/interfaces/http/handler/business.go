package handler

import (
	"io"

	businessapp "github.com/pos/backend/internal/application/business"
	"github.com/gin-gonic/gin"
)

// maxQRCodeImageSize caps uploaded QR code images at 2 MiB
const maxQRCodeImageSize = 2 << 20

// BusinessHandler handles business and sales location endpoints
type BusinessHandler struct {
	BaseHandler
	businessService *businessapp.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(businessService *businessapp.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// Register creates a new business with its owner account. This endpoint
// is public; everything else requires a token scoped to the business.
func (h *BusinessHandler) Register(c *gin.Context) {
	var req businessapp.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	business, err := h.businessService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, business)
}

// Get returns the authenticated business
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	business, err := h.businessService.GetByID(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// Update changes the business's mutable details
func (h *BusinessHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req businessapp.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// ChangeSubscription moves the business to another subscription tier
func (h *BusinessHandler) ChangeSubscription(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req businessapp.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	business, err := h.businessService.ChangeSubscription(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// AddSalesLocation registers a new sales location
func (h *BusinessHandler) AddSalesLocation(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req businessapp.AddSalesLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.businessService.AddSalesLocation(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// RemoveSalesLocation deletes a sales location
func (h *BusinessHandler) RemoveSalesLocation(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	locationID, err := parseIDParam(c, "location_id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.businessService.RemoveSalesLocation(c.Request.Context(), businessID, locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UploadLocationQRCode stores a QR code image for a sales location
func (h *BusinessHandler) UploadLocationQRCode(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	locationID, err := parseIDParam(c, "location_id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing QR code image")
		return
	}
	if fileHeader.Size > maxQRCodeImageSize {
		h.BadRequest(c, "QR code image exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable QR code image")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxQRCodeImageSize))
	if err != nil {
		h.BadRequest(c, "Unreadable QR code image")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	location, err := h.businessService.UploadLocationQRCode(c.Request.Context(), businessID, locationID, image, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// Deactivate suspends the business
func (h *BusinessHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	if err := h.businessService.Deactivate(c.Request.Context(), businessID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes the business and all of its data
func (h *BusinessHandler) Delete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	if err := h.businessService.Delete(c.Request.Context(), businessID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
