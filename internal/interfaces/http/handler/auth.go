package handler

import (
	businessapp "github.com/pos/backend/internal/application/business"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *businessapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *businessapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an employee and returns a signed token
func (h *AuthHandler) Login(c *gin.Context) {
	var req businessapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
