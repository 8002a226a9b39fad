package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// JWT context keys
const (
	JWTClaimsKey     = "jwt_claims"
	JWTBusinessIDKey = "jwt_business_id"
	JWTEmployeeIDKey = "jwt_employee_id"
	JWTUsernameKey   = "jwt_username"
	JWTRolesKey      = "jwt_roles"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// JWTAuthConfig configures the authentication middleware
type JWTAuthConfig struct {
	JWTService *auth.JWTService
	// SkipPaths lists exact request paths that bypass authentication
	SkipPaths []string
}

// JWTAuth validates the bearer token and puts its claims in the context
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthWithConfig(JWTAuthConfig{JWTService: jwtService})
}

// JWTAuthWithConfig validates the bearer token, skipping the configured
// public paths
func JWTAuthWithConfig(cfg JWTAuthConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTBusinessIDKey, claims.BusinessID)
		c.Set(JWTEmployeeIDKey, claims.EmployeeID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRolesKey, claims.Roles)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}

// GetJWTBusinessID retrieves the business ID from JWT claims in context
func GetJWTBusinessID(c *gin.Context) string {
	if businessID, exists := c.Get(JWTBusinessIDKey); exists {
		if id, ok := businessID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTEmployeeID retrieves the employee ID from JWT claims in context
func GetJWTEmployeeID(c *gin.Context) string {
	if employeeID, exists := c.Get(JWTEmployeeIDKey); exists {
		if id, ok := employeeID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTRoles retrieves the role list from JWT claims in context
func GetJWTRoles(c *gin.Context) []string {
	if roles, exists := c.Get(JWTRolesKey); exists {
		if rs, ok := roles.([]string); ok {
			return rs
		}
	}
	return nil
}

// RequireRole refuses requests whose token carries none of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	required := make(map[string]bool, len(roles))
	for _, r := range roles {
		required[r] = true
	}

	return func(c *gin.Context) {
		for _, role := range GetJWTRoles(c) {
			if required[role] {
				c.Next()
				return
			}
		}
		requestID := c.GetString(RequestIDKey)
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient role", requestID))
	}
}
