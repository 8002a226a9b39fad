package auth

import (
	"errors"
	"time"

	businessapp "github.com/pos/backend/internal/application/business"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrTokenNotYetValid  = errors.New("token is not yet valid")
	ErrMissingBusinessID = errors.New("missing business_id in claims")
	ErrMissingEmployeeID = errors.New("missing employee_id in claims")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	BusinessID string   `json:"business_id"`
	EmployeeID string   `json:"employee_id"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles,omitempty"`
}

// JWTService mints and validates employee access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// Ensure JWTService implements TokenIssuer
var _ businessapp.TokenIssuer = (*JWTService)(nil)

// Issue mints a signed access token for an authenticated employee
func (s *JWTService) Issue(businessID, employeeID uuid.UUID, username string, roles []string) (string, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   employeeID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		BusinessID: businessID.String(),
		EmployeeID: employeeID.String(),
		Username:   username,
		Roles:      roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token string and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.BusinessID == "" {
		return nil, ErrMissingBusinessID
	}
	if claims.EmployeeID == "" {
		return nil, ErrMissingEmployeeID
	}

	return claims, nil
}

// BusinessUUID parses the business ID claim
func (c *Claims) BusinessUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.BusinessID)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}

// EmployeeUUID parses the employee ID claim
func (c *Claims) EmployeeUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.EmployeeID)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}
