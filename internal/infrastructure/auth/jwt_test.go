package auth

import (
	"testing"
	"time"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.TokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestJWTService_Issue(t *testing.T) {
	t.Run("issues a token that validates back to its claims", func(t *testing.T) {
		svc := newTestJWTService()
		businessID := uuid.New()
		employeeID := uuid.New()

		token, err := svc.Issue(businessID, employeeID, "alice", []string{"owner", "waiter"})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, businessID.String(), claims.BusinessID)
		assert.Equal(t, employeeID.String(), claims.EmployeeID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, []string{"owner", "waiter"}, claims.Roles)
		assert.Equal(t, "test-issuer", claims.Issuer)
	})

	t.Run("claim helpers parse back to UUIDs", func(t *testing.T) {
		svc := newTestJWTService()
		businessID := uuid.New()
		employeeID := uuid.New()

		token, err := svc.Issue(businessID, employeeID, "alice", nil)
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)

		gotBusiness, err := claims.BusinessUUID()
		require.NoError(t, err)
		assert.Equal(t, businessID, gotBusiness)

		gotEmployee, err := claims.EmployeeUUID()
		require.NoError(t, err)
		assert.Equal(t, employeeID, gotEmployee)
	})
}

func TestJWTService_Validate(t *testing.T) {
	t.Run("rejects garbage tokens", func(t *testing.T) {
		svc := newTestJWTService()

		claims, err := svc.Validate("not-a-token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		svc := newTestJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:          "a-different-secret-also-32-chars!",
			TokenExpiration: 15 * time.Minute,
			Issuer:          "test-issuer",
		})

		token, err := other.Issue(uuid.New(), uuid.New(), "alice", nil)
		require.NoError(t, err)

		claims, err := svc.Validate(token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:          "test-secret-key-at-least-32-chars",
			TokenExpiration: -time.Minute,
			Issuer:          "test-issuer",
		})

		token, err := svc.Issue(uuid.New(), uuid.New(), "alice", nil)
		require.NoError(t, err)

		claims, err := svc.Validate(token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
