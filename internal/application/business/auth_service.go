package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
)

// TokenIssuer mints access tokens for authenticated employees
type TokenIssuer interface {
	Issue(businessID, employeeID uuid.UUID, username string, roles []string) (string, error)
}

// AuthService authenticates employees against their business
type AuthService struct {
	employeeRepo business.EmployeeRepository
	tokens       TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(employeeRepo business.EmployeeRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		tokens:       tokens,
	}
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords return the same error so the response leaks nothing.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	emp, err := s.employeeRepo.FindByUsername(ctx, req.BusinessID, req.Username)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !emp.Active || !emp.CheckPassword(req.Password) {
		return nil, shared.ErrUnauthorized
	}

	roles := make([]string, 0, len(emp.Roles))
	for _, r := range emp.Roles {
		roles = append(roles, string(r))
	}
	token, err := s.tokens.Issue(emp.BusinessID, emp.ID, emp.Username, roles)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		Employee: ToEmployeeResponse(emp),
	}, nil
}
