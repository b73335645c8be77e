package ports

import (
	"context"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	Role  domain.Role
}

type AuthService interface {
	// Register creates an account and returns the role it was assigned.
	Register(ctx context.Context, username, password, adminCode string) (domain.Role, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
