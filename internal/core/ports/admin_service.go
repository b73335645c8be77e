package ports

import (
	"context"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// OwnedExplanation is an explanation annotated with its owner's username.
// Username is empty when the owner no longer exists.
type OwnedExplanation struct {
	domain.Explanation
	Username string
}

// AdminService defines the operations reserved to the admin role.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.Account, error)
	DeleteUser(ctx context.Context, id string) error
	ListExplanations(ctx context.Context) ([]OwnedExplanation, error)
	DeleteExplanation(ctx context.Context, id string) error
}
