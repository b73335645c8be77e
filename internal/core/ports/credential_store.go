package ports

import (
	"context"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// CredentialStore persists accounts. Implementations enforce username
// uniqueness atomically: InsertUnique either stores the account or returns
// domain.ErrUsernameTaken without mutating anything.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	InsertUnique(ctx context.Context, account *domain.Account) (*domain.Account, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Account, error)
}
