package ports

import (
	"context"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// ExplanationRepository persists explanations. List methods return the
// newest explanation first.
type ExplanationRepository interface {
	Create(ctx context.Context, e *domain.Explanation) (*domain.Explanation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Explanation, error)
	ListAll(ctx context.Context) ([]*domain.Explanation, error)
	// DeleteOwned removes the explanation only when it belongs to userID.
	DeleteOwned(ctx context.Context, id, userID string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
