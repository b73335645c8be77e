package ports

import (
	"context"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// ExplainInput carries a code snippet submitted for explanation.
type ExplainInput struct {
	UserID   string
	Code     string
	Language string
}

// ExplainResult is what the client sees after a successful explanation.
type ExplainResult struct {
	Explanation string
	Language    string
}

// ExplanationService defines the per-user explanation use cases.
type ExplanationService interface {
	Explain(ctx context.Context, input ExplainInput) (*ExplainResult, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Explanation, error)
	DeleteMine(ctx context.Context, id, userID string) error
}
