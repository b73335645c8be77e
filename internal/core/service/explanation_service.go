package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

type explanationService struct {
	repo      ports.ExplanationRepository
	explainer ports.Explainer
	log       zerolog.Logger
}

// NewExplanationService returns an ExplanationService implementation.
func NewExplanationService(
	repo ports.ExplanationRepository,
	explainer ports.Explainer,
	log zerolog.Logger,
) ports.ExplanationService {
	return &explanationService{repo: repo, explainer: explainer, log: log}
}

// BuildPrompt renders the instruction sent to the language model. The
// language is left out when the caller did not declare one.
func BuildPrompt(language, code string) string {
	subject := "code"
	if language != "" {
		subject = language + " code"
	}
	return fmt.Sprintf("Please explain the following %s in simple Bangla line by line:\n\n%s", subject, code)
}

// Explain asks the model for an explanation of the snippet and persists it
// for the caller. Model failures are not retried.
func (s *explanationService) Explain(ctx context.Context, in ports.ExplainInput) (*ports.ExplainResult, error) {
	if in.Code == "" {
		return nil, domain.ErrCodeRequired
	}

	text, err := s.explainer.Explain(ctx, BuildPrompt(in.Language, in.Code))
	if err != nil {
		return nil, domain.ErrServer.WithCause(fmt.Errorf("explain: %w", err))
	}
	if text == "" {
		return nil, domain.ErrEmptyExplanation
	}

	_, err = s.repo.Create(ctx, &domain.Explanation{
		UserID:      in.UserID,
		Code:        in.Code,
		Language:    in.Language,
		Explanation: text,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, domain.ErrServer.WithCause(fmt.Errorf("explain: persist: %w", err))
	}

	metrics.ExplanationsCreatedTotal.WithLabelValues(metrics.LanguageLabel(in.Language)).Inc()

	s.log.Info().
		Str("user_id", in.UserID).
		Str("language", in.Language).
		Int("code_bytes", len(in.Code)).
		Msg("explanation created")

	return &ports.ExplainResult{Explanation: text, Language: in.Language}, nil
}

func (s *explanationService) ListMine(ctx context.Context, userID string) ([]*domain.Explanation, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrDatabase.WithCause(err)
	}
	return items, nil
}

// DeleteMine removes an explanation only if the caller owns it. A missing
// explanation and someone else's explanation are reported identically.
func (s *explanationService) DeleteMine(ctx context.Context, id, userID string) error {
	if err := s.repo.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrExplanationNotOwned) {
			return domain.ErrExplanationNotOwned
		}
		return domain.ErrDatabase.WithCause(err)
	}
	return nil
}
