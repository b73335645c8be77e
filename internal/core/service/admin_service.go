package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
)

// AdminService implements the admin-only account and explanation operations.
type AdminService struct {
	accounts     ports.CredentialStore
	explanations ports.ExplanationRepository
	log          zerolog.Logger
}

func NewAdminService(accounts ports.CredentialStore, explanations ports.ExplanationRepository, log zerolog.Logger) *AdminService {
	return &AdminService{accounts: accounts, explanations: explanations, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, domain.ErrDatabase.WithCause(err)
	}
	return accounts, nil
}

// DeleteUser removes a non-admin account and then its explanations.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return domain.ErrDatabase.WithCause(err)
	}
	if account.Role == domain.RoleAdmin {
		return domain.ErrAdminNotDeletable
	}

	if err := s.accounts.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return domain.ErrDatabase.WithCause(err)
	}

	removed, err := s.explanations.DeleteByUser(ctx, id)
	if err != nil {
		return domain.ErrDatabase.WithCause(err)
	}

	s.log.Info().
		Str("user_id", id).
		Str("username", account.Username).
		Int64("explanations_removed", removed).
		Msg("account deleted")
	return nil
}

// ListExplanations returns every explanation, newest first, with the owner's
// username resolved.
func (s *AdminService) ListExplanations(ctx context.Context) ([]ports.OwnedExplanation, error) {
	items, err := s.explanations.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrDatabase.WithCause(err)
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, domain.ErrDatabase.WithCause(err)
	}

	usernames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		usernames[a.ID] = a.Username
	}

	out := make([]ports.OwnedExplanation, len(items))
	for i, e := range items {
		out[i] = ports.OwnedExplanation{Explanation: *e, Username: usernames[e.UserID]}
	}
	return out, nil
}

func (s *AdminService) DeleteExplanation(ctx context.Context, id string) error {
	if err := s.explanations.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrExplanationNotFound) {
			return domain.ErrExplanationNotFound
		}
		return domain.ErrDatabase.WithCause(err)
	}
	return nil
}
