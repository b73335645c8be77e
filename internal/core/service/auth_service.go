package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

// PasswordHasher hashes and verifies stored passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID, username string, role domain.Role) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	store     ports.CredentialStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	adminCode string
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
	log       zerolog.Logger
}

// NewAuthService wires the registration and login flows. adminCode is the
// bootstrap code that grants the admin role; empty disables admin sign-up.
func NewAuthService(
	store ports.CredentialStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	adminCode string,
	log zerolog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		adminCode: adminCode,
		dummyHash: dummy,
		log:       log,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password, adminCode string) (domain.Role, error) {
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return "", domain.ErrRegisterFieldsRequired
	}

	role := domain.RoleUser
	if s.isAdminCode(adminCode) {
		role = domain.RoleAdmin
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
			return "", domain.ErrPasswordTooLong
		}
		return "", domain.ErrDatabase.WithCause(err)
	}

	_, err = s.store.InsertUnique(ctx, &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return "", domain.ErrUsernameTaken
		}
		return "", domain.ErrDatabase.WithCause(err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("username", username).Str("role", string(role)).Msg("account registered")
	return role, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrLoginFieldsRequired
	}

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrServer.WithCause(err)
		}
		s.hasher.Verify(password, s.dummyHash)
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, domain.ErrServer.WithCause(err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.LoginResult{Token: token, Role: account.Role}, nil
}

func (s *AuthService) isAdminCode(code string) bool {
	if code == "" || s.adminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1
}
