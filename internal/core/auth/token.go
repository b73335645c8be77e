package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// DefaultTokenTTL is the absolute lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// Claims is the payload of a session token.
type Claims struct {
	AccountID string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. The signing secret
// is fixed at construction and never rotated.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService returns a TokenService signing with secret. A non-positive
// ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given identity, expiring ttl after now.
func (s *TokenService) Issue(accountID, username string, role domain.Role) (string, error) {
	now := s.now()
	claims := Claims{
		AccountID: accountID,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token.
//
// An empty token fails with domain.ErrUnauthenticated; any other failure
// (bad signature, wrong algorithm, expired, unparsable) fails with
// domain.ErrForbidden.
func (s *TokenService) Verify(token string) (domain.AuthContext, error) {
	if token == "" {
		return domain.AuthContext{}, domain.ErrUnauthenticated
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil && !parsed.Valid {
		err = jwt.ErrTokenUnverifiable
	}
	if err == nil && (claims.AccountID == "" || !claims.Role.Valid()) {
		err = jwt.ErrTokenInvalidClaims
	}
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	}

	return domain.AuthContext{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
	}, nil
}

// Reason classifies a verification failure for metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "missing"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
