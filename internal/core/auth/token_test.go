package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService("secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, err := svc.Issue("acc-1", "alice", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ac, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, domain.AuthContext{AccountID: "acc-1", Username: "alice", Role: domain.RoleAdmin}, ac)
}

func TestTokenService_ClaimsShape(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &fakeClock{t: issued})

	token, err := svc.Issue("acc-1", "alice", domain.RoleUser)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims["id"])
	require.Equal(t, "alice", claims["username"])
	require.Equal(t, "user", claims["role"])
	require.EqualValues(t, issued.Unix(), claims["iat"])
	require.EqualValues(t, issued.Add(time.Hour).Unix(), claims["exp"])
}

func TestTokenService_ExpiryWindow(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	svc := newTestTokenService(t, clock)

	token, err := svc.Issue("acc-1", "alice", domain.RoleUser)
	require.NoError(t, err)

	clock.t = issued.Add(59 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err, "token must still be valid at T+59m")

	clock.t = issued.Add(61 * time.Minute)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
	require.Equal(t, "expired", Reason(err))
}

func TestTokenService_EmptyTokenIsUnauthenticated(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	_, err := svc.Verify("")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.False(t, errors.Is(err, domain.ErrForbidden))
	require.Equal(t, "missing", Reason(err))
}

func TestTokenService_TamperedTokenIsForbidden(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	token, err := svc.Issue("acc-1", "alice", domain.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "acc-1", "username": "alice", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	// admin payload spliced onto the original signature
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Equal(t, "signature", Reason(err))
}

func TestTokenService_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	other, err := NewTokenService("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("acc-1", "alice", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Verify(foreign)
	require.ErrorIs(t, err, domain.ErrForbidden)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": "acc-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(none)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTokenService_GarbageIsForbidden(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Equal(t, "malformed", Reason(err))
}

func TestTokenService_TokenWithoutExpiryIsForbidden(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "acc-1", "username": "alice", "role": "user",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(noExp)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTokenService_UnknownRoleIsForbidden(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	odd, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "acc-1", "username": "alice", "role": "superuser",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(odd)
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Equal(t, "invalid", Reason(err))
}
