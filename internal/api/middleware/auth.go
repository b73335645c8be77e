package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codexplain/explainer-api/internal/core/auth"
	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

const authContextKey = "auth_context"

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (domain.AuthContext, error)
}

// Auth validates the bearer token and injects the AuthContext into c.
//
// No bearer token yields 401 and a token that fails verification yields 403,
// both with an empty body; next is not invoked in either case.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			ac, err := verifier.Verify(token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(auth.Reason(err)).Inc()
				if errors.Is(err, domain.ErrUnauthenticated) {
					return c.NoContent(http.StatusUnauthorized)
				}
				return c.NoContent(http.StatusForbidden)
			}

			SetAuthContext(c, ac)
			return next(c)
		}
	}
}

// SetAuthContext attaches ac to c for downstream handlers.
func SetAuthContext(c echo.Context, ac domain.AuthContext) {
	c.Set(authContextKey, ac)
}

// AuthContextFrom returns the identity attached by Auth.
func AuthContextFrom(c echo.Context) (domain.AuthContext, bool) {
	ac, ok := c.Get(authContextKey).(domain.AuthContext)
	return ac, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Any other shape yields "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
