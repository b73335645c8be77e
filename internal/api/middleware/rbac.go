package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

// RequireRole restricts a route to callers holding role. It must be mounted
// after Auth; a request reaching it without an AuthContext means the route
// was mis-wired and is refused with 500.
func RequireRole(role domain.Role, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, ok := AuthContextFrom(c)
			if !ok {
				log.Error().Str("path", c.Path()).Msg("role gate reached without auth context")
				return c.NoContent(http.StatusInternalServerError)
			}
			if ac.Role != role {
				metrics.RoleRejectionsTotal.WithLabelValues(string(role)).Inc()
				return c.NoContent(http.StatusForbidden)
			}
			return next(c)
		}
	}
}
