package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/codexplain/explainer-api/internal/api/middleware"
	"github.com/codexplain/explainer-api/internal/core/domain"
)

// authContext returns the identity injected by the Auth middleware. Its
// absence means the route was registered without Auth, which is a wiring
// bug rather than a client error.
func authContext(c echo.Context) (domain.AuthContext, error) {
	ac, ok := middleware.AuthContextFrom(c)
	if !ok || ac.AccountID == "" {
		return domain.AuthContext{}, domain.ErrMissingAuthContext
	}
	return ac, nil
}
