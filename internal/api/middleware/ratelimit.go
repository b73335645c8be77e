package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

// RateLimit limits requests per client IP using store. Denied requests get
// 429 with a JSON error naming the window.
func RateLimit(store echomiddleware.RateLimiterStore, window time.Duration) echo.MiddlewareFunc {
	msg := "Too many requests from this IP, please try again after " + humanWindow(window)

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": msg})
		},
	})
}

// humanWindow renders window in whole minutes or seconds when it divides
// evenly, falling back to Duration.String.
func humanWindow(window time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case window >= time.Minute && window%time.Minute == 0:
		return plural(int64(window/time.Minute), "minute")
	case window >= time.Second && window%time.Second == 0:
		return plural(int64(window/time.Second), "second")
	default:
		return window.String()
	}
}
