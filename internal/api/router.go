package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/codexplain/explainer-api/docs"
	"github.com/codexplain/explainer-api/internal/api/handler"
	"github.com/codexplain/explainer-api/internal/api/middleware"
	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
)

// Deps carries everything NewRouter needs. Services are built by the caller
// so the router stays free of storage concerns.
type Deps struct {
	Log zerolog.Logger

	AuthService        ports.AuthService
	ExplanationService ports.ExplanationService
	AdminService       ports.AdminService
	Tokens             middleware.TokenVerifier

	// RateLimitStore backs the per-IP limiter; nil disables it.
	RateLimitStore  echomiddleware.RateLimiterStore
	RateLimitWindow time.Duration

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	FrontendURL    string
	BodyLimit      string
	ExplainTimeout time.Duration
	EnableSwagger  bool

	// TrustedProxies are the CIDRs whose X-Forwarded-For is honoured. Empty
	// means the client IP is always the socket peer.
	TrustedProxies []string

	// MetricsRegisterer receives the HTTP metrics; defaults to the global
	// Prometheus registerer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	extractor, err := ipExtractor(d.TrustedProxies)
	if err != nil {
		return nil, err
	}
	e.IPExtractor = extractor

	registerer := d.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	promMW, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "explainer_http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}
	if d.RateLimitStore != nil {
		e.Use(middleware.RateLimit(d.RateLimitStore, d.RateLimitWindow))
	}
	e.Use(promMW)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	explanationHandler := handler.NewExplanationHandler(d.ExplanationService)
	adminHandler := handler.NewAdminHandler(d.AdminService)
	authMW := middleware.Auth(d.Tokens)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// --- Explanation routes ---
	explainMW := []echo.MiddlewareFunc{authMW}
	if d.ExplainTimeout > 0 {
		explainMW = append(explainMW, echomiddleware.ContextTimeout(d.ExplainTimeout))
	}
	api.POST("/explain-code", explanationHandler.Explain, explainMW...)
	api.GET("/my-explanations", explanationHandler.ListMine, authMW)
	api.DELETE("/explanations/:id", explanationHandler.DeleteMine, authMW)

	// --- Admin routes ---
	admin := api.Group("/admin", authMW, middleware.RequireRole(domain.RoleAdmin, d.Log))
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/explanations", adminHandler.ListExplanations)
	admin.DELETE("/explanations/:id", adminHandler.DeleteExplanation)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                   // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Readiness).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	if d.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e, nil
}

// ipExtractor resolves the client IP used for rate limiting and access logs.
// Forwarded headers are only read when the peer is a listed proxy.
func ipExtractor(trusted []string) (echo.IPExtractor, error) {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
