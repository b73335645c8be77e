// Command api serves the code explainer HTTP API.
//
// @title                       Code Explainer API
// @version                     1.0
// @description                 Explains code snippets in Bangla and keeps a per-user history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/codexplain/explainer-api/internal/api"
	"github.com/codexplain/explainer-api/internal/api/handler"
	"github.com/codexplain/explainer-api/internal/core/auth"
	"github.com/codexplain/explainer-api/internal/core/service"
	redisdb "github.com/codexplain/explainer-api/internal/infrastructure/db/redis"
	"github.com/codexplain/explainer-api/internal/infrastructure/llm"
	"github.com/codexplain/explainer-api/internal/infrastructure/storage"
	"github.com/codexplain/explainer-api/internal/pkg/config"
	"github.com/codexplain/explainer-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "explainer-api",
	})

	// --- Persistence ---
	stores, err := storage.Open(ctx, storage.Config{
		Driver:      cfg.Store.Driver,
		MongoURI:    cfg.Store.MongoURI,
		MongoDB:     cfg.Store.MongoDB,
		SQLitePath:  cfg.Store.SQLitePath,
		PostgresDSN: cfg.Store.PostgresDSN,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	log.Info().Str("driver", stores.Driver).Msg("store connected")

	// --- Rate limit store ---
	readiness := map[string]handler.Pinger{"store": stores}
	var limiter echomiddleware.RateLimiterStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		limiter = redisdb.NewRateLimiterStore(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window, log)
		readiness["redis"] = redisdb.Health{Client: rdb}
	} else {
		limiter = echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RateLimit.Max) / cfg.RateLimit.Window.Seconds()),
			Burst:     cfg.RateLimit.Max,
			ExpiresIn: cfg.RateLimit.Window,
		})
	}

	// --- Core services ---
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}
	authService, err := service.NewAuthService(stores.Accounts, auth.NewPasswordHasher(auth.DefaultCost), tokens, cfg.AdminCode, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth service")
	}
	if cfg.AdminCode == "" {
		log.Warn().Msg("ADMIN_CODE is empty; admin registration is disabled")
	}

	explainer := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, log)

	e, err := api.NewRouter(api.Deps{
		Log:                log,
		AuthService:        authService,
		ExplanationService: service.NewExplanationService(stores.Explanations, explainer, log),
		AdminService:       service.NewAdminService(stores.Accounts, stores.Explanations, log),
		Tokens:             tokens,
		RateLimitStore:     limiter,
		RateLimitWindow:    cfg.RateLimit.Window,
		Readiness:          readiness,
		FrontendURL:        cfg.FrontendURL,
		BodyLimit:          cfg.BodyLimit,
		ExplainTimeout:     cfg.RequestTimeout,
		EnableSwagger:      !cfg.IsProduction(),
		TrustedProxies:     cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go serve(e, ":"+cfg.Port)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := stores.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close failed")
	}
}

func serve(e *echo.Echo, addr string) {
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server failed")
	}
}
