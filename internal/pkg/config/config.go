package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	TokenTTL       time.Duration `env:"TOKEN_TTL,       default=1h"`
	AdminCode      string        `env:"ADMIN_CODE"`
	FrontendURL    string        `env:"FRONTEND_URL,    default=http://localhost:5173"`
	BodyLimit      string        `env:"BODY_LIMIT,      default=10M"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=90s"`

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means the client IP is always the socket peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Store     StoreConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	LLM       LLMConfig
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=mongo"`
	MongoURI    string `env:"MONGO_URI,    default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,     default=code_explainer"`
	SQLitePath  string `env:"SQLITE_PATH,  default=file:code_explainer.db?_foreign_keys=on"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// RedisConfig is optional; an empty Addr keeps rate limiting in memory.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

type LLMConfig struct {
	BaseURL string        `env:"LLM_BASE_URL, default=https://openrouter.ai/api/v1"`
	APIKey  string        `env:"LLM_API_KEY"`
	Model   string        `env:"LLM_MODEL,    default=ibm-granite/granite-4.0-h-micro"`
	Timeout time.Duration `env:"LLM_TIMEOUT,  default=60s"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "mongo", "sqlite":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of mongo, sqlite, postgres; got %q", c.Store.Driver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}
	return nil
}
