// Package metrics defines and registers all custom Prometheus metrics for the
// code explainer API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the /metrics route.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "explainer"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "success", "invalid", "conflict" or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// TokenRejectionsTotal counts requests refused by the auth middleware.
// Label:
//   - reason: "missing", "expired", "signature", "malformed" or "invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected during bearer token verification.",
	},
	[]string{"reason"},
)

// RoleRejectionsTotal counts requests refused by the role gate.
var RoleRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_rejections_total",
		Help:      "Total number of authenticated requests rejected for lacking the required role.",
	},
	[]string{"required_role"},
)

// RateLimitedTotal counts requests denied by the per-IP rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests denied by the rate limiter.",
	},
)

// ── Explanation metrics ───────────────────────────────────────────────────────

// ExplanationsCreatedTotal counts persisted explanations.
// Label:
//   - language: see LanguageLabel
var ExplanationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "explanations_created_total",
		Help:      "Total number of explanations created, by declared language.",
	},
	[]string{"language"},
)

// knownLanguages bounds the language label; the declared language is free
// text supplied by clients.
var knownLanguages = map[string]string{
	"c":          "c",
	"c++":        "cpp",
	"cpp":        "cpp",
	"c#":         "csharp",
	"csharp":     "csharp",
	"css":        "css",
	"dart":       "dart",
	"go":         "go",
	"golang":     "go",
	"html":       "html",
	"java":       "java",
	"javascript": "javascript",
	"js":         "javascript",
	"kotlin":     "kotlin",
	"php":        "php",
	"python":     "python",
	"py":         "python",
	"ruby":       "ruby",
	"rust":       "rust",
	"shell":      "shell",
	"bash":       "shell",
	"sql":        "sql",
	"swift":      "swift",
	"typescript": "typescript",
	"ts":         "typescript",
}

// LanguageLabel maps a declared language onto a fixed label set:
// "unspecified" when empty, "other" when not recognised.
func LanguageLabel(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "unspecified"
	}
	if label, ok := knownLanguages[lang]; ok {
		return label
	}
	return "other"
}

// LLMRequestDuration measures round trips to the language model.
// Label:
//   - result: "ok", "empty", "error" or "circuit_open"
var LLMRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of chat completion requests to the language model.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	},
	[]string{"result"},
)
