// Package llm talks to an OpenAI-compatible chat completion endpoint
// (OpenRouter by default) behind a circuit breaker.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/codexplain/explainer-api/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "ibm-granite/granite-4.0-h-micro"
	DefaultTimeout = 60 * time.Second
)

// Config captures the upstream model settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements ports.Explainer.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		api:     openai.NewClientWithConfig(oc),
		model:   model,
		timeout: timeout,
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// a caller hanging up says nothing about the upstream
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c
}

// Explain sends prompt as a single user message and returns the first
// choice's content. An empty completion is returned as "" without error.
func (c *Client) Explain(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})

	result := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case err != nil:
		result = "error"
	case out.(string) == "":
		result = "empty"
	}
	metrics.LLMRequestDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Error().Err(err).Str("model", c.model).Str("result", result).Msg("chat completion failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return out.(string), nil
}
