package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewReadinessHandler(map[string]Pinger{
		"store": pingerFunc(func(context.Context) error { return nil }),
		"redis": nil,
	})

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	deps := decodeBody(t, rec)["dependencies"].(map[string]any)
	if _, ok := deps["redis"]; ok {
		t.Fatalf("nil dependency must be skipped")
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	h := NewReadinessHandler(map[string]Pinger{
		"store": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["status"] != "degraded" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
