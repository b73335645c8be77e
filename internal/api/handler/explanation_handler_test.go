package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/codexplain/explainer-api/internal/api/middleware"
	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
)

type stubExplanationService struct {
	explainFn    func(ctx context.Context, in ports.ExplainInput) (*ports.ExplainResult, error)
	listMineFn   func(ctx context.Context, userID string) ([]*domain.Explanation, error)
	deleteMineFn func(ctx context.Context, id, userID string) error
}

func (s *stubExplanationService) Explain(ctx context.Context, in ports.ExplainInput) (*ports.ExplainResult, error) {
	return s.explainFn(ctx, in)
}

func (s *stubExplanationService) ListMine(ctx context.Context, userID string) ([]*domain.Explanation, error) {
	return s.listMineFn(ctx, userID)
}

func (s *stubExplanationService) DeleteMine(ctx context.Context, id, userID string) error {
	return s.deleteMineFn(ctx, id, userID)
}

var alice = domain.AuthContext{AccountID: "acc-1", Username: "alice", Role: domain.RoleUser}

func TestExplanationHandler_Explain_Success(t *testing.T) {
	stub := &stubExplanationService{
		explainFn: func(ctx context.Context, in ports.ExplainInput) (*ports.ExplainResult, error) {
			if in.UserID != "acc-1" || in.Code != "print(1)" || in.Language != "python" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ExplainResult{Explanation: "ব্যাখ্যা", Language: in.Language}, nil
		},
	}
	h := NewExplanationHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/explain-code", `{"code":"print(1)","language":"python"}`)
	middleware.SetAuthContext(c, alice)
	if err := h.Explain(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["explanation"] != "ব্যাখ্যা" || resp["language"] != "python" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestExplanationHandler_Explain_RejectsOddLanguage(t *testing.T) {
	stub := &stubExplanationService{
		explainFn: func(ctx context.Context, in ports.ExplainInput) (*ports.ExplainResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewExplanationHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/explain-code", "{\"code\":\"x\",\"language\":\"py\\nthon\"}")
	middleware.SetAuthContext(c, alice)
	_ = h.Explain(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExplanationHandler_Explain_MissingAuthContext(t *testing.T) {
	h := NewExplanationHandler(&stubExplanationService{})

	c, _ := newJSONContext(http.MethodPost, "/api/explain-code", `{"code":"x"}`)
	if err := h.Explain(c); !errors.Is(err, domain.ErrMissingAuthContext) {
		t.Fatalf("expected ErrMissingAuthContext, got %v", err)
	}
}

func TestExplanationHandler_ListMine(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stub := &stubExplanationService{
		listMineFn: func(ctx context.Context, userID string) ([]*domain.Explanation, error) {
			if userID != "acc-1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			return []*domain.Explanation{{ID: "e1", UserID: userID, Code: "x", Explanation: "y", CreatedAt: created}}, nil
		},
	}
	h := NewExplanationHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/my-explanations", "")
	middleware.SetAuthContext(c, alice)
	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	items, ok := resp["explanations"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	first := items[0].(map[string]any)
	if first["id"] != "e1" || first["user_id"] != "acc-1" || first["created_at"] != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected item: %+v", first)
	}
}

func TestExplanationHandler_ListMine_EmptyIsArray(t *testing.T) {
	stub := &stubExplanationService{
		listMineFn: func(ctx context.Context, userID string) ([]*domain.Explanation, error) {
			return nil, nil
		},
	}
	h := NewExplanationHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/my-explanations", "")
	middleware.SetAuthContext(c, alice)
	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"explanations\":[]}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestExplanationHandler_DeleteMine(t *testing.T) {
	var gotID, gotUser string
	stub := &stubExplanationService{
		deleteMineFn: func(ctx context.Context, id, userID string) error {
			gotID, gotUser = id, userID
			return nil
		},
	}
	h := NewExplanationHandler(stub)

	c, rec := newJSONContext(http.MethodDelete, "/api/explanations/e9", "")
	c.SetParamNames("id")
	c.SetParamValues("e9")
	middleware.SetAuthContext(c, alice)
	if err := h.DeleteMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if gotID != "e9" || gotUser != "acc-1" {
		t.Fatalf("unexpected args: %s %s", gotID, gotUser)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Explanation deleted successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
