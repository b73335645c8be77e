package handler

import (
	"time"

	"github.com/codexplain/explainer-api/internal/core/domain"
	"github.com/codexplain/explainer-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode,omitempty"`
}

type registerResponse struct {
	Message string      `json:"message"`
	Role    domain.Role `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Role    domain.Role `json:"role"`
}

// --- Explanations ---

type explainRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" validate:"omitempty,max=64,printascii"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

type explanationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
}

type listExplanationsResponse struct {
	Explanations []explanationResponse `json:"explanations"`
}

// --- Admin ---

type userResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
}

type ownedExplanationResponse struct {
	explanationResponse
	Username string `json:"username"`
}

type listOwnedExplanationsResponse struct {
	Explanations []ownedExplanationResponse `json:"explanations"`
}

// --- Mappers ---

func toExplanationResponse(e *domain.Explanation) explanationResponse {
	return explanationResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Code:        e.Code,
		Language:    e.Language,
		Explanation: e.Explanation,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func toListExplanationsResponse(items []*domain.Explanation) listExplanationsResponse {
	out := make([]explanationResponse, len(items))
	for i, e := range items {
		out[i] = toExplanationResponse(e)
	}
	return listExplanationsResponse{Explanations: out}
}

func toListUsersResponse(accounts []*domain.Account) listUsersResponse {
	out := make([]userResponse, len(accounts))
	for i, a := range accounts {
		out[i] = userResponse{
			ID:        a.ID,
			Username:  a.Username,
			Role:      a.Role,
			CreatedAt: a.CreatedAt.UTC(),
		}
	}
	return listUsersResponse{Users: out}
}

func toListOwnedExplanationsResponse(items []ports.OwnedExplanation) listOwnedExplanationsResponse {
	out := make([]ownedExplanationResponse, len(items))
	for i := range items {
		out[i] = ownedExplanationResponse{
			explanationResponse: toExplanationResponse(&items[i].Explanation),
			Username:            items[i].Username,
		}
	}
	return listOwnedExplanationsResponse{Explanations: out}
}
