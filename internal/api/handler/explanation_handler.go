package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codexplain/explainer-api/internal/core/ports"
)

// ExplanationHandler serves the per-user explanation routes.
type ExplanationHandler struct {
	service ports.ExplanationService
}

func NewExplanationHandler(service ports.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{service: service}
}

// Explain handles POST /api/explain-code.
//
// @Summary      Explain a code snippet
// @Tags         explanations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      explainRequest  true  "Code and optional language"
// @Success      200   {object}  explainResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   "missing bearer token"
// @Failure      403   "invalid or expired token"
// @Failure      500   {object}  errorResponse
// @Router       /api/explain-code [post]
func (h *ExplanationHandler) Explain(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return err
	}

	var req explainRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res, err := h.service.Explain(c.Request().Context(), ports.ExplainInput{
		UserID:   ac.AccountID,
		Code:     req.Code,
		Language: req.Language,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, explainResponse{Explanation: res.Explanation, Language: res.Language})
}

// ListMine handles GET /api/my-explanations.
//
// @Summary      List the caller's explanations, newest first
// @Tags         explanations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listExplanationsResponse
// @Failure      401  "missing bearer token"
// @Failure      403  "invalid or expired token"
// @Failure      500  {object}  errorResponse
// @Router       /api/my-explanations [get]
func (h *ExplanationHandler) ListMine(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListMine(c.Request().Context(), ac.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListExplanationsResponse(items))
}

// DeleteMine handles DELETE /api/explanations/:id.
//
// @Summary      Delete one of the caller's explanations
// @Tags         explanations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Explanation ID"
// @Success      200  {object}  messageResponse
// @Failure      401  "missing bearer token"
// @Failure      403  "invalid or expired token"
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/explanations/{id} [delete]
func (h *ExplanationHandler) DeleteMine(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteMine(c.Request().Context(), c.Param("id"), ac.AccountID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Explanation deleted successfully"})
}
