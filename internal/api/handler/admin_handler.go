package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codexplain/explainer-api/internal/core/ports"
)

// AdminHandler serves the routes restricted to the admin role.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      List all accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  "missing bearer token"
// @Failure      403  "invalid token or not an admin"
// @Failure      500  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	accounts, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListUsersResponse(accounts))
}

// DeleteUser handles DELETE /api/admin/users/:id.
//
// @Summary      Delete a non-admin account and its explanations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// ListExplanations handles GET /api/admin/explanations.
//
// @Summary      List every explanation with its owner
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOwnedExplanationsResponse
// @Failure      401  "missing bearer token"
// @Failure      403  "invalid token or not an admin"
// @Failure      500  {object}  errorResponse
// @Router       /api/admin/explanations [get]
func (h *AdminHandler) ListExplanations(c echo.Context) error {
	items, err := h.service.ListExplanations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListOwnedExplanationsResponse(items))
}

// DeleteExplanation handles DELETE /api/admin/explanations/:id.
//
// @Summary      Delete any explanation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Explanation ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/admin/explanations/{id} [delete]
func (h *AdminHandler) DeleteExplanation(c echo.Context) error {
	if err := h.service.DeleteExplanation(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Explanation deleted successfully"})
}
