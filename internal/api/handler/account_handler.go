package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-tracking/internal/core/ports"
)

// AccountHandler serves the per-session views and the admin metrics.
type AccountHandler struct {
	tracker ports.Tracker
}

func NewAccountHandler(tracker ports.Tracker) *AccountHandler {
	return &AccountHandler{tracker: tracker}
}

// Profile handles GET /profile.
//
// @Summary      Current session profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	session, err := h.tracker.Profile(c.Request().Context(), ctxToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(session))
}

// Dashboard handles GET /dashboard.
//
// @Summary      Per-session dashboard
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /dashboard [get]
func (h *AccountHandler) Dashboard(c echo.Context) error {
	view, err := h.tracker.Dashboard(c.Request().Context(), ctxToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(view))
}

// Metrics handles GET /metrics. Admin only.
//
// @Summary      Service health snapshot
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  metricsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /metrics [get]
func (h *AccountHandler) Metrics(c echo.Context) error {
	snap, err := h.tracker.Metrics(c.Request().Context(), ctxToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMetricsResponse(snap))
}
