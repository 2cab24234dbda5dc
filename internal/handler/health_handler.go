package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sweetshop/internal/db"
)

// HealthHandler reports liveness and database connectivity.
type HealthHandler struct {
	gateway *db.Gateway
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gateway *db.Gateway) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// HealthResponse describes the service and database status.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Health godoc
// @Summary Liveness and database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	// An unreachable database degrades the report, it never kills the process.
	if err := h.gateway.Ping(c.Request().Context()); err != nil {
		c.Logger().Errorf("health probe: %v", err)
		return c.JSON(http.StatusOK, HealthResponse{
			Status:   "degraded",
			Message:  "Sweet Shop API is running but database is unreachable",
			Database: "error",
		})
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Message:  "Sweet Shop API is running",
		Database: "connected",
	})
}
