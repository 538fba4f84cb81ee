package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	driver string
	ping   func(ctx context.Context) error
}

// NewHealthHandler returns a HealthHandler that reports on the store reached
// through ping. driver names the store in readiness output.
func NewHealthHandler(driver string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{driver: driver, ping: ping}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
	Error  string `json:"error,omitempty"`
}

type readinessStatus struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health and confirms the process is serving requests.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, done("Tech Visits Manager API running"))
}

// Readiness handles GET /health/ready and checks the collection store.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  dataResponse[readinessStatus]
// @Failure      503  {object}  dataResponse[readinessStatus]
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	store := dependencyStatus{Status: "ok", Driver: h.driver}
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			store = dependencyStatus{Status: "unhealthy", Driver: h.driver, Error: err.Error()}
		}
	}

	body := dataResponse[readinessStatus]{
		OK: store.Status == "ok",
		Data: readinessStatus{
			Status:       "ok",
			Dependencies: map[string]dependencyStatus{"store": store},
		},
	}
	httpStatus := http.StatusOK
	if !body.OK {
		body.Data.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	return c.JSON(httpStatus, body)
}
