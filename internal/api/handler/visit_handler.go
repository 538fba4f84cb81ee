package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techvisits/visits-manager/internal/api/metrics"
	"github.com/techvisits/visits-manager/internal/core/ports"
)

// VisitHandler handles HTTP requests for visit operations.
type VisitHandler struct {
	service ports.VisitService
	metrics *metrics.Metrics
}

func NewVisitHandler(service ports.VisitService, m *metrics.Metrics) *VisitHandler {
	return &VisitHandler{service: service, metrics: m}
}

// List handles GET /api/visits.
//
// @Summary      List visits
// @Tags         visits
// @Produce      json
// @Success      200  {object}  dataResponse[[]visitResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /api/visits [get]
func (h *VisitHandler) List(c echo.Context) error {
	visits, err := h.service.ListVisits(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(toVisitResponses(visits)))
}

// ListByClient handles GET /api/visits/client/:clientId.
//
// @Summary      List the visits of a client
// @Tags         visits
// @Produce      json
// @Param        clientId  path      string  true  "Client ID"
// @Success      200       {object}  dataResponse[[]visitResponse]
// @Failure      500       {object}  ErrorResponse
// @Router       /api/visits/client/{clientId} [get]
func (h *VisitHandler) ListByClient(c echo.Context) error {
	visits, err := h.service.ListVisitsByClient(c.Request().Context(), c.Param("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(toVisitResponses(visits)))
}

// Create handles POST /api/visits.
//
// @Summary      Record a visit
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        body  body      createVisitRequest  true  "Visit details"
// @Success      201   {object}  dataResponse[visitResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/visits [post]
func (h *VisitHandler) Create(c echo.Context) error {
	var req createVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	visit, err := h.service.CreateVisit(c.Request().Context(), toCreateVisitInput(req))
	if err != nil {
		return err
	}

	h.metrics.VisitsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, ok(toVisitResponse(*visit)))
}

// Delete handles DELETE /api/visits/:id.
//
// @Summary      Delete a visit
// @Tags         visits
// @Produce      json
// @Param        id   path      string  true  "Visit ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/visits/{id} [delete]
func (h *VisitHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteVisit(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	h.metrics.VisitsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, done("visit deleted"))
}
