package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techvisits/visits-manager/internal/api/metrics"
	"github.com/techvisits/visits-manager/internal/core/ports"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	service ports.ClientService
	metrics *metrics.Metrics
}

func NewClientHandler(service ports.ClientService, m *metrics.Metrics) *ClientHandler {
	return &ClientHandler{service: service, metrics: m}
}

// List handles GET /api/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {object}  dataResponse[[]clientResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(toClientResponses(clients)))
}

// Create handles POST /api/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  dataResponse[clientResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.service.CreateClient(c.Request().Context(), toCreateClientInput(req))
	if err != nil {
		return err
	}

	h.metrics.ClientsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, ok(toClientResponse(*client)))
}

// Delete handles DELETE /api/clients/:id. Visits of the client are kept.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	h.metrics.ClientsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, done("client deleted"))
}
