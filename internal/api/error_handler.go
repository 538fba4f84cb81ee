package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/api/handler"
	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/pkg/reporting"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs and reports unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"ok": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, reporter reporting.Reporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, reporter, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.Failure(msg))
	}
}

func resolveError(err error, log zerolog.Logger, reporter reporting.Reporter, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return http.StatusBadRequest, domain.ErrNameRequired.Error()
	case errors.Is(err, domain.ErrClientIDRequired):
		return http.StatusBadRequest, domain.ErrClientIDRequired.Error()
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "client not found"
	case errors.Is(err, domain.ErrVisitNotFound):
		return http.StatusNotFound, "visit not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	reporter.Capture(err, map[string]any{
		"method": c.Request().Method,
		"path":   c.Path(),
	})

	return http.StatusInternalServerError, "internal server error"
}
