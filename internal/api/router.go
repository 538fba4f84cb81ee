package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/techvisits/visits-manager/docs"
	"github.com/techvisits/visits-manager/internal/api/handler"
	"github.com/techvisits/visits-manager/internal/api/metrics"
	"github.com/techvisits/visits-manager/internal/api/middleware"
	"github.com/techvisits/visits-manager/internal/core/service"
	"github.com/techvisits/visits-manager/internal/infrastructure/db/storage"
	"github.com/techvisits/visits-manager/internal/pkg/reporting"
)

// Options carries the dependencies of the HTTP layer. Stores is required.
// A nil Reporter disables error reporting. A nil Registry or Metrics is
// replaced by a fresh registry with the domain metrics registered on it.
type Options struct {
	Stores   *storage.Stores
	Logger   zerolog.Logger
	Reporter reporting.Reporter
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	// JWTSecret enables bearer authentication on /api when non-empty.
	JWTSecret string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	if opts.Reporter == nil {
		opts.Reporter = reporting.Nop()
	}
	if opts.Registry == nil {
		opts.Registry = metrics.NewRegistry()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(opts.Registry)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger, opts.Reporter)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "visits",
		Subsystem:  "http",
		Registerer: opts.Registry,
	}))

	// --- Dependencies ---
	clientService := service.NewClientService(opts.Stores.Clients, opts.Logger)
	visitService := service.NewVisitService(opts.Stores.Visits, opts.Stores.Clients, opts.Logger)
	clientHandler := handler.NewClientHandler(clientService, opts.Metrics)
	visitHandler := handler.NewVisitHandler(visitService, opts.Metrics)
	healthHandler := handler.NewHealthHandler(opts.Stores.Driver, opts.Stores.Ping)

	// --- Health probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	api := e.Group("/api")
	if opts.JWTSecret != "" {
		api.Use(middleware.Auth(opts.JWTSecret))
	}

	api.GET("/clients", clientHandler.List)
	api.POST("/clients", clientHandler.Create)
	api.DELETE("/clients/:id", clientHandler.Delete)

	api.GET("/visits", visitHandler.List)
	api.POST("/visits", visitHandler.Create)
	api.GET("/visits/client/:clientId", visitHandler.ListByClient)
	api.DELETE("/visits/:id", visitHandler.Delete)

	return e
}
