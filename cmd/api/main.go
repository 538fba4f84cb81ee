// Command api serves the Tech Visits Manager HTTP API.
//
// @title        Tech Visits Manager API
// @version      1.0
// @description  Client and visit record keeping over flat JSON collections.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/techvisits/visits-manager/internal/api"
	"github.com/techvisits/visits-manager/internal/api/metrics"
	"github.com/techvisits/visits-manager/internal/infrastructure/db/storage"
	"github.com/techvisits/visits-manager/internal/pkg/config"
	"github.com/techvisits/visits-manager/internal/pkg/reporting"
	"github.com/techvisits/visits-manager/pkg/logger"
)

const serviceName = "visits-manager"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		// The logger may not exist yet when configuration fails.
		os.Stderr.WriteString("visits-manager: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	reporter, err := reporting.New(reporting.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Env,
		Release:     serviceName + "@" + version,
	})
	if err != nil {
		return err
	}
	defer reporter.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	stores, err := storage.Open(ctx, cfg, log, m.StoreFallbacksTotal)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	e := api.NewRouter(api.Options{
		Stores:    stores,
		Logger:    log,
		Reporter:  reporter,
		Metrics:   m,
		Registry:  registry,
		JWTSecret: cfg.JWTSecret,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("store", stores.Driver).
			Bool("auth", cfg.JWTSecret != "").
			Msg("API listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
