// Package reporting forwards unexpected errors to Sentry.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// Reporter receives errors that were not expected by the request handlers.
type Reporter interface {
	Capture(err error, extras map[string]any)
	Flush()
}

// Options configures the Sentry client.
type Options struct {
	DSN         string
	Environment string
	Release     string
}

// New initialises Sentry and returns a Reporter backed by it. An empty DSN
// returns a Reporter that drops everything.
func New(opts Options) (Reporter, error) {
	if opts.DSN == "" {
		return Nop(), nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return &sentryReporter{hub: sentry.CurrentHub()}, nil
}

type sentryReporter struct {
	hub *sentry.Hub
}

func (r *sentryReporter) Capture(err error, extras map[string]any) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		r.hub.CaptureException(err)
	})
}

func (r *sentryReporter) Flush() {
	r.hub.Flush(flushTimeout)
}

// Nop returns a Reporter that discards errors.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Capture(error, map[string]any) {}
func (nopReporter) Flush() {}
