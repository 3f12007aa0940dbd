// Package reporting forwards panics and server errors to Sentry when a DSN is
// configured. Every function is a no-op otherwise.
package reporting

import (
	"fmt"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"github.com/reelscout/reelscout/internal/config"
)

// FlushTime bounds how long Flush waits for buffered events.
var FlushTime = 2 * time.Second

var enabled bool

// Init configures the Sentry client. It returns false without error when no
// DSN is configured.
func Init(cfg config.SentryConfig, release string) (bool, error) {
	if cfg.DSN == "" {
		enabled = false
		return false, nil
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	enabled = true
	return true, nil
}

// Enabled reports whether events are being sent.
func Enabled() bool { return enabled }

// Middleware returns the echo middleware that attaches a hub to each request
// and reports panics before re-raising them for Recover.
func Middleware() echo.MiddlewareFunc {
	return sentryecho.New(sentryecho.Options{Repanic: true})
}

// CaptureError reports err with the request's hub, falling back to the
// global hub outside a request.
func CaptureError(c echo.Context, err error) {
	if !enabled || err == nil {
		return
	}
	hub := sentrygo.CurrentHub()
	if c != nil {
		if h := sentryecho.GetHubFromContext(c); h != nil {
			hub = h
		}
	}
	hub.CaptureException(err)
}

// Flush waits up to FlushTime for queued events to be delivered.
func Flush() {
	if enabled {
		sentrygo.Flush(FlushTime)
	}
}
