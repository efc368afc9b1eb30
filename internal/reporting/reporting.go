// Package reporting forwards unexpected server errors to Sentry.
package reporting

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter receives errors that should reach an on-call human.
type Reporter interface {
	CaptureError(r *http.Request, err error)
	Flush(timeout time.Duration)
}

// New returns a Sentry-backed Reporter, or a no-op one when dsn is empty or
// the client cannot be initialized.
func New(dsn, environment, release string) Reporter {
	if dsn == "" {
		slog.Info("SENTRY_DSN not set, error reporting disabled")
		return Nop{}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		slog.Error("sentry initialization failed", "error", err)
		return Nop{}
	}

	slog.Info("sentry error reporting enabled", "environment", environment)
	return &Sentry{hub: sentry.CurrentHub()}
}

// Sentry reports to the Sentry project configured at Init.
type Sentry struct {
	hub *sentry.Hub
}

func (s *Sentry) CaptureError(r *http.Request, err error) {
	hub := s.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
			scope.SetTag("route", r.Pattern)
		}
		hub.CaptureException(err)
	})
}

func (s *Sentry) Flush(timeout time.Duration) {
	s.hub.Flush(timeout)
}

// Nop discards everything.
type Nop struct{}

func (Nop) CaptureError(*http.Request, error) {}
func (Nop) Flush(time.Duration)               {}
