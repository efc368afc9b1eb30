package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/reporting"
)

// errorWriter maps service errors onto HTTP responses. Anything it does not
// recognize is a 500, logged and reported.
type errorWriter struct {
	reporter reporting.Reporter
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "An account with that email already exists.")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, domain.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer realm="livewell"`)
		writeError(w, http.StatusUnauthorized, "Authentication required.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrGateway):
		slog.Warn("telecom gateway failure", "route", r.Pattern, "error", err)
		writeError(w, http.StatusBadGateway, "The telecom gateway could not complete the request.")
	default:
		slog.Error("request failed", "method", r.Method, "route", r.Pattern, "request_id", RequestIDFromContext(r.Context()), "error", err)
		if e.reporter != nil {
			e.reporter.CaptureError(r, err)
		}
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}
