package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/metrics"
	"github.com/msomdec/engineers/internal/pipeline"
)

const notAuthorized = "Not authorized"

// writeFailure is the FailureFunc shared by every route. Unauthorized
// callers get a plain-text 401; every other failure is a JSON message.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context()).With("method", r.Method, "path", r.URL.Path)

	if errors.Is(err, domain.ErrUnauthorized) {
		metrics.StageFailuresTotal.WithLabelValues("unauthorized").Inc()
		logger.Warn("request not authorized", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, notAuthorized)
		return
	}

	status := http.StatusBadRequest
	message := err.Error()
	var perr *pipeline.Error
	if errors.As(err, &perr) {
		status = perr.Status
		message = perr.Message
	}

	metrics.StageFailuresTotal.WithLabelValues(failureKind(err)).Inc()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeMessage(w, status, message)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "bad_request"
	}
}
