package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/maraichr/gradient/pkg/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError writes a structured error response and logs 5xx errors.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if e.Status() >= 500 && logger != nil {
		logger.Error(e.Message(), slog.String("code", string(e.Code())), slog.String("error", e.Error()))
	}
	writeJSON(w, e.Status(), e.Response())
}

// TooManyRequests is the limit handler for rate-limited routes.
func TooManyRequests(w http.ResponseWriter, _ *http.Request) {
	writeAPIError(w, nil, apierr.RateLimited())
}

// newRequestID returns a short id used to correlate one request's log lines.
func newRequestID() string {
	return uuid.New().String()[:8]
}
