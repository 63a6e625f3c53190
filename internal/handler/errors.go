package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/safesafar/backend/internal/domain"
)

// ErrorResponse is the JSON envelope for every error this API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are out
// of band at this point (headers already sent), so they are only logged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

// writeError maps a service error onto the HTTP taxonomy:
// validation and state-guard failures are the caller's fault (400),
// ownership mismatches 403, missing trips 404, scoring-service trouble
// 502. Anything unrecognized is a 500 with a generic message — internal
// detail stays in the log, not the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_state", unwrapMessage(err)))
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errBody("forbidden", "you do not have access to this trip"))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrMalformedUpstream):
		writeJSON(w, http.StatusBadGateway, errBody("upstream_unavailable", "safety service unavailable"))
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errBody("internal_error", "internal server error"))
	}
}

func errBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: destination
// coordinates are required" → "destination coordinates are required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrInvalidState.Error(),
	} {
		if i := strings.Index(msg, sentinel+": "); i >= 0 {
			return msg[i+len(sentinel)+2:]
		}
	}
	return msg
}
