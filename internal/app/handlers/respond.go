package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkhwld/store-backend/internal/lib/apperr"
)

// ErrorResponse — единый JSON-конверт ошибок API.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError переводит ошибки таксономии в HTTP-статусы:
// ValidationError → 400, NotFoundError → 404, UpstreamError и
// MisconfigurationError → 500. Все прочее — generic 500 без деталей.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(log, w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeJSON(log, w, http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
		return
	}

	var upstreamErr *apperr.UpstreamError
	if errors.As(err, &upstreamErr) {
		writeJSON(log, w, http.StatusInternalServerError, ErrorResponse{Error: upstreamErr.Error()})
		return
	}

	var misconfErr *apperr.MisconfigurationError
	if errors.As(err, &misconfErr) {
		writeJSON(log, w, http.StatusInternalServerError, ErrorResponse{Error: misconfErr.Error()})
		return
	}

	writeJSON(log, w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
