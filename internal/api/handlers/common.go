package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	api "holostream/internal/api/application"
	"holostream/internal/shared/validation"
)

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	if ctxLogger := r.Context().Value("logger"); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// respondValidationError sends a 400 listing the problems of a
// ValidationError, or a plain 400 for any other error
func respondValidationError(w http.ResponseWriter, message string, err error) {
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: message, Problems: valErr.Problems})
		return
	}
	respondJSONError(w, http.StatusBadRequest, message)
}
