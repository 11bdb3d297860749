package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kitchenlog/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service-layer error onto a status code. Anything
// outside the known taxonomy is a gateway failure and surfaces verbatim,
// so the client can retry the same logical operation.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvariantViolation):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("gateway failure", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
