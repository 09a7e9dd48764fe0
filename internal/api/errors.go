package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shareit/internal/service"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeServiceError translates a domain error into its HTTP status.
// Access by the wrong role is a ValidationError and therefore 400, never 403.
func writeServiceError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	var (
		stateErr      *service.BookingStateError
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
	)

	switch {
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: stateErr.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation error", Description: validationErr.Message})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Description: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict", Description: conflictErr.Message})
	default:
		logger.Error().Err(err).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Description: err.Error()})
	}
}

func badRequest(format string, args ...any) error {
	return &service.ValidationError{Message: fmt.Sprintf(format, args...)}
}
