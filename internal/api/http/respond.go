package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an infrastructure failure and surfaces
// as a retryable 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr    *domain.ValidationError
		conflictErr      *domain.ConflictError
		stateErr         *domain.StateError
		authorizationErr *domain.AuthorizationError
		notFoundErr      *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "VALIDATION"})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "CONFLICT"})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "STATE"})
	case errors.As(err, &authorizationErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error(), Code: "AUTHORIZATION"})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error, retry later", Code: "INTERNAL"})
	}
}
