package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/answerhub/answerhub/internal/auth"
	"github.com/answerhub/answerhub/internal/validate"
	"github.com/answerhub/answerhub/pkg/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps the domain error taxonomy onto HTTP status classes. Only
// domain errors carry their message through; anything unrecognized is an
// internal failure and gets a generic body so persistence-layer details never
// leak into a response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalid),
		errors.Is(err, repository.ErrInvalidID),
		errors.Is(err, repository.ErrImmutableField):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrAlreadyVoted),
		errors.Is(err, repository.ErrNotVoted):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrRevokedToken):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusUnauthorized)
	default:
		logger.Error("internal error", slog.Any("err", err))
		writeJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
	}
}
