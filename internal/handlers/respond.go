package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/meditrack/meditrack-backend/internal/services"
	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondErrorMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service and repository errors onto the HTTP error
// taxonomy. Anything unrecognized is an internal failure: the detail is
// logged and only a generic message leaves the process.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondErrorMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrNotFound):
		respondErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		respondErrorMessage(w, http.StatusConflict, "conflict")
	case errors.Is(err, auth.ErrVerifierUnavailable):
		respondErrorMessage(w, http.StatusServiceUnavailable, "identity verifier unavailable")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
