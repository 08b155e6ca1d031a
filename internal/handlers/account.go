package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meditrack/meditrack-backend/internal/middleware"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/meditrack/meditrack-backend/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// CreateUser provisions an account for the verified caller
func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), principal, &req)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			respondErrorMessage(w, http.StatusConflict, "user already exists")
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Profile returns the caller's directory record
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	user, err := h.accounts.GetProfile(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondErrorMessage(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
