package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meditrack/meditrack-backend/internal/middleware"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/meditrack/meditrack-backend/internal/services"
)

type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
}

func NewPrescriptionHandler(prescriptions *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions}
}

// List returns the prescriptions visible to the caller
func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	prescriptions, err := h.prescriptions.List(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, prescriptions)
}

// Create adds a pending prescription owned by the calling patient
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req models.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prescription, err := h.prescriptions.Create(r.Context(), principal, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, prescription)
}

// Approve transitions a pending prescription to approved
func (h *PrescriptionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusApproved)
}

// Reject transitions a pending prescription to rejected
func (h *PrescriptionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusRejected)
}

func (h *PrescriptionHandler) review(w http.ResponseWriter, r *http.Request, decision models.PrescriptionStatus) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// A malformed id cannot reference any record
		respondErrorMessage(w, http.StatusNotFound, "prescription not found")
		return
	}

	prescription, err := h.prescriptions.Review(r.Context(), principal, id, decision)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, prescription)
}
