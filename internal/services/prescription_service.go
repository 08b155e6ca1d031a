package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/rs/zerolog/log"
)

// PrescriptionService handles prescription business logic. All role
// checks go through the capability table; handlers never compare roles
// directly.
type PrescriptionService struct {
	prescriptions PrescriptionStore
	audit         AuditStore
}

// NewPrescriptionService creates a new prescription service
func NewPrescriptionService(prescriptions PrescriptionStore, audit AuditStore) *PrescriptionService {
	return &PrescriptionService{prescriptions: prescriptions, audit: audit}
}

// Create inserts a pending prescription owned by the caller. Only
// patients may create; name and dosage must be non-empty.
func (s *PrescriptionService) Create(ctx context.Context, caller *auth.Principal, req *models.CreatePrescriptionRequest) (*models.Prescription, error) {
	if !auth.Can(caller.Role, auth.CapCreatePrescription) {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Dosage) == "" {
		return nil, fmt.Errorf("%w: name and dosage are required", ErrInvalidInput)
	}

	prescription := &models.Prescription{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Status:    models.StatusPending,
		PatientID: caller.ID,
	}

	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, caller.ID, "prescription.create", prescription.ID.String(), nil)
	return prescription, nil
}

// List returns the prescriptions visible to the caller: every record for
// pharmacists, only the caller's own for patients.
func (s *PrescriptionService) List(ctx context.Context, caller *auth.Principal) ([]models.Prescription, error) {
	if auth.Can(caller.Role, auth.CapListAllPrescriptions) {
		return s.prescriptions.ListAll(ctx)
	}
	return s.prescriptions.ListByPatient(ctx, caller.ID)
}

// Review records a pharmacist's decision on a pending prescription. The
// transition happens at most once; a record already approved or rejected
// surfaces repository.ErrConflict and is left untouched.
func (s *PrescriptionService) Review(ctx context.Context, caller *auth.Principal, id uuid.UUID, decision models.PrescriptionStatus) (*models.Prescription, error) {
	if !auth.Can(caller.Role, auth.CapReviewPrescription) {
		return nil, ErrForbidden
	}

	if !decision.Terminal() {
		return nil, fmt.Errorf("%w: decision must be %q or %q", ErrInvalidInput, models.StatusApproved, models.StatusRejected)
	}

	prescription, err := s.prescriptions.Review(ctx, id, decision, caller.ID)
	action := "prescription." + string(decision)
	if err != nil {
		s.recordAudit(ctx, caller.ID, action, id.String(), err)
		return nil, err
	}

	s.recordAudit(ctx, caller.ID, action, id.String(), nil)
	return prescription, nil
}

func (s *PrescriptionService) recordAudit(ctx context.Context, userID, action, resourceID string, opErr error) {
	entry := &models.AuditEntry{
		UserID:     userID,
		Action:     action,
		ResourceID: resourceID,
		Status:     "success",
	}
	if opErr != nil {
		entry.Status = "failure"
		entry.ErrorMessage = opErr.Error()
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to record audit entry")
	}
}
