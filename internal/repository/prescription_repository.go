package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meditrack/meditrack-backend/internal/database"
	"github.com/meditrack/meditrack-backend/internal/models"
	"gorm.io/gorm"
)

// PrescriptionRepository handles prescription database operations
type PrescriptionRepository struct{}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{}
}

// Create inserts a new prescription
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Create(prescription).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

// GetByID retrieves a prescription by id
func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&prescription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// ListAll retrieves every prescription with its patient summary, oldest
// first. Used by pharmacists.
func (r *PrescriptionRepository) ListAll(ctx context.Context) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Preload("Patient").
		Order("created_at ASC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// ListByPatient retrieves the prescriptions owned by one patient, oldest
// first.
func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// Review performs the pending -> approved/rejected transition as a single
// conditional update. The WHERE clause on status serializes concurrent
// reviewers at the store: the loser matches zero rows and gets
// ErrConflict instead of overwriting the earlier decision.
func (r *PrescriptionRepository) Review(ctx context.Context, id uuid.UUID, status models.PrescriptionStatus, pharmacistID string) (*models.Prescription, error) {
	res := database.DB.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"pharmacist_id": pharmacistID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to review prescription: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Either the record is absent or it was already decided;
		// re-read to tell the two apart.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}

	return r.GetByID(ctx, id)
}
