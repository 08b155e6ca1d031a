package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/meditrack/meditrack-backend/internal/models"
)

// UserStore is the user directory surface the services need
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// PrescriptionStore is the prescription table surface the services need.
// Review must be an atomic conditional update guarded on status=pending.
type PrescriptionStore interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	ListAll(ctx context.Context) ([]models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	Review(ctx context.Context, id uuid.UUID, status models.PrescriptionStatus, pharmacistID string) (*models.Prescription, error)
}

// AuditStore records account and prescription actions
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
}
