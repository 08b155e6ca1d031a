package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrescriptionStatus represents the review lifecycle of a prescription
type PrescriptionStatus string

const (
	StatusPending  PrescriptionStatus = "pending"
	StatusApproved PrescriptionStatus = "approved"
	StatusRejected PrescriptionStatus = "rejected"
)

// ParseStatus validates a status value. Only the three lifecycle states
// are accepted.
func ParseStatus(s string) (PrescriptionStatus, bool) {
	switch PrescriptionStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return PrescriptionStatus(s), true
	}
	return "", false
}

// Terminal reports whether the status is a final review decision.
func (s PrescriptionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Prescription represents a prescription record. It is owned by exactly
// one patient; pharmacist_id is null until a pharmacist records a review
// decision, after which the status never changes again.
type Prescription struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string             `gorm:"type:varchar(255);not null" json:"name"`
	Dosage       string             `gorm:"type:varchar(255);not null" json:"dosage"`
	Status       PrescriptionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PatientID    string             `gorm:"type:varchar(128);not null;index" json:"patient_id"`
	Patient      *User              `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	PharmacistID *string            `gorm:"type:varchar(128);index" json:"pharmacist_id"`
	CreatedAt    time.Time          `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (Prescription) TableName() string {
	return "prescriptions"
}

// BeforeCreate hook
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreatePrescriptionRequest represents a request to add a prescription
type CreatePrescriptionRequest struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}
