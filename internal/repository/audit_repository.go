package repository

import (
	"context"
	"fmt"

	"github.com/meditrack/meditrack-backend/internal/database"
	"github.com/meditrack/meditrack-backend/internal/models"
)

// AuditRepository handles audit trail database operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create creates a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListByUser retrieves audit entries for a user, newest first
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	query := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, nil
}
