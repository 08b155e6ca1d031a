package services

import (
	"context"
	"fmt"

	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/rs/zerolog/log"
)

// AccountService handles user directory business logic
type AccountService struct {
	users UserStore
	audit AuditStore
}

// NewAccountService creates a new account service
func NewAccountService(users UserStore, audit AuditStore) *AccountService {
	return &AccountService{users: users, audit: audit}
}

// CreateUser provisions a directory record for the verified subject. The
// record id comes from the caller's verified identity, never from the
// body. Role must be one of the closed enumeration values, and a second
// create for the same subject fails with a conflict.
func (s *AccountService) CreateUser(ctx context.Context, caller *auth.Principal, req *models.CreateUserRequest) (*models.User, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, models.RolePatient, models.RolePharmacist)
	}

	user := &models.User{
		ID:    caller.ID,
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.recordAudit(ctx, caller.ID, "user.create", caller.ID, err)
		return nil, err
	}

	s.recordAudit(ctx, caller.ID, "user.create", caller.ID, nil)
	return user, nil
}

// GetProfile returns the caller's directory record
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// recordAudit writes an audit entry best-effort; failures are logged and
// never surfaced to the caller.
func (s *AccountService) recordAudit(ctx context.Context, userID, action, resourceID string, opErr error) {
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
