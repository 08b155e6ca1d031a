package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/meditrack/meditrack-backend/internal/services"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[u.ID]; exists {
		return repository.ErrConflict
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func TestCreateUserRejectsInvalidRole(t *testing.T) {
	svc := services.NewAccountService(newFakeUserStore(), &fakeAuditStore{})
	caller := &auth.Principal{ID: "subject-1", Email: "a@example.com"}

	for _, role := range []string{"", "admin", "Patient"} {
		req := &models.CreateUserRequest{Email: "a@example.com", Name: "Alice", Role: role}
		if _, err := svc.CreateUser(context.Background(), caller, req); !errors.Is(err, services.ErrInvalidInput) {
			t.Errorf("CreateUser(role=%q): err = %v, want ErrInvalidInput", role, err)
		}
	}
}

func TestCreateUserKeyedBySubject(t *testing.T) {
	svc := services.NewAccountService(newFakeUserStore(), &fakeAuditStore{})
	caller := &auth.Principal{ID: "subject-1", Email: "a@example.com"}

	user, err := svc.CreateUser(context.Background(), caller, &models.CreateUserRequest{
		Email: "a@example.com",
		Name:  "Alice",
		Role:  "patient",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID != "subject-1" {
		t.Errorf("id = %q, want the verified subject id", user.ID)
	}
	if user.Role != models.RolePatient {
		t.Errorf("role = %q, want patient", user.Role)
	}
}

func TestCreateUserDuplicateFails(t *testing.T) {
	svc := services.NewAccountService(newFakeUserStore(), &fakeAuditStore{})
	caller := &auth.Principal{ID: "subject-1"}
	req := &models.CreateUserRequest{Email: "a@example.com", Name: "Alice", Role: "patient"}

	if _, err := svc.CreateUser(context.Background(), caller, req); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), caller, req); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("second CreateUser: err = %v, want ErrConflict", err)
	}
}

func TestGetProfileRoundTrip(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAccountService(store, &fakeAuditStore{})
	caller := &auth.Principal{ID: "subject-1"}

	created, err := svc.CreateUser(context.Background(), caller, &models.CreateUserRequest{
		Email: "a@example.com",
		Name:  "Alice",
		Role:  "pharmacist",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := svc.GetProfile(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Role != models.RolePharmacist {
		t.Errorf("profile role = %q, want the role set at creation", got.Role)
	}
	if got.Email != created.Email || got.Name != created.Name {
		t.Errorf("profile = %+v, want the created record verbatim", got)
	}
}

func TestGetProfileMissing(t *testing.T) {
	svc := services.NewAccountService(newFakeUserStore(), &fakeAuditStore{})

	if _, err := svc.GetProfile(context.Background(), "absent"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetProfile on absent user: err = %v, want ErrNotFound", err)
	}
}
