package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/meditrack/meditrack-backend/internal/services"
)

type fakePrescriptionStore struct {
	mu      sync.Mutex
	records []*models.Prescription
}

func (f *fakePrescriptionStore) Create(ctx context.Context, p *models.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	clone := *p
	f.records = append(f.records, &clone)
	return nil
}

func (f *fakePrescriptionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.records {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrescriptionStore) ListAll(ctx context.Context) ([]models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Prescription, 0, len(f.records))
	for _, p := range f.records {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePrescriptionStore) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Prescription
	for _, p := range f.records {
		if p.PatientID == patientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Review mirrors the conditional update the real repository issues: the
// transition only happens when the record is still pending.
func (f *fakePrescriptionStore) Review(ctx context.Context, id uuid.UUID, status models.PrescriptionStatus, pharmacistID string) (*models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.records {
		if p.ID != id {
			continue
		}
		if p.Status != models.StatusPending {
			return nil, repository.ErrConflict
		}
		p.Status = status
		p.PharmacistID = &pharmacistID
		clone := *p
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (f *fakeAuditStore) Create(ctx context.Context, e *models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *e)
	return nil
}

var (
	patient    = &auth.Principal{ID: "patient-1", Email: "p@example.com", Role: models.RolePatient}
	pharmacist = &auth.Principal{ID: "pharm-1", Email: "ph@example.com", Role: models.RolePharmacist}
)

func newPrescriptionService() (*services.PrescriptionService, *fakePrescriptionStore, *fakeAuditStore) {
	store := &fakePrescriptionStore{}
	audit := &fakeAuditStore{}
	return services.NewPrescriptionService(store, audit), store, audit
}

func TestCreateRequiresPatientRole(t *testing.T) {
	svc, _, _ := newPrescriptionService()

	req := &models.CreatePrescriptionRequest{Name: "Amoxicillin", Dosage: "500mg"}
	if _, err := svc.Create(context.Background(), pharmacist, req); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("pharmacist create: err = %v, want ErrForbidden", err)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	svc, _, _ := newPrescriptionService()
	ctx := context.Background()

	for _, req := range []*models.CreatePrescriptionRequest{
		{Name: "", Dosage: "500mg"},
		{Name: "Amoxicillin", Dosage: ""},
		{Name: "   ", Dosage: "500mg"},
	} {
		if _, err := svc.Create(ctx, patient, req); !errors.Is(err, services.ErrInvalidInput) {
			t.Errorf("Create(%+v): err = %v, want ErrInvalidInput", req, err)
		}
	}
}

func TestCreateInsertsPendingRecord(t *testing.T) {
	svc, _, _ := newPrescriptionService()

	p, err := svc.Create(context.Background(), patient, &models.CreatePrescriptionRequest{Name: "Amoxicillin", Dosage: "500mg"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", p.Status)
	}
	if p.PatientID != patient.ID {
		t.Errorf("patient_id = %q, want %q", p.PatientID, patient.ID)
	}
	if p.PharmacistID != nil {
		t.Errorf("pharmacist_id = %v, want nil", *p.PharmacistID)
	}
}

func TestListFiltersByRole(t *testing.T) {
	svc, _, _ := newPrescriptionService()
	ctx := context.Background()

	otherPatient := &auth.Principal{ID: "patient-2", Role: models.RolePatient}

	svc.Create(ctx, patient, &models.CreatePrescriptionRequest{Name: "A", Dosage: "1mg"})
	svc.Create(ctx, otherPatient, &models.CreatePrescriptionRequest{Name: "B", Dosage: "2mg"})
	svc.Create(ctx, patient, &models.CreatePrescriptionRequest{Name: "C", Dosage: "3mg"})

	own, err := svc.List(ctx, patient)
	if err != nil {
		t.Fatalf("List as patient failed: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("patient sees %d records, want 2", len(own))
	}
	for _, p := range own {
		if p.PatientID != patient.ID {
			t.Errorf("patient listing leaked record owned by %q", p.PatientID)
		}
	}

	all, err := svc.List(ctx, pharmacist)
	if err != nil {
		t.Fatalf("List as pharmacist failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("pharmacist sees %d records, want 3", len(all))
	}
}

func TestReviewRequiresPharmacistRole(t *testing.T) {
	svc, _, _ := newPrescriptionService()

	if _, err := svc.Review(context.Background(), patient, uuid.New(), models.StatusApproved); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("patient review: err = %v, want ErrForbidden", err)
	}
}

func TestReviewRejectsNonTerminalDecision(t *testing.T) {
	svc, _, _ := newPrescriptionService()

	if _, err := svc.Review(context.Background(), pharmacist, uuid.New(), models.StatusPending); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("review to pending: err = %v, want ErrInvalidInput", err)
	}
}

func TestReviewTransitionsOnce(t *testing.T) {
	svc, _, _ := newPrescriptionService()
	ctx := context.Background()

	created, err := svc.Create(ctx, patient, &models.CreatePrescriptionRequest{Name: "A", Dosage: "1mg"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	approved, err := svc.Review(ctx, pharmacist, created.ID, models.StatusApproved)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if approved.PharmacistID == nil || *approved.PharmacistID != pharmacist.ID {
		t.Errorf("pharmacist_id = %v, want %q", approved.PharmacistID, pharmacist.ID)
	}

	// Second decision must fail and leave the record untouched
	secondPharmacist := &auth.Principal{ID: "pharm-2", Role: models.RolePharmacist}
	if _, err := svc.Review(ctx, secondPharmacist, created.ID, models.StatusRejected); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second review: err = %v, want ErrConflict", err)
	}

	listed, _ := svc.List(ctx, pharmacist)
	if listed[0].Status != models.StatusApproved {
		t.Errorf("record status changed to %q after rejected second review", listed[0].Status)
	}
	if *listed[0].PharmacistID != pharmacist.ID {
		t.Errorf("reviewing pharmacist overwritten to %q", *listed[0].PharmacistID)
	}
}

func TestReviewMissingRecord(t *testing.T) {
	svc, _, _ := newPrescriptionService()

	if _, err := svc.Review(context.Background(), pharmacist, uuid.New(), models.StatusApproved); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("review of missing record: err = %v, want ErrNotFound", err)
	}
}

func TestReviewWritesAuditEntry(t *testing.T) {
	svc, _, audit := newPrescriptionService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, patient, &models.CreatePrescriptionRequest{Name: "A", Dosage: "1mg"})
	svc.Review(ctx, pharmacist, created.ID, models.StatusApproved)

	var found bool
	for _, e := range audit.entries {
		if e.Action == "prescription.approved" && e.UserID == pharmacist.ID && e.Status == "success" {
			found = true
		}
	}
	if !found {
		t.Error("approve left no success audit entry for the pharmacist")
	}
}
