package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

// -- Mock Repositories --

type mockRepo struct {
	recs map[uuid.UUID]*Recommendation
}

func newMockRepo() *mockRepo {
	return &mockRepo{recs: make(map[uuid.UUID]*Recommendation)}
}

func (m *mockRepo) Create(_ context.Context, r *Recommendation) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.recs[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Recommendation, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) (*Recommendation, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	copied := *r
	return &copied, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, status *Status, limit, offset int) ([]*Recommendation, int, error) {
	var items []*Recommendation
	for _, r := range m.recs {
		if r.DoctorID == doctorID && (status == nil || r.Status == *status) {
			items = append(items, r)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, status *Status, limit, offset int) ([]*Recommendation, int, error) {
	var items []*Recommendation
	for _, r := range m.recs {
		if r.PatientID == patientID && (status == nil || r.Status == *status) {
			items = append(items, r)
		}
	}
	return items, len(items), nil
}

type mockDirectory struct {
	doctorID    uuid.UUID
	doctorUser  uuid.UUID
	patientID   uuid.UUID
	patientUser uuid.UUID
}

func (m *mockDirectory) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return id == m.doctorID, nil
}

func (m *mockDirectory) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return id == m.patientID, nil
}

func (m *mockDirectory) DoctorIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if userID != m.doctorUser {
		return uuid.Nil, ErrDoctorNotFound
	}
	return m.doctorID, nil
}

func (m *mockDirectory) PatientIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if userID != m.patientUser {
		return uuid.Nil, ErrPatientNotFound
	}
	return m.patientID, nil
}

type fixture struct {
	svc     *Service
	repo    *mockRepo
	dir     *mockDirectory
	doctor  auth.Principal
	patient auth.Principal
}

func newFixture() *fixture {
	dir := &mockDirectory{
		doctorID:    uuid.New(),
		doctorUser:  uuid.New(),
		patientID:   uuid.New(),
		patientUser: uuid.New(),
	}
	repo := newMockRepo()
	return &fixture{
		svc:     NewService(repo, dir),
		repo:    repo,
		dir:     dir,
		doctor:  auth.Principal{UserID: dir.doctorUser, Role: auth.RoleDoctor},
		patient: auth.Principal{UserID: dir.patientUser, Role: auth.RolePatient},
	}
}

func (f *fixture) create(t *testing.T) *Recommendation {
	t.Helper()
	desc := "Walk 30 minutes daily"
	rec, err := f.svc.Create(context.Background(), f.doctor, CreateInput{
		PatientID:   f.dir.patientID,
		Type:        "Lifestyle",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec
}

// -- Tests --

func TestCreate_StartsActive(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	if rec.Status != StatusActive {
		t.Errorf("expected ACTIVE, got %s", rec.Status)
	}
	if rec.DoctorID != f.dir.doctorID {
		t.Error("expected doctor resolved from the caller")
	}
	if rec.Type != "Lifestyle" {
		t.Errorf("expected category carried through, got %q", rec.Type)
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.doctor, CreateInput{
		PatientID: uuid.New(),
		Type:      "Lifestyle",
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestCreate_RequiresType(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.doctor, CreateInput{
		PatientID: f.dir.patientID,
		Type:      "   ",
	})
	if err == nil {
		t.Error("expected validation error for blank type")
	}
}

func TestCreate_NonDoctorCaller(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.patient, CreateInput{
		PatientID: f.dir.patientID,
		Type:      "Lifestyle",
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestSetStatus_ValidTransitions(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	for _, status := range []Status{StatusPending, StatusCompleted, StatusActive} {
		updated, err := f.svc.SetStatus(context.Background(), rec.ID, status)
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("expected %s, got %s", status, updated.Status)
		}
	}
}

func TestSetStatus_InvalidLeavesRecordUnchanged(t *testing.T) {
	f := newFixture()
	rec := f.create(t)

	_, err := f.svc.SetStatus(context.Background(), rec.ID, Status("ARCHIVED"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	got, _ := f.svc.Get(context.Background(), rec.ID)
	if got.Status != StatusActive {
		t.Errorf("expected status unchanged, got %s", got.Status)
	}
}

func TestSetStatus_UnknownRecommendation(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.SetStatus(context.Background(), uuid.New(), StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus_SameStatusIsIdempotent(t *testing.T) {
	f := newFixture()
	rec := f.create(t)
	before, _ := f.svc.Get(context.Background(), rec.ID)

	updated, err := f.svc.SetStatus(context.Background(), rec.ID, StatusActive)
	if err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
	if !updated.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("expected record untouched when status is unchanged")
	}
}

func TestListForPrincipal(t *testing.T) {
	f := newFixture()
	f.create(t)
	rec := f.create(t)
	f.svc.SetStatus(context.Background(), rec.ID, StatusCompleted)

	items, total, err := f.svc.ListForPrincipal(context.Background(), f.patient, nil, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(items))
	}

	active := StatusActive
	items, _, err = f.svc.ListForPrincipal(context.Background(), f.doctor, &active, 20, 0)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 active recommendation, got %d", len(items))
	}

	bogus := Status("BOGUS")
	if _, _, err := f.svc.ListForPrincipal(context.Background(), f.doctor, &bogus, 20, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for bogus filter, got %v", err)
	}
}
