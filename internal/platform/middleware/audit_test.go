package middleware

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

// mockRecorder collects audit entries for assertions.
type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error // if set, RecordAccess returns this error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func withPrincipal(c echo.Context, p auth.Principal) {
	ctx := auth.WithPrincipal(c.Request().Context(), p)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestAudit_RecordsAPIAccess(t *testing.T) {
	rec := &mockRecorder{}
	mw := Audit(zerolog.Nop(), rec)

	doctorID := uuid.New()
	c, _ := newContext(http.MethodGet, "/api/v1/appointments", "")
	withPrincipal(c, auth.Principal{UserID: doctorID, Role: auth.RoleDoctor})

	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 entry, got %d", rec.count())
	}

	entry := rec.last()
	if entry.UserID != doctorID.String() {
		t.Errorf("expected user id %s, got %s", doctorID, entry.UserID)
	}
	if entry.UserRole != auth.RoleDoctor {
		t.Errorf("expected role DOCTOR, got %s", entry.UserRole)
	}
	if entry.Resource != "appointments" {
		t.Errorf("expected resource appointments, got %s", entry.Resource)
	}
	if entry.Action != "read" {
		t.Errorf("expected action read, got %s", entry.Action)
	}
}

func TestAudit_SkipsNonAPIRoutes(t *testing.T) {
	rec := &mockRecorder{}
	mw := Audit(zerolog.Nop(), rec)

	c, _ := newContext(http.MethodGet, "/health", "")
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no entries for /health, got %d", rec.count())
	}
}

func TestAudit_ExtractsPatientIDFromPath(t *testing.T) {
	rec := &mockRecorder{}
	mw := Audit(zerolog.Nop(), rec)

	pid := uuid.New()
	c, _ := newContext(http.MethodGet, "/api/v1/patients/"+pid.String()+"/history", "")
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.last().PatientID; got != pid.String() {
		t.Errorf("expected patient id %s, got %q", pid, got)
	}
}

func TestAudit_RecorderFailureDoesNotFailRequest(t *testing.T) {
	rec := &mockRecorder{err: errors.New("disk full")}
	mw := Audit(zerolog.Nop(), rec)

	c, httpRec := newContext(http.MethodPost, "/api/v1/appointments", "")
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if httpRec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", httpRec.Code)
	}
}

func TestMethodToAction(t *testing.T) {
	cases := map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPatch:  "update",
		http.MethodPut:    "update",
		http.MethodDelete: "delete",
	}
	for method, want := range cases {
		if got := methodToAction(method); got != want {
			t.Errorf("%s: expected %s, got %s", method, want, got)
		}
	}
}
