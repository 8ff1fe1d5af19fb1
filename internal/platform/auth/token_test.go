package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParseToken(t *testing.T) {
	p := Principal{
		UserID:    uuid.New(),
		Role:      RoleDoctor,
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	raw, err := IssueToken(p, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got, err := ParseToken(raw, testSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if got.UserID != p.UserID {
		t.Errorf("expected user id %s, got %s", p.UserID, got.UserID)
	}
	if got.Role != RoleDoctor {
		t.Errorf("expected role DOCTOR, got %s", got.Role)
	}
	if got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("name claims not round-tripped: %+v", got)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, err := IssueToken(Principal{UserID: uuid.New(), Role: RolePatient}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseToken(raw, "another-secret-another-secret-32"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	raw, err := IssueToken(Principal{UserID: uuid.New(), Role: RolePatient}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseToken(raw, testSecret); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestParseToken_UnknownRole(t *testing.T) {
	raw, err := IssueToken(Principal{UserID: uuid.New(), Role: "SUPERUSER"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseToken(raw, testSecret); err == nil {
		t.Error("expected error for unknown role claim")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Error("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Error("expected password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}
