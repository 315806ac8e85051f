package sessions

import (
	"errors"
	"testing"
	"time"
)

func setupTestService(t *testing.T, duration time.Duration) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir(), duration)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestCreateAndValidate(t *testing.T) {
	svc := setupTestService(t, time.Hour)

	session, err := svc.Create("account-1", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if session.AccountID != "account-1" {
		t.Errorf("account id = %q", session.AccountID)
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		t.Error("expected expiry after creation time")
	}

	got, err := svc.Validate(session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got.AccountID != "account-1" {
		t.Errorf("validated session account = %q", got.AccountID)
	}
}

func TestValidate_Errors(t *testing.T) {
	svc := setupTestService(t, time.Hour)

	if _, err := svc.Validate(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Validate("bogus"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestValidate_ExpiredSessionIsDropped(t *testing.T) {
	svc := setupTestService(t, time.Millisecond)

	session, err := svc.Create("account-1", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := svc.Validate(session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// The expired session is removed, later checks see not-found.
	if _, err := svc.Validate(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after cleanup, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	svc := setupTestService(t, time.Hour)

	session, err := svc.Create("account-1", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Revoke(session.Token); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := svc.Validate(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected revoked session to be gone, got %v", err)
	}
	if err := svc.Revoke(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double revoke, got %v", err)
	}
}

func TestRevokeAllForAccount(t *testing.T) {
	svc := setupTestService(t, time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create("account-1", "", ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other, err := svc.Create("account-2", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if n := svc.RevokeAllForAccount("account-1"); n != 3 {
		t.Errorf("expected 3 sessions revoked, got %d", n)
	}
	if _, err := svc.Validate(other.Token); err != nil {
		t.Errorf("other account's session must survive, got %v", err)
	}
	if svc.Count() != 1 {
		t.Errorf("count = %d, want 1", svc.Count())
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	tmpDir := t.TempDir()

	svc1, err := NewService(tmpDir, time.Hour)
	if err != nil {
		t.Fatalf("failed to create first service: %v", err)
	}
	session, err := svc1.Create("account-1", "agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	svc2, err := NewService(tmpDir, time.Hour)
	if err != nil {
		t.Fatalf("failed to create second service: %v", err)
	}
	got, err := svc2.Validate(session.Token)
	if err != nil {
		t.Fatalf("expected session to survive restart, got %v", err)
	}
	if got.AccountID != "account-1" || got.UserAgent != "agent" {
		t.Errorf("reloaded session lost fields: %+v", got)
	}
}

func TestCleanup(t *testing.T) {
	svc := setupTestService(t, time.Millisecond)

	for i := 0; i < 2; i++ {
		if _, err := svc.Create("account-1", "", ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	time.Sleep(5 * time.Millisecond)

	if n := svc.Cleanup(); n != 2 {
		t.Errorf("expected 2 expired sessions cleaned, got %d", n)
	}
	if svc.Count() != 0 {
		t.Errorf("count = %d, want 0", svc.Count())
	}
}
