package accounts

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// setupTestService creates a new accounts service for testing with a temp directory.
func setupTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestNewService_EmptyStorageDir(t *testing.T) {
	if _, err := NewService(""); !errors.Is(err, ErrStorageDirRequired) {
		t.Errorf("expected ErrStorageDirRequired, got %v", err)
	}
	if _, err := NewService("   "); !errors.Is(err, ErrStorageDirRequired) {
		t.Errorf("expected ErrStorageDirRequired for whitespace, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	svc := setupTestService(t)

	account, err := svc.Create("newuser", "new@example.com", "password123")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if account.ID == "" {
		t.Error("expected non-empty ID")
	}
	if account.Username != "newuser" {
		t.Errorf("expected username 'newuser', got %q", account.Username)
	}
	if account.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	// Stored hash must verify against the original password.
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("password123")); err != nil {
		t.Error("stored hash does not match password")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := setupTestService(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "", "password123", ErrUsernameRequired},
		{"short username", "ab", "", "password123", ErrInvalidUsername},
		{"bad characters", "new user!", "", "password123", ErrInvalidUsername},
		{"too long", "abcdefghijklmnopqrstu", "", "password123", ErrInvalidUsername},
		{"empty password", "gooduser", "", "", ErrPasswordRequired},
		{"short password", "gooduser", "", "12345", ErrPasswordTooShort},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(tc.username, tc.email, tc.password); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreate_DuplicateUsernameCaseInsensitive(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Create("MovieFan", "", "password123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create("moviefan", "", "password456"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Create("usera", "same@example.com", "password123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create("userb", "Same@Example.com", "password456"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestNewService_LoadsExistingAccounts(t *testing.T) {
	tmpDir := t.TempDir()

	svc1, err := NewService(tmpDir)
	if err != nil {
		t.Fatalf("failed to create first service: %v", err)
	}
	created, err := svc1.Create("testuser", "t@example.com", "password123")
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	svc2, err := NewService(tmpDir)
	if err != nil {
		t.Fatalf("failed to create second service: %v", err)
	}
	loaded, ok := svc2.GetByUsername("testuser")
	if !ok {
		t.Fatal("expected testuser to be loaded from disk")
	}
	if loaded.ID != created.ID || loaded.PasswordHash != created.PasswordHash {
		t.Error("loaded account does not match the created one")
	}
}

func TestAuthenticate(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Create("authuser", "", "password123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	account, err := svc.Authenticate("authuser", "password123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if account.Username != "authuser" {
		t.Errorf("unexpected account %+v", account)
	}

	// Username lookup is case-insensitive, password is not.
	if _, err := svc.Authenticate("AuthUser", "password123"); err != nil {
		t.Errorf("case-insensitive username should authenticate, got %v", err)
	}
	if _, err := svc.Authenticate("authuser", "PASSWORD123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := svc.Authenticate("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for blank input, got %v", err)
	}
}

func TestUsernameAvailable(t *testing.T) {
	svc := setupTestService(t)

	ok, err := svc.UsernameAvailable("fresh_name")
	if err != nil || !ok {
		t.Errorf("expected available, got ok=%v err=%v", ok, err)
	}

	if _, err := svc.Create("fresh_name", "", "password123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ok, err = svc.UsernameAvailable("Fresh_Name")
	if err != nil {
		t.Fatalf("UsernameAvailable failed: %v", err)
	}
	if ok {
		t.Error("expected taken username to be unavailable regardless of case")
	}

	if _, err := svc.UsernameAvailable("x"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername, got %v", err)
	}
}
