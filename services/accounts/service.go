package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aryflix/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUsernameRequired   = errors.New("username is required")
	ErrInvalidUsername    = errors.New("username must be 3-20 letters, digits or underscores")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const minPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// Service manages persistence of user accounts.
type Service struct {
	mu       sync.RWMutex
	path     string
	accounts map[string]models.Account
}

// accountRecord is the on-disk shape; unlike the API model it carries the
// password hash.
type accountRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewService creates an accounts service storing data inside the provided directory.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create accounts dir: %w", err)
	}

	svc := &Service{
		path:     filepath.Join(storageDir, "accounts.json"),
		accounts: make(map[string]models.Account),
	}
	if err := svc.load(); err != nil {
		return nil, err
	}
	return svc, nil
}

// ValidateUsername checks the signup username rules without touching state.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// UsernameAvailable reports whether a valid username is free to register.
func (s *Service) UsernameAvailable(username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.usernameTakenLocked(username, ""), nil
}

// Create registers a new account. Email is optional but must be unique when
// given.
func (s *Service) Create(username, email, password string) (models.Account, error) {
	if err := ValidateUsername(username); err != nil {
		return models.Account{}, err
	}
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	password = strings.TrimSpace(password)
	if password == "" {
		return models.Account{}, ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return models.Account{}, ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTakenLocked(username, "") {
		return models.Account{}, ErrUsernameExists
	}
	if email != "" {
		for _, a := range s.accounts {
			if strings.ToLower(a.Email) == email {
				return models.Account{}, ErrEmailExists
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts[account.ID] = account

	if err := s.saveLocked(); err != nil {
		delete(s.accounts, account.ID)
		return models.Account{}, err
	}
	return account, nil
}

// Authenticate verifies the username and password, returning the account if valid.
func (s *Service) Authenticate(username, password string) (models.Account, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return models.Account{}, ErrInvalidCredentials
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, found := s.byUsernameLocked(username)
	if !found {
		// Burn a bcrypt comparison anyway to keep timing uniform.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummy"), []byte(password))
		return models.Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// Get returns the account with the given ID if present.
func (s *Service) Get(id string) (models.Account, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Account{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	return account, ok
}

// GetByUsername returns the account with the given username if present.
func (s *Service) GetByUsername(username string) (models.Account, bool) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Account{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byUsernameLocked(username)
}

func (s *Service) byUsernameLocked(username string) (models.Account, bool) {
	lower := strings.ToLower(username)
	for _, a := range s.accounts {
		if strings.ToLower(a.Username) == lower {
			return a, true
		}
	}
	return models.Account{}, false
}

func (s *Service) usernameTakenLocked(username, excludeID string) bool {
	lower := strings.ToLower(username)
	for _, a := range s.accounts {
		if a.ID != excludeID && strings.ToLower(a.Username) == lower {
			return true
		}
	}
	return false
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open accounts file: %w", err)
	}
	defer file.Close()

	var stored []accountRecord
	if err := json.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("decode accounts: %w", err)
	}

	s.accounts = make(map[string]models.Account, len(stored))
	for _, rec := range stored {
		if strings.TrimSpace(rec.ID) == "" {
			continue
		}
		account := models.Account{
			ID:           rec.ID,
			Username:     rec.Username,
			Email:        rec.Email,
			PasswordHash: rec.PasswordHash,
			CreatedAt:    rec.CreatedAt,
		}
		if account.CreatedAt.IsZero() {
			account.CreatedAt = time.Now().UTC()
		}
		s.accounts[account.ID] = account
	}
	return nil
}

func (s *Service) saveLocked() error {
	storage := make([]accountRecord, 0, len(s.accounts))
	for _, a := range s.accounts {
		storage = append(storage, accountRecord{
			ID:           a.ID,
			Username:     a.Username,
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			CreatedAt:    a.CreatedAt,
		})
	}
	sort.Slice(storage, func(i, j int) bool {
		return storage[i].CreatedAt.Before(storage[j].CreatedAt)
	})

	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create accounts temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(storage); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync accounts: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close accounts temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}
