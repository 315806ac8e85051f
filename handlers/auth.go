package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"aryflix/services/accounts"
	"aryflix/services/sessions"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	accounts *accounts.Service
	sessions *sessions.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountsSvc *accounts.Service, sessionsSvc *sessions.Service) *AuthHandler {
	return &AuthHandler{
		accounts: accountsSvc,
		sessions: sessionsSvc,
	}
}

// SignupRequest represents the signup request body.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
}

// AccountResponse represents account info returned by Me.
type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Signup creates a new account and logs it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Create(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrUsernameExists), errors.Is(err, accounts.ErrEmailExists):
			writeJSONError(w, http.StatusConflict, err.Error())
		case errors.Is(err, accounts.ErrUsernameRequired),
			errors.Is(err, accounts.ErrInvalidUsername),
			errors.Is(err, accounts.ErrPasswordRequired),
			errors.Is(err, accounts.ErrPasswordTooShort):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[auth] signup failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	session, err := h.sessions.Create(account.ID, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		log.Printf("[auth] session create after signup failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02T15:04:05Z"),
		AccountID: account.ID,
		Username:  account.Username,
	})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session, err := h.sessions.Create(account.ID, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		log.Printf("[auth] session create failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02T15:04:05Z"),
		AccountID: account.ID,
		Username:  account.Username,
	})
}

// Logout invalidates the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "no session token")
		return
	}

	if err := h.sessions.Revoke(token); err != nil && !errors.Is(err, sessions.ErrSessionNotFound) {
		log.Printf("[auth] logout failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to revoke session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current authenticated account info.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	session, err := h.sessions.Validate(token)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
		return
	}

	account, ok := h.accounts.Get(session.AccountID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	})
}

// CheckUsernameRequest represents the check-username request body.
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// CheckUsername reports whether a username is valid and not taken.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := accounts.ValidateUsername(req.Username); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"username":  req.Username,
			"available": false,
			"reason":    err.Error(),
		})
		return
	}

	available, err := h.accounts.UsernameAvailable(req.Username)
	if err != nil {
		log.Printf("[auth] username check failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to check username")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":  req.Username,
		"available": available,
	})
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// clientIP extracts the client IP address from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
