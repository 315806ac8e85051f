package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"aryflix/internal/auth"
	"aryflix/models"
	"aryflix/services/watchlist"
)

// WatchlistHandler serves the per-account watchlist. All routes sit behind
// the account auth middleware.
type WatchlistHandler struct {
	service *watchlist.Service
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(service *watchlist.Service) *WatchlistHandler {
	return &WatchlistHandler{service: service}
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(userID)
	if err != nil {
		log.Printf("[watchlist] list for %s failed: %v", userID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load watchlist")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var body models.WatchlistUpsert
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Add(userID, body)
	if err != nil {
		switch {
		case errors.Is(err, watchlist.ErrMediaIDRequired),
			errors.Is(err, watchlist.ErrNameRequired),
			errors.Is(err, watchlist.ErrInvalidMediaType):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[watchlist] add for %s failed: %v", userID, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to add to watchlist")
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Remove handles DELETE /api/watchlist/{mediaID}?mediaType=
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	mediaID := mux.Vars(r)["mediaID"]
	mediaType := r.URL.Query().Get("mediaType")

	err := h.service.Remove(userID, mediaID, mediaType)
	if err != nil {
		switch {
		case errors.Is(err, watchlist.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "not in watchlist")
		case errors.Is(err, watchlist.ErrMediaIDRequired), errors.Is(err, watchlist.ErrInvalidMediaType):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[watchlist] remove for %s failed: %v", userID, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to remove from watchlist")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// requireAccount pulls the authenticated account ID injected by the auth
// middleware.
func requireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.GetAccountID(r)
	if userID == "" {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
