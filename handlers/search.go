package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"aryflix/services/resolve"
)

// SearchHandler serves the combined movie and series search.
type SearchHandler struct {
	resolver *resolve.Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(resolver *resolve.Service) *SearchHandler {
	return &SearchHandler{resolver: resolver}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	results, err := h.resolver.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, resolve.ErrEmptyQuery) {
			writeJSONError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}
		log.Printf("[search] query %q failed: %v", query, err)
		writeJSONError(w, http.StatusBadGateway, "search is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
