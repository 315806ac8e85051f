package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"aryflix/models"
	"aryflix/services/metadata"
)

type catalogService interface {
	TrendingMovies(ctx context.Context) ([]models.SearchCandidate, error)
	TrendingTV(ctx context.Context) ([]models.SearchCandidate, error)
	NowPlayingMovies(ctx context.Context) ([]models.SearchCandidate, error)
	UpcomingMovies(ctx context.Context) ([]models.SearchCandidate, error)
	PopularTV(ctx context.Context) ([]models.SearchCandidate, error)
	UpcomingTV(ctx context.Context) ([]models.SearchCandidate, error)
	TrendingAnime(ctx context.Context) ([]models.SearchCandidate, error)
	StreamingCatalog(ctx context.Context, platform string) ([]models.SearchCandidate, error)
}

var _ catalogService = (*metadata.Service)(nil)

// CatalogHandler serves the browse feeds backed by the metadata service.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "trending movies", h.catalog.TrendingMovies)
}

func (h *CatalogHandler) TrendingTV(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "trending tv", h.catalog.TrendingTV)
}

func (h *CatalogHandler) NowPlayingMovies(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "now playing", h.catalog.NowPlayingMovies)
}

func (h *CatalogHandler) UpcomingMovies(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "upcoming movies", h.catalog.UpcomingMovies)
}

func (h *CatalogHandler) PopularTV(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "popular tv", h.catalog.PopularTV)
}

func (h *CatalogHandler) UpcomingTV(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "upcoming tv", h.catalog.UpcomingTV)
}

func (h *CatalogHandler) TrendingAnime(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "trending anime", h.catalog.TrendingAnime)
}

// Streaming handles GET /api/streaming/{platform}
func (h *CatalogHandler) Streaming(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]

	results, err := h.catalog.StreamingCatalog(r.Context(), platform)
	if err != nil {
		if errors.Is(err, metadata.ErrUnknownPlatform) {
			writeJSONError(w, http.StatusNotFound, "unknown streaming platform")
			return
		}
		log.Printf("[catalog] streaming feed %q failed: %v", platform, err)
		writeJSONError(w, http.StatusBadGateway, "catalog is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) feed(w http.ResponseWriter, r *http.Request, name string, fetch func(context.Context) ([]models.SearchCandidate, error)) {
	results, err := fetch(r.Context())
	if err != nil {
		log.Printf("[catalog] %s feed failed: %v", name, err)
		writeJSONError(w, http.StatusBadGateway, "catalog is temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
