package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"aryflix/models"
	"aryflix/services/metadata"
	"aryflix/services/resolve"
)

type detailsService interface {
	MovieDetails(ctx context.Context, id int64) (*models.Title, []models.Video, error)
	TVDetails(ctx context.Context, id int64) (*models.Title, []models.Video, error)
}

var _ detailsService = (*metadata.Service)(nil)

type trailerResolver interface {
	ResolveTrailer(ctx context.Context, mediaTitle string, year int, mediaType string, attached []models.Video) (*models.Trailer, error)
	GetRatings(ctx context.Context, title string, year int, imdbID string) (models.RatingPair, error)
}

var _ trailerResolver = (*resolve.Service)(nil)

// DetailsHandler serves the full title detail bundle. The metadata service
// supplies the catalog fields and attached videos; the trailer and external
// ratings are resolved on top and are best-effort, a failed lookup never
// fails the whole bundle.
type DetailsHandler struct {
	details  detailsService
	resolver trailerResolver
}

// NewDetailsHandler creates a new details handler.
func NewDetailsHandler(details detailsService, resolver trailerResolver) *DetailsHandler {
	return &DetailsHandler{details: details, resolver: resolver}
}

// Movie handles GET /api/movies/{id}
func (h *DetailsHandler) Movie(w http.ResponseWriter, r *http.Request) {
	h.bundle(w, r, models.MediaTypeMovie, h.details.MovieDetails)
}

// TV handles GET /api/tv/{id}
func (h *DetailsHandler) TV(w http.ResponseWriter, r *http.Request) {
	h.bundle(w, r, models.MediaTypeSeries, h.details.TVDetails)
}

// MovieTrailer handles GET /api/movies/{id}/trailer
func (h *DetailsHandler) MovieTrailer(w http.ResponseWriter, r *http.Request) {
	h.trailer(w, r, models.MediaTypeMovie, h.details.MovieDetails)
}

// TVTrailer handles GET /api/tv/{id}/trailer
func (h *DetailsHandler) TVTrailer(w http.ResponseWriter, r *http.Request) {
	h.trailer(w, r, models.MediaTypeSeries, h.details.TVDetails)
}

type detailsFetch func(ctx context.Context, id int64) (*models.Title, []models.Video, error)

func (h *DetailsHandler) bundle(w http.ResponseWriter, r *http.Request, mediaType string, fetch detailsFetch) {
	id, ok := titleID(w, r)
	if !ok {
		return
	}

	title, videos, err := fetch(r.Context(), id)
	if err != nil {
		h.writeFetchError(w, mediaType, id, err)
		return
	}

	trailer, err := h.resolver.ResolveTrailer(r.Context(), title.Name, title.ReleaseYear, mediaType, videos)
	if err != nil {
		log.Printf("[details] trailer lookup for %s %d failed: %v", mediaType, id, err)
	}
	title.Trailer = trailer

	ratings, err := h.resolver.GetRatings(r.Context(), title.Name, title.ReleaseYear, title.IMDBID)
	if err != nil && !errors.Is(err, resolve.ErrNoRatingKeys) {
		log.Printf("[details] ratings lookup for %s %d failed: %v", mediaType, id, err)
	}
	title.Ratings = ratings

	writeJSON(w, http.StatusOK, title)
}

func (h *DetailsHandler) trailer(w http.ResponseWriter, r *http.Request, mediaType string, fetch detailsFetch) {
	id, ok := titleID(w, r)
	if !ok {
		return
	}

	title, videos, err := fetch(r.Context(), id)
	if err != nil {
		h.writeFetchError(w, mediaType, id, err)
		return
	}

	trailer, err := h.resolver.ResolveTrailer(r.Context(), title.Name, title.ReleaseYear, mediaType, videos)
	if err != nil {
		log.Printf("[details] trailer lookup for %s %d failed: %v", mediaType, id, err)
		writeJSONError(w, http.StatusBadGateway, "trailer lookup failed")
		return
	}
	if trailer == nil {
		writeJSONError(w, http.StatusNotFound, "no trailer found")
		return
	}

	writeJSON(w, http.StatusOK, trailer)
}

func (h *DetailsHandler) writeFetchError(w http.ResponseWriter, mediaType string, id int64, err error) {
	if errors.Is(err, metadata.ErrTitleNotFound) {
		writeJSONError(w, http.StatusNotFound, "title not found")
		return
	}
	log.Printf("[details] %s %d failed: %v", mediaType, id, err)
	writeJSONError(w, http.StatusBadGateway, "details are temporarily unavailable")
}

func titleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid title id")
		return 0, false
	}
	return id, true
}
