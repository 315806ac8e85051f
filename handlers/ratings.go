package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"aryflix/models"
	"aryflix/services/userratings"
)

// RatingsHandler serves user star ratings. Rate and Get sit behind the auth
// middleware; Average is public.
type RatingsHandler struct {
	service *userratings.Service
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(service *userratings.Service) *RatingsHandler {
	return &RatingsHandler{service: service}
}

// RateRequest represents the rate request body.
type RateRequest struct {
	MediaID   string `json:"mediaId"`
	MediaType string `json:"mediaType"`
	Stars     int    `json:"stars"`
	Review    string `json:"review,omitempty"`
}

// Rate handles POST /api/ratings
func (h *RatingsHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var req RateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := h.service.Rate(userID, models.UserRating{
		MediaID:   req.MediaID,
		MediaType: req.MediaType,
		Stars:     req.Stars,
		Review:    req.Review,
	})
	if err != nil {
		switch {
		case errors.Is(err, userratings.ErrMediaIDRequired),
			errors.Is(err, userratings.ErrInvalidMediaType),
			errors.Is(err, userratings.ErrStarsOutOfRange):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[ratings] rate for %s failed: %v", userID, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to save rating")
		}
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

// Get handles GET /api/ratings/{mediaID}?mediaType=
func (h *RatingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	mediaID := mux.Vars(r)["mediaID"]
	mediaType := r.URL.Query().Get("mediaType")

	rating, err := h.service.Get(userID, mediaID, mediaType)
	if err != nil {
		switch {
		case errors.Is(err, userratings.ErrMediaIDRequired), errors.Is(err, userratings.ErrInvalidMediaType):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[ratings] get for %s failed: %v", userID, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to load rating")
		}
		return
	}
	if rating == nil {
		writeJSONError(w, http.StatusNotFound, "not rated")
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

// Average handles GET /api/ratings/{mediaID}/average?mediaType=
func (h *RatingsHandler) Average(w http.ResponseWriter, r *http.Request) {
	mediaID := mux.Vars(r)["mediaID"]
	mediaType := r.URL.Query().Get("mediaType")

	avg, err := h.service.Average(mediaID, mediaType)
	if err != nil {
		switch {
		case errors.Is(err, userratings.ErrMediaIDRequired), errors.Is(err, userratings.ErrInvalidMediaType):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[ratings] average for %s failed: %v", mediaID, err)
			writeJSONError(w, http.StatusInternalServerError, "failed to load average")
		}
		return
	}

	writeJSON(w, http.StatusOK, avg)
}
