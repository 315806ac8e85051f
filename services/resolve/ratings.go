package resolve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"aryflix/models"
)

// ErrNoRatingKeys is returned when neither an external ID nor a title+year
// pair is available; no upstream call is made.
var ErrNoRatingKeys = errors.New("ratings lookup needs an imdb id or title and year")

// Rating source labels as the provider spells them. Entries with any other
// label are ignored.
const (
	ratingSourceIMDB           = "Internet Movie Database"
	ratingSourceRottenTomatoes = "Rotten Tomatoes"
)

// GetRatings fetches IMDb and Rotten Tomatoes scores. The ID path runs first
// when an imdbID is given; if it yields at least one non-null field the
// title+year path is never attempted. (That "either field halts fallback"
// behavior can under-fill the pair; it is kept intentionally.) A title that
// the provider simply doesn't know returns an all-nil pair, not an error;
// only transport failures error.
func (s *Service) GetRatings(ctx context.Context, title string, year int, imdbID string) (models.RatingPair, error) {
	if imdbID == "" && (strings.TrimSpace(title) == "" || year <= 0) {
		return models.RatingPair{}, ErrNoRatingKeys
	}

	if imdbID != "" {
		entries, err := s.ratings.LookupByID(ctx, imdbID)
		if err != nil {
			return models.RatingPair{}, fmt.Errorf("ratings by id %s: %w", imdbID, err)
		}
		pair := extractRatings(entries)
		if pair.IMDB != nil || pair.RottenTomatoes != nil {
			return pair, nil
		}
		log.Printf("[resolve] id rating lookup empty imdbId=%s; falling back to title", imdbID)
	}

	if strings.TrimSpace(title) != "" && year > 0 {
		entries, err := s.ratings.LookupByTitleYear(ctx, title, year)
		if err != nil {
			return models.RatingPair{}, fmt.Errorf("ratings by title %q (%d): %w", title, year, err)
		}
		return extractRatings(entries), nil
	}

	return models.RatingPair{}, nil
}

// extractRatings scans the provider's named entries for the two sources we
// surface. IMDb values look like "7.4/10", Rotten Tomatoes like "94%";
// unparseable or missing entries leave the field nil.
func extractRatings(entries []SourcedRating) models.RatingPair {
	var pair models.RatingPair
	for _, e := range entries {
		switch e.Source {
		case ratingSourceIMDB:
			if v, err := strconv.ParseFloat(strings.SplitN(e.Value, "/", 2)[0], 64); err == nil {
				pair.IMDB = &v
			}
		case ratingSourceRottenTomatoes:
			if v, err := strconv.Atoi(strings.TrimSuffix(e.Value, "%")); err == nil {
				pair.RottenTomatoes = &v
			}
		}
	}
	return pair
}
