package userratings

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"aryflix/internal/database"
	"aryflix/models"
)

var (
	ErrMediaIDRequired  = errors.New("media id is required")
	ErrInvalidMediaType = errors.New("media type must be movie or series")
	ErrStarsOutOfRange  = errors.New("stars must be between 1 and 5")
)

const maxReviewLength = 2000

// Service applies rating business rules on top of the repository.
type Service struct {
	repo *database.RatingRepository
}

func NewService(repo *database.RatingRepository) *Service {
	return &Service{repo: repo}
}

// Rate stores a user's 1-5 star rating of a title, replacing any earlier one.
func (s *Service) Rate(userID string, rating models.UserRating) (*models.UserRating, error) {
	mediaType, err := normalizeMediaType(rating.MediaType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rating.MediaID) == "" {
		return nil, ErrMediaIDRequired
	}
	if rating.Stars < 1 || rating.Stars > 5 {
		return nil, ErrStarsOutOfRange
	}

	stored := &models.UserRating{
		UserID:    userID,
		MediaID:   strings.TrimSpace(rating.MediaID),
		MediaType: mediaType,
		Stars:     rating.Stars,
		Review:    truncate(strings.TrimSpace(rating.Review), maxReviewLength),
	}
	if err := s.repo.Upsert(stored); err != nil {
		return nil, fmt.Errorf("store rating: %w", err)
	}
	log.Printf("[ratings] stored user=%s media=%s/%s stars=%d", userID, stored.MediaType, stored.MediaID, stored.Stars)
	return stored, nil
}

// Get returns the user's own rating of a title, nil when unrated.
func (s *Service) Get(userID, mediaID, mediaType string) (*models.UserRating, error) {
	normalized, err := normalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(userID, strings.TrimSpace(mediaID), normalized)
}

// Average returns the community average for a title; zero over zero votes
// when nobody has rated it.
func (s *Service) Average(mediaID, mediaType string) (models.RatingAverage, error) {
	normalized, err := normalizeMediaType(mediaType)
	if err != nil {
		return models.RatingAverage{}, err
	}
	return s.repo.Average(strings.TrimSpace(mediaID), normalized)
}

func normalizeMediaType(mediaType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case models.MediaTypeMovie:
		return models.MediaTypeMovie, nil
	case models.MediaTypeSeries, "tv":
		return models.MediaTypeSeries, nil
	default:
		return "", ErrInvalidMediaType
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
