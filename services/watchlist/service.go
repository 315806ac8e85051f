package watchlist

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
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidMediaType = errors.New("media type must be movie or series")
	ErrNotFound         = errors.New("watchlist item not found")
)

// Service applies watchlist business rules on top of the repository.
type Service struct {
	repo *database.WatchlistRepository
}

func NewService(repo *database.WatchlistRepository) *Service {
	return &Service{repo: repo}
}

// Add saves a title to the user's watchlist. Re-adding is idempotent.
func (s *Service) Add(userID string, req models.WatchlistUpsert) (*models.WatchlistItem, error) {
	mediaType, err := normalizeMediaType(req.MediaType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.MediaID) == "" {
		return nil, ErrMediaIDRequired
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	item := &models.WatchlistItem{
		UserID:    userID,
		MediaID:   strings.TrimSpace(req.MediaID),
		MediaType: mediaType,
		Name:      strings.TrimSpace(req.Name),
		PosterURL: strings.TrimSpace(req.PosterURL),
	}
	if err := s.repo.Upsert(item); err != nil {
		return nil, fmt.Errorf("add watchlist item: %w", err)
	}
	log.Printf("[watchlist] saved user=%s media=%s/%s", userID, item.MediaType, item.MediaID)
	return item, nil
}

// List returns the user's watchlist, most recently added first.
func (s *Service) List(userID string) ([]models.WatchlistItem, error) {
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

// Remove deletes a saved title; ErrNotFound when it wasn't saved.
func (s *Service) Remove(userID, mediaID, mediaType string) error {
	normalized, err := normalizeMediaType(mediaType)
	if err != nil {
		return err
	}
	removed, err := s.repo.Remove(userID, strings.TrimSpace(mediaID), normalized)
	if err != nil {
		return fmt.Errorf("remove watchlist item: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	log.Printf("[watchlist] removed user=%s media=%s/%s", userID, normalized, mediaID)
	return nil
}

// Contains reports whether the user has saved the title.
func (s *Service) Contains(userID, mediaID, mediaType string) (bool, error) {
	normalized, err := normalizeMediaType(mediaType)
	if err != nil {
		return false, err
	}
	return s.repo.Contains(userID, strings.TrimSpace(mediaID), normalized)
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
