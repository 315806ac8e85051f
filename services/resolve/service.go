// Package resolve ranks and disambiguates content from the upstream metadata
// providers: it merges movie and series search results into one ranked list,
// picks the best trailer for a title with a YouTube fallback, and aggregates
// critic ratings with an ID-first lookup strategy.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"aryflix/models"
)

var (
	// ErrEmptyQuery is returned before any upstream call when the search query
	// is blank.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrSearchFailed wraps an upstream failure during search. Callers can
	// tell it apart from an empty result set.
	ErrSearchFailed = errors.New("search upstream failed")
)

// maxSearchResults caps the merged, ranked search response.
const maxSearchResults = 20

// CatalogSearchProvider searches the catalog's movie and series indexes.
// Implementations return only the provider's first page.
type CatalogSearchProvider interface {
	SearchMovies(ctx context.Context, query string) ([]models.SearchCandidate, error)
	SearchSeries(ctx context.Context, query string) ([]models.SearchCandidate, error)
}

// VideoResult is one hit from the external keyword video search.
type VideoResult struct {
	VideoID     string
	Title       string
	ChannelName string
	Description string
}

// VideoSearchProvider searches an external video site by keyword.
type VideoSearchProvider interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoResult, error)
}

// SourcedRating is one named rating entry from the ratings provider, e.g.
// {"Internet Movie Database", "7.4/10"}.
type SourcedRating struct {
	Source string
	Value  string
}

// RatingsProvider looks up third-party ratings by external ID or title+year.
type RatingsProvider interface {
	LookupByID(ctx context.Context, imdbID string) ([]SourcedRating, error)
	LookupByTitleYear(ctx context.Context, title string, year int) ([]SourcedRating, error)
}

// Service is the content resolution service. It holds no per-request state;
// one instance serves all requests concurrently.
type Service struct {
	catalog CatalogSearchProvider
	videos  VideoSearchProvider
	ratings RatingsProvider

	weights        ScoreWeights
	trailerWeights TrailerWeights
}

// NewService creates a resolution service with the default weight tables.
func NewService(catalog CatalogSearchProvider, videos VideoSearchProvider, ratings RatingsProvider) *Service {
	return &Service{
		catalog:        catalog,
		videos:         videos,
		ratings:        ratings,
		weights:        DefaultScoreWeights(),
		trailerWeights: DefaultTrailerWeights(),
	}
}

// Search queries the movie and series indexes concurrently, scores the merged
// results against the query, and returns at most 20 candidates ordered by
// descending score. Equal scores keep provider order (movies first), so
// identical inputs always produce identical orderings. A failure of either
// upstream call fails the whole search; partial results are never returned.
func (s *Service) Search(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	var movies, series []models.SearchCandidate
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		res, err := s.catalog.SearchMovies(ctx, q)
		if err != nil {
			return fmt.Errorf("movie search: %w", err)
		}
		movies = res
		return nil
	})
	p.Go(func(ctx context.Context) error {
		res, err := s.catalog.SearchSeries(ctx, q)
		if err != nil {
			return fmt.Errorf("series search: %w", err)
		}
		series = res
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	combined := make([]models.SearchCandidate, 0, len(movies)+len(series))
	combined = append(combined, movies...)
	combined = append(combined, series...)

	for i := range combined {
		c := &combined[i]
		c.Score = s.weights.Score(c.Title, q, c.Popularity, c.VoteAverage, c.VoteCount)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	if len(combined) > maxSearchResults {
		combined = combined[:maxSearchResults]
	}

	log.Printf("[resolve] search query=%q movies=%d series=%d returned=%d", q, len(movies), len(series), len(combined))
	return combined, nil
}
