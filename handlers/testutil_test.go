package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aryflix/models"
	"aryflix/services/resolve"
)

// stubProviders satisfies all three upstream interfaces the resolver needs.
type stubProviders struct {
	movies  []models.SearchCandidate
	series  []models.SearchCandidate
	videos  []resolve.VideoResult
	ratings []resolve.SourcedRating
	err     error
}

func (s *stubProviders) SearchMovies(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	return s.movies, s.err
}

func (s *stubProviders) SearchSeries(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	return s.series, s.err
}

func (s *stubProviders) SearchVideos(ctx context.Context, query string, maxResults int) ([]resolve.VideoResult, error) {
	return s.videos, s.err
}

func (s *stubProviders) LookupByID(ctx context.Context, imdbID string) ([]resolve.SourcedRating, error) {
	return s.ratings, s.err
}

func (s *stubProviders) LookupByTitleYear(ctx context.Context, title string, year int) ([]resolve.SourcedRating, error) {
	return s.ratings, s.err
}

func newStubResolver(p *stubProviders) *resolve.Service {
	return resolve.NewService(p, p, p)
}

func doRequest(t *testing.T, handler http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
