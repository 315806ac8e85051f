package watchlist

import (
	"errors"
	"path/filepath"
	"testing"

	"aryflix/internal/database"
	"aryflix/models"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db.Watchlist)
}

func TestAddAndList(t *testing.T) {
	svc := setupTestService(t)

	item, err := svc.Add("user1", models.WatchlistUpsert{
		MediaID:   "603",
		MediaType: "movie",
		Name:      "The Matrix",
		PosterURL: "https://image.tmdb.org/t/p/w500/m.jpg",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.AddedAt.IsZero() {
		t.Error("expected AddedAt to be set")
	}

	items, err := svc.List("user1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "The Matrix" {
		t.Fatalf("unexpected list %+v", items)
	}
}

func TestAdd_Validation(t *testing.T) {
	svc := setupTestService(t)

	tests := []struct {
		name    string
		req     models.WatchlistUpsert
		wantErr error
	}{
		{"missing media id", models.WatchlistUpsert{MediaType: "movie", Name: "X"}, ErrMediaIDRequired},
		{"missing name", models.WatchlistUpsert{MediaID: "1", MediaType: "movie"}, ErrNameRequired},
		{"bad media type", models.WatchlistUpsert{MediaID: "1", MediaType: "book", Name: "X"}, ErrInvalidMediaType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add("user1", tc.req); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAdd_TVAliasNormalizes(t *testing.T) {
	svc := setupTestService(t)

	item, err := svc.Add("user1", models.WatchlistUpsert{MediaID: "1396", MediaType: "tv", Name: "Breaking Bad"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.MediaType != models.MediaTypeSeries {
		t.Errorf("media type = %q, want %q", item.MediaType, models.MediaTypeSeries)
	}
}

func TestAdd_Idempotent(t *testing.T) {
	svc := setupTestService(t)

	req := models.WatchlistUpsert{MediaID: "603", MediaType: "movie", Name: "The Matrix"}
	if _, err := svc.Add("user1", req); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := svc.Add("user1", req); err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}

	items, err := svc.List("user1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after duplicate add, got %d", len(items))
	}
}

func TestRemove(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Add("user1", models.WatchlistUpsert{MediaID: "603", MediaType: "movie", Name: "The Matrix"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Remove("user1", "603", "movie"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove("user1", "603", "movie"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContains(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Add("user1", models.WatchlistUpsert{MediaID: "603", MediaType: "movie", Name: "The Matrix"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ok, err := svc.Contains("user1", "603", "movie")
	if err != nil || !ok {
		t.Errorf("expected contained, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.Contains("user2", "603", "movie")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if ok {
		t.Error("watchlists must be per-user")
	}
}
