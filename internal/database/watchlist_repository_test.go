package database

import (
	"path/filepath"
	"testing"
	"time"

	"aryflix/models"
)

// setupTestDB creates a new test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	if db.Watchlist == nil || db.Ratings == nil {
		t.Fatal("expected repositories to be wired")
	}
}

func TestWatchlistUpsert_NewItem(t *testing.T) {
	db := setupTestDB(t)

	item := &models.WatchlistItem{
		UserID:    "user1",
		MediaID:   "603",
		MediaType: "movie",
		Name:      "The Matrix",
		PosterURL: "https://image.tmdb.org/t/p/w500/m.jpg",
	}
	if err := db.Watchlist.Upsert(item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected non-zero ID after insert")
	}
	if item.AddedAt.IsZero() {
		t.Error("expected AddedAt to be filled")
	}

	items, err := db.Watchlist.ListByUser("user1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "The Matrix" || items[0].MediaID != "603" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestWatchlistUpsert_ReAddKeepsOriginalPosition(t *testing.T) {
	db := setupTestDB(t)

	first := &models.WatchlistItem{
		UserID:    "user1",
		MediaID:   "603",
		MediaType: "movie",
		Name:      "The Matrix",
		AddedAt:   time.Now().UTC().Add(-time.Hour),
	}
	if err := db.Watchlist.Upsert(first); err != nil {
		t.Fatalf("Upsert (first) failed: %v", err)
	}

	// Same title again with a refreshed poster.
	second := &models.WatchlistItem{
		UserID:    "user1",
		MediaID:   "603",
		MediaType: "movie",
		Name:      "The Matrix",
		PosterURL: "https://image.tmdb.org/t/p/w500/new.jpg",
	}
	if err := db.Watchlist.Upsert(second); err != nil {
		t.Fatalf("Upsert (second) failed: %v", err)
	}

	items, err := db.Watchlist.ListByUser("user1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected re-add to not duplicate, got %d items", len(items))
	}
	if items[0].PosterURL != "https://image.tmdb.org/t/p/w500/new.jpg" {
		t.Errorf("expected poster to be refreshed, got %q", items[0].PosterURL)
	}
	if items[0].AddedAt.Sub(first.AddedAt).Abs() > 2*time.Second {
		t.Errorf("expected original added_at to survive, got %v vs %v", items[0].AddedAt, first.AddedAt)
	}
}

func TestWatchlistListByUser_OrderAndIsolation(t *testing.T) {
	db := setupTestDB(t)

	base := time.Now().UTC()
	for i, media := range []string{"100", "200", "300"} {
		item := &models.WatchlistItem{
			UserID:    "user1",
			MediaID:   media,
			MediaType: "movie",
			Name:      "Movie " + media,
			AddedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Watchlist.Upsert(item); err != nil {
			t.Fatalf("Upsert %s failed: %v", media, err)
		}
	}
	other := &models.WatchlistItem{UserID: "user2", MediaID: "900", MediaType: "series", Name: "Other"}
	if err := db.Watchlist.Upsert(other); err != nil {
		t.Fatalf("Upsert other-user failed: %v", err)
	}

	items, err := db.Watchlist.ListByUser("user1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items for user1, got %d", len(items))
	}
	// Most recently added first.
	if items[0].MediaID != "300" || items[2].MediaID != "100" {
		t.Errorf("unexpected order: %s, %s, %s", items[0].MediaID, items[1].MediaID, items[2].MediaID)
	}
}

func TestWatchlistRemove(t *testing.T) {
	db := setupTestDB(t)

	item := &models.WatchlistItem{UserID: "user1", MediaID: "603", MediaType: "movie", Name: "The Matrix"}
	if err := db.Watchlist.Upsert(item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	removed, err := db.Watchlist.Remove("user1", "603", "movie")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Error("expected removal of existing item")
	}

	removed, err = db.Watchlist.Remove("user1", "603", "movie")
	if err != nil {
		t.Fatalf("Remove (second) failed: %v", err)
	}
	if removed {
		t.Error("expected second removal to report nothing deleted")
	}
}

func TestWatchlistContains(t *testing.T) {
	db := setupTestDB(t)

	item := &models.WatchlistItem{UserID: "user1", MediaID: "1396", MediaType: "series", Name: "Breaking Bad"}
	if err := db.Watchlist.Upsert(item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	ok, err := db.Watchlist.Contains("user1", "1396", "series")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !ok {
		t.Error("expected saved title to be reported present")
	}

	ok, err = db.Watchlist.Contains("user1", "1396", "movie")
	if err != nil {
		t.Fatalf("Contains (wrong type) failed: %v", err)
	}
	if ok {
		t.Error("media type must be part of the identity")
	}
}
