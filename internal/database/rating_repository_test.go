package database

import (
	"math"
	"testing"

	"aryflix/models"
)

func TestRatingUpsert_InsertThenReplace(t *testing.T) {
	db := setupTestDB(t)

	rating := &models.UserRating{
		UserID:    "user1",
		MediaID:   "603",
		MediaType: "movie",
		Stars:     4,
		Review:    "Still holds up.",
	}
	if err := db.Ratings.Upsert(rating); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if rating.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be filled")
	}

	rating.Stars = 5
	rating.Review = "Rewatched. Perfect."
	if err := db.Ratings.Upsert(rating); err != nil {
		t.Fatalf("Upsert (replace) failed: %v", err)
	}

	stored, err := db.Ratings.Get("user1", "603", "movie")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored == nil {
		t.Fatal("expected a stored rating")
	}
	if stored.Stars != 5 || stored.Review != "Rewatched. Perfect." {
		t.Errorf("expected replaced rating, got %+v", stored)
	}

	avg, err := db.Ratings.Average("603", "movie")
	if err != nil {
		t.Fatalf("Average failed: %v", err)
	}
	if avg.Count != 1 {
		t.Errorf("replace must not add a second vote, count = %d", avg.Count)
	}
}

func TestRatingGet_Unrated(t *testing.T) {
	db := setupTestDB(t)

	stored, err := db.Ratings.Get("user1", "603", "movie")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected nil for unrated title, got %+v", stored)
	}
}

func TestRatingUpsert_RejectsOutOfRangeStars(t *testing.T) {
	db := setupTestDB(t)

	for _, stars := range []int{0, 6, -1} {
		rating := &models.UserRating{UserID: "user1", MediaID: "603", MediaType: "movie", Stars: stars}
		if err := db.Ratings.Upsert(rating); err == nil {
			t.Errorf("expected constraint violation for %d stars", stars)
		}
	}
}

func TestRatingAverage(t *testing.T) {
	db := setupTestDB(t)

	for user, stars := range map[string]int{"a": 5, "b": 4, "c": 3} {
		rating := &models.UserRating{UserID: user, MediaID: "1396", MediaType: "series", Stars: stars}
		if err := db.Ratings.Upsert(rating); err != nil {
			t.Fatalf("Upsert for %s failed: %v", user, err)
		}
	}
	// A different title must not bleed into the average.
	other := &models.UserRating{UserID: "a", MediaID: "603", MediaType: "movie", Stars: 1}
	if err := db.Ratings.Upsert(other); err != nil {
		t.Fatalf("Upsert other title failed: %v", err)
	}

	avg, err := db.Ratings.Average("1396", "series")
	if err != nil {
		t.Fatalf("Average failed: %v", err)
	}
	if avg.Count != 3 {
		t.Errorf("count = %d, want 3", avg.Count)
	}
	if math.Abs(avg.Average-4.0) > 1e-9 {
		t.Errorf("average = %v, want 4.0", avg.Average)
	}
}

func TestRatingAverage_NoVotes(t *testing.T) {
	db := setupTestDB(t)

	avg, err := db.Ratings.Average("999", "movie")
	if err != nil {
		t.Fatalf("Average failed: %v", err)
	}
	if avg.Count != 0 || avg.Average != 0 {
		t.Errorf("expected zero average over zero votes, got %+v", avg)
	}
}

func TestRatingDelete(t *testing.T) {
	db := setupTestDB(t)

	rating := &models.UserRating{UserID: "user1", MediaID: "603", MediaType: "movie", Stars: 2}
	if err := db.Ratings.Upsert(rating); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	deleted, err := db.Ratings.Delete("user1", "603", "movie")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected deletion of existing rating")
	}
	if stored, _ := db.Ratings.Get("user1", "603", "movie"); stored != nil {
		t.Errorf("rating still present after delete: %+v", stored)
	}
}
