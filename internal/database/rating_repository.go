package database

import (
	"database/sql"
	"fmt"
	"time"

	"aryflix/models"
)

// RatingRepository persists user star ratings.
type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores a user's rating of a title, replacing any earlier rating.
func (r *RatingRepository) Upsert(rating *models.UserRating) error {
	rating.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(`
		INSERT INTO user_ratings (user_id, media_id, media_type, stars, review, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_id, media_type)
		DO UPDATE SET stars = excluded.stars, review = excluded.review, updated_at = excluded.updated_at`,
		rating.UserID, rating.MediaID, rating.MediaType, rating.Stars, rating.Review, rating.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rating.ID = id
	}
	return nil
}

// Get returns one user's rating of a title, or nil when they haven't rated it.
func (r *RatingRepository) Get(userID, mediaID, mediaType string) (*models.UserRating, error) {
	var rating models.UserRating
	err := r.db.QueryRow(`
		SELECT id, user_id, media_id, media_type, stars, review, updated_at
		FROM user_ratings
		WHERE user_id = ? AND media_id = ? AND media_type = ?`,
		userID, mediaID, mediaType).
		Scan(&rating.ID, &rating.UserID, &rating.MediaID, &rating.MediaType,
			&rating.Stars, &rating.Review, &rating.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// Average returns the mean star rating and vote count for a title. A title
// nobody has rated averages zero over zero votes.
func (r *RatingRepository) Average(mediaID, mediaType string) (models.RatingAverage, error) {
	avg := models.RatingAverage{MediaID: mediaID}
	err := r.db.QueryRow(`
		SELECT COALESCE(AVG(stars), 0), COUNT(*)
		FROM user_ratings
		WHERE media_id = ? AND media_type = ?`,
		mediaID, mediaType).Scan(&avg.Average, &avg.Count)
	if err != nil {
		return models.RatingAverage{}, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}

// Delete removes a user's rating. The bool reports whether one existed.
func (r *RatingRepository) Delete(userID, mediaID, mediaType string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM user_ratings
		WHERE user_id = ? AND media_id = ? AND media_type = ?`,
		userID, mediaID, mediaType)
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
