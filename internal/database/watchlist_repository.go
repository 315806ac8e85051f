package database

import (
	"database/sql"
	"fmt"
	"time"

	"aryflix/models"
)

// WatchlistRepository persists per-user watchlists.
type WatchlistRepository struct {
	db *sql.DB
}

func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Upsert adds a title to a user's watchlist. Re-adding an already saved
// title refreshes its display fields but keeps the original added_at, so
// list ordering is stable.
func (r *WatchlistRepository) Upsert(item *models.WatchlistItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	res, err := r.db.Exec(`
		INSERT INTO watchlist_items (user_id, media_id, media_type, name, poster_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_id, media_type)
		DO UPDATE SET name = excluded.name, poster_url = excluded.poster_url`,
		item.UserID, item.MediaID, item.MediaType, item.Name, item.PosterURL, item.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert watchlist item: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		item.ID = id
	}
	return nil
}

// ListByUser returns a user's watchlist, most recently added first.
func (r *WatchlistRepository) ListByUser(userID string) ([]models.WatchlistItem, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, media_id, media_type, name, poster_url, added_at
		FROM watchlist_items
		WHERE user_id = ?
		ORDER BY added_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.MediaID, &item.MediaType,
			&item.Name, &item.PosterURL, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes a saved title. The bool reports whether anything was there
// to delete.
func (r *WatchlistRepository) Remove(userID, mediaID, mediaType string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM watchlist_items
		WHERE user_id = ? AND media_id = ? AND media_type = ?`,
		userID, mediaID, mediaType)
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Contains reports whether a title is on a user's watchlist.
func (r *WatchlistRepository) Contains(userID, mediaID, mediaType string) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM watchlist_items
		WHERE user_id = ? AND media_id = ? AND media_type = ?`,
		userID, mediaID, mediaType).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return true, nil
}
