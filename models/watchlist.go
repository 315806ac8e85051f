package models

import "time"

// WatchlistItem is one saved title on a user's watchlist.
type WatchlistItem struct {
	ID        int64     `json:"-"`
	UserID    string    `json:"userId"`
	MediaID   string    `json:"mediaId"`
	MediaType string    `json:"mediaType"`
	Name      string    `json:"name"`
	PosterURL string    `json:"posterUrl,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// WatchlistUpsert is the request body for adding a title to the watchlist.
type WatchlistUpsert struct {
	MediaID   string `json:"mediaId"`
	MediaType string `json:"mediaType"`
	Name      string `json:"name"`
	PosterURL string `json:"posterUrl,omitempty"`
}
