package models

import "time"

// UserRating is a single user's 1-5 star rating of a title.
type UserRating struct {
	ID        int64     `json:"-"`
	UserID    string    `json:"userId"`
	MediaID   string    `json:"mediaId"`
	MediaType string    `json:"mediaType"`
	Stars     int       `json:"stars"`
	Review    string    `json:"review,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingAverage summarizes all user ratings for one title.
type RatingAverage struct {
	MediaID string  `json:"mediaId"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
