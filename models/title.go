package models

// Media type values used across the API.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
)

// SearchCandidate is one movie or series returned by a catalog search,
// normalized to a common shape before ranking. Series map their "name" and
// "first_air_date" fields into Title and ReleaseYear so both kinds rank
// through the same scorer.
type SearchCandidate struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	MediaType   string  `json:"mediaType"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"voteAverage,omitempty"`
	VoteCount   int     `json:"voteCount"`
	ReleaseYear int     `json:"releaseYear,omitempty"`
	Score       float64 `json:"score"`
}

// Video is a clip the catalog provider attaches to a title's detail record.
type Video struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Trailer sources. "tmdb" means the trailer came from the catalog's attached
// videos, "youtube" means the external keyword-search fallback found it.
const (
	TrailerSourceCatalog = "tmdb"
	TrailerSourceSearch  = "youtube"
)

// Trailer is the playable trailer chosen for a title.
type Trailer struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// RatingPair carries third-party critic scores for a title. A nil field means
// that source had no rating, which is not the same as zero and must never be
// rendered as "0".
type RatingPair struct {
	IMDB           *float64 `json:"imdb"`
	RottenTomatoes *int     `json:"rottenTomatoes"`
}

// Title is the detail bundle served for a single movie or series.
type Title struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	MediaType      string     `json:"mediaType"`
	Overview       string     `json:"overview,omitempty"`
	Tagline        string     `json:"tagline,omitempty"`
	PosterURL      string     `json:"posterUrl,omitempty"`
	BackdropURL    string     `json:"backdropUrl,omitempty"`
	ReleaseYear    int        `json:"releaseYear,omitempty"`
	ReleaseDate    string     `json:"releaseDate,omitempty"`
	Runtime        int        `json:"runtime,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	Popularity     float64    `json:"popularity,omitempty"`
	VoteAverage    float64    `json:"voteAverage,omitempty"`
	VoteCount      int        `json:"voteCount,omitempty"`
	Certification  string     `json:"certification,omitempty"`
	IMDBID         string     `json:"imdbId,omitempty"`
	Cast           []Credit   `json:"cast,omitempty"`
	Crew           []Credit   `json:"crew,omitempty"`
	WatchProviders []string   `json:"watchProviders,omitempty"`
	Trailer        *Trailer   `json:"trailer"`
	Ratings        RatingPair `json:"ratings"`
}

// Credit is one cast or crew entry on a title.
type Credit struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}
