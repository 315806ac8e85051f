package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	tmdbAPIBaseURL   = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

var (
	// ErrNotConfigured is returned when a client is used without an API key.
	ErrNotConfigured = errors.New("metadata provider not configured")
	// ErrTitleNotFound is returned when the catalog has no entry for an ID.
	ErrTitleNotFound = errors.New("title not found")
)

// tmdbClient is a minimal TMDB v3 client covering search, the catalog feeds,
// discover, and the detail endpoints with their appended sub-resources.
type tmdbClient struct {
	apiKey  string
	httpc   *http.Client
	baseURL string
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &tmdbClient{apiKey: apiKey, httpc: httpc, baseURL: tmdbAPIBaseURL}
}

func (c *tmdbClient) isConfigured() bool { return c.apiKey != "" }

func (c *tmdbClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.isConfigured() {
		return ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrTitleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb %s: decode: %w", path, err)
	}
	return nil
}

// tmdbEntry is one row of any TMDB list response. Movies fill Title and
// ReleaseDate; TV fills Name and FirstAirDate.
type tmdbEntry struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
}

type tmdbListResponse struct {
	Page    int         `json:"page"`
	Results []tmdbEntry `json:"results"`
}

func (c *tmdbClient) searchMovies(ctx context.Context, query string) ([]tmdbEntry, error) {
	params := url.Values{
		"query":         []string{query},
		"include_adult": []string{"false"},
		"page":          []string{"1"},
	}
	var resp tmdbListResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) searchTV(ctx context.Context, query string) ([]tmdbEntry, error) {
	params := url.Values{
		"query":         []string{query},
		"include_adult": []string{"false"},
		"page":          []string{"1"},
	}
	var resp tmdbListResponse
	if err := c.get(ctx, "/search/tv", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// trending fetches the trending feed. mediaType is "movie" or "tv", window is
// "day" or "week".
func (c *tmdbClient) trending(ctx context.Context, mediaType, window string) ([]tmdbEntry, error) {
	var resp tmdbListResponse
	if err := c.get(ctx, "/trending/"+mediaType+"/"+window, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) nowPlaying(ctx context.Context) ([]tmdbEntry, error) {
	params := url.Values{"region": []string{"US"}, "page": []string{"1"}}
	var resp tmdbListResponse
	if err := c.get(ctx, "/movie/now_playing", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) upcomingMovies(ctx context.Context) ([]tmdbEntry, error) {
	params := url.Values{"region": []string{"US"}, "page": []string{"1"}}
	var resp tmdbListResponse
	if err := c.get(ctx, "/movie/upcoming", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) popularTV(ctx context.Context) ([]tmdbEntry, error) {
	params := url.Values{"page": []string{"1"}}
	var resp tmdbListResponse
	if err := c.get(ctx, "/tv/popular", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) discoverMovies(ctx context.Context, params url.Values) ([]tmdbEntry, error) {
	var resp tmdbListResponse
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *tmdbClient) discoverTV(ctx context.Context, params url.Values) ([]tmdbEntry, error) {
	var resp tmdbListResponse
	if err := c.get(ctx, "/discover/tv", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbVideo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	PublishedAt string `json:"published_at"`
}

type tmdbCredit struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path"`
}

type tmdbProviderRegion struct {
	Flatrate []struct {
		ProviderName string `json:"provider_name"`
	} `json:"flatrate"`
}

// tmdbMovieDetails is /movie/{id} with videos, credits, external IDs, release
// dates and watch providers appended in a single request.
type tmdbMovieDetails struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Overview     string      `json:"overview"`
	Tagline      string      `json:"tagline"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
	ReleaseDate  string      `json:"release_date"`
	Runtime      int         `json:"runtime"`
	Genres       []tmdbGenre `json:"genres"`
	Popularity   float64     `json:"popularity"`
	VoteAverage  float64     `json:"vote_average"`
	VoteCount    int         `json:"vote_count"`
	Videos       struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []tmdbCredit `json:"cast"`
		Crew []tmdbCredit `json:"crew"`
	} `json:"credits"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
	ReleaseDates struct {
		Results []struct {
			ISO3166 string `json:"iso_3166_1"`
			Dates   []struct {
				Certification string `json:"certification"`
			} `json:"release_dates"`
		} `json:"results"`
	} `json:"release_dates"`
	WatchProviders struct {
		Results map[string]tmdbProviderRegion `json:"results"`
	} `json:"watch/providers"`
}

func (c *tmdbClient) movieDetails(ctx context.Context, id int64) (*tmdbMovieDetails, error) {
	params := url.Values{
		"append_to_response": []string{"videos,credits,external_ids,release_dates,watch/providers"},
	}
	var details tmdbMovieDetails
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// tmdbTVDetails is /tv/{id} with the same appended sub-resources, plus the
// season list and per-episode runtimes TV needs.
type tmdbTVDetails struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Overview       string      `json:"overview"`
	Tagline        string      `json:"tagline"`
	PosterPath     string      `json:"poster_path"`
	BackdropPath   string      `json:"backdrop_path"`
	FirstAirDate   string      `json:"first_air_date"`
	EpisodeRunTime []int       `json:"episode_run_time"`
	Genres         []tmdbGenre `json:"genres"`
	Popularity     float64     `json:"popularity"`
	VoteAverage    float64     `json:"vote_average"`
	VoteCount      int         `json:"vote_count"`
	Seasons        []struct {
		SeasonNumber int `json:"season_number"`
		EpisodeCount int `json:"episode_count"`
	} `json:"seasons"`
	Videos struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []tmdbCredit `json:"cast"`
		Crew []tmdbCredit `json:"crew"`
	} `json:"credits"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
	ContentRatings struct {
		Results []struct {
			ISO3166 string `json:"iso_3166_1"`
			Rating  string `json:"rating"`
		} `json:"results"`
	} `json:"content_ratings"`
	WatchProviders struct {
		Results map[string]tmdbProviderRegion `json:"results"`
	} `json:"watch/providers"`
}

func (c *tmdbClient) tvDetails(ctx context.Context, id int64) (*tmdbTVDetails, error) {
	params := url.Values{
		"append_to_response": []string{"videos,credits,external_ids,content_ratings,watch/providers"},
	}
	var details tmdbTVDetails
	if err := c.get(ctx, "/tv/"+strconv.FormatInt(id, 10), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// posterURL resolves a TMDB image path to a full w500 URL, or "" for none.
func posterURL(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}

// releaseYear pulls the year out of a TMDB date ("2009-12-18"); 0 if absent
// or malformed.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
