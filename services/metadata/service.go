package metadata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"aryflix/models"
	"aryflix/services/resolve"
)

// ErrUnknownPlatform is returned for a streaming platform slug we don't map.
var ErrUnknownPlatform = errors.New("unknown streaming platform")

// Genre and provider IDs as TMDB assigns them.
const (
	genreAnimation = 16
	genreKids      = 10762
	genreNews      = 10763
	genreReality   = 10764
	genreTalk      = 10767
)

// watchProviders maps platform slugs to TMDB watch-provider IDs.
var watchProviders = map[string]string{
	"netflix": "8",
	"prime":   "9",
	"disney":  "337",
	"max":     "1899",
	"appletv": "350",
}

// feed caps
const (
	maxFeedItems      = 20
	maxStreamingItems = 25
	minAnimeTrending  = 10
)

// Service exposes the TMDB catalog (search, feeds, details), the YouTube
// video search, and the OMDb ratings lookup behind one façade. Feed results
// are cached on disk; the search and lookup paths always hit upstream.
type Service struct {
	tmdb    *tmdbClient
	youtube *youtubeClient
	omdb    *omdbClient
	cache   *fileCache
}

// NewService builds the metadata service. cacheDir gets a dedicated
// subdirectory so feed cache files never collide with other on-disk state.
func NewService(tmdbKey, youtubeKey, omdbKey, cacheDir string, cacheTTL time.Duration) *Service {
	return &Service{
		tmdb:    newTMDBClient(tmdbKey, nil),
		youtube: newYouTubeClient(youtubeKey, nil),
		omdb:    newOMDBClient(omdbKey, &http.Client{Timeout: 8 * time.Second}),
		cache:   newFileCache(filepath.Join(cacheDir, "metadata"), cacheTTL),
	}
}

func cacheKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h[:])
}

// --- catalog search (feeds the search aggregator) ---

func (s *Service) SearchMovies(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	entries, err := s.tmdb.searchMovies(ctx, query)
	if err != nil {
		return nil, err
	}
	return movieCandidates(entries), nil
}

func (s *Service) SearchSeries(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	entries, err := s.tmdb.searchTV(ctx, query)
	if err != nil {
		return nil, err
	}
	return seriesCandidates(entries), nil
}

// SearchVideos is the trailer fallback's keyword video search.
func (s *Service) SearchVideos(ctx context.Context, query string, maxResults int) ([]resolve.VideoResult, error) {
	return s.youtube.search(ctx, query, maxResults)
}

// LookupByID fetches the ratings list for an IMDb ID.
func (s *Service) LookupByID(ctx context.Context, imdbID string) ([]resolve.SourcedRating, error) {
	return s.omdb.byID(ctx, imdbID)
}

// LookupByTitleYear fetches the ratings list by title and release year.
func (s *Service) LookupByTitleYear(ctx context.Context, title string, year int) ([]resolve.SourcedRating, error) {
	return s.omdb.byTitleYear(ctx, title, year)
}

func movieCandidates(entries []tmdbEntry) []models.SearchCandidate {
	out := make([]models.SearchCandidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.SearchCandidate{
			ID:          e.ID,
			Title:       e.Title,
			MediaType:   models.MediaTypeMovie,
			Overview:    e.Overview,
			PosterURL:   posterURL(e.PosterPath),
			Popularity:  e.Popularity,
			VoteAverage: e.VoteAverage,
			VoteCount:   e.VoteCount,
			ReleaseYear: releaseYear(e.ReleaseDate),
		})
	}
	return out
}

func seriesCandidates(entries []tmdbEntry) []models.SearchCandidate {
	out := make([]models.SearchCandidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.SearchCandidate{
			ID:          e.ID,
			Title:       e.Name,
			MediaType:   models.MediaTypeSeries,
			Overview:    e.Overview,
			PosterURL:   posterURL(e.PosterPath),
			Popularity:  e.Popularity,
			VoteAverage: e.VoteAverage,
			VoteCount:   e.VoteCount,
			ReleaseYear: releaseYear(e.FirstAirDate),
		})
	}
	return out
}

// --- catalog feeds ---

// feed runs one cached list fetch. The fetch result is truncated to limit
// before caching so every consumer sees the same list.
func (s *Service) feed(ctx context.Context, key string, limit int, fetch func(context.Context) ([]models.SearchCandidate, error)) ([]models.SearchCandidate, error) {
	var cached []models.SearchCandidate
	if ok, _ := s.cache.get(key, &cached); ok && len(cached) > 0 {
		return cached, nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if len(items) > 0 {
		if err := s.cache.set(key, items); err != nil {
			log.Printf("[metadata] feed cache write failed key=%s err=%v", key, err)
		}
	}
	return items, nil
}

// TrendingMovies is the daily movie trending feed.
func (s *Service) TrendingMovies(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "trending", "movie"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		entries, err := s.tmdb.trending(ctx, "movie", "day")
		if err != nil {
			return nil, err
		}
		return movieCandidates(entries), nil
	})
}

// TrendingTV is the daily TV trending feed.
func (s *Service) TrendingTV(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "trending", "tv"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		entries, err := s.tmdb.trending(ctx, "tv", "day")
		if err != nil {
			return nil, err
		}
		return seriesCandidates(entries), nil
	})
}

// NowPlayingMovies lists movies currently in US theatres.
func (s *Service) NowPlayingMovies(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "now-playing"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		entries, err := s.tmdb.nowPlaying(ctx)
		if err != nil {
			return nil, err
		}
		return movieCandidates(entries), nil
	})
}

// UpcomingMovies lists upcoming US theatrical releases.
func (s *Service) UpcomingMovies(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "upcoming", "movie"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		entries, err := s.tmdb.upcomingMovies(ctx)
		if err != nil {
			return nil, err
		}
		return movieCandidates(entries), nil
	})
}

// PopularTV merges the weekly TV trending feed with the popular feed,
// trending entries first, de-duplicated by ID.
func (s *Service) PopularTV(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "popular", "tv"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		trending, err := s.tmdb.trending(ctx, "tv", "week")
		if err != nil {
			return nil, err
		}
		popular, err := s.tmdb.popularTV(ctx)
		if err != nil {
			return nil, err
		}
		return mergeCandidates(seriesCandidates(trending), seriesCandidates(popular)), nil
	})
}

// UpcomingTV lists shows airing within a year either side of today, limited
// to English originals with some vote history, most popular first.
func (s *Service) UpcomingTV(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "upcoming", "tv"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		now := time.Now()
		params := url.Values{
			"first_air_date.gte":     []string{now.AddDate(-1, 0, 0).Format("2006-01-02")},
			"first_air_date.lte":     []string{now.AddDate(1, 0, 0).Format("2006-01-02")},
			"vote_count.gte":         []string{"20"},
			"with_original_language": []string{"en"},
			"sort_by":                []string{"popularity.desc"},
			"page":                   []string{"1"},
		}
		entries, err := s.tmdb.discoverTV(ctx, params)
		if err != nil {
			return nil, err
		}
		return seriesCandidates(entries), nil
	})
}

// TrendingAnime filters the weekly TV trending feed down to Japanese
// animation, topping up from discover when trending alone has too few hits.
// Trending entries keep their positions ahead of the discover supplement.
func (s *Service) TrendingAnime(ctx context.Context) ([]models.SearchCandidate, error) {
	return s.feed(ctx, cacheKey("feed", "trending", "anime"), maxFeedItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		trending, err := s.tmdb.trending(ctx, "tv", "week")
		if err != nil {
			return nil, err
		}
		var anime []tmdbEntry
		for _, e := range trending {
			if e.OriginalLanguage == "ja" && hasGenre(e, genreAnimation) {
				anime = append(anime, e)
			}
		}
		items := seriesCandidates(anime)
		if len(items) >= minAnimeTrending {
			return items, nil
		}

		params := url.Values{
			"with_genres":         []string{strconv.Itoa(genreAnimation)},
			"with_origin_country": []string{"JP"},
			"sort_by":             []string{"popularity.desc"},
			"page":                []string{"1"},
		}
		discovered, err := s.tmdb.discoverTV(ctx, params)
		if err != nil {
			// The trending subset still serves; the supplement is best effort.
			log.Printf("[metadata] anime discover supplement failed: %v", err)
			return items, nil
		}
		return mergeCandidates(items, seriesCandidates(discovered)), nil
	})
}

// StreamingCatalog lists what a streaming platform carries in the US, movies
// and TV merged by popularity. Talk, news, reality and kids programming is
// excluded from the TV side.
func (s *Service) StreamingCatalog(ctx context.Context, platform string) ([]models.SearchCandidate, error) {
	providerID, ok := watchProviders[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return s.feed(ctx, cacheKey("feed", "streaming", providerID), maxStreamingItems, func(ctx context.Context) ([]models.SearchCandidate, error) {
		base := url.Values{
			"with_watch_providers":          []string{providerID},
			"watch_region":                  []string{"US"},
			"with_watch_monetization_types": []string{"flatrate"},
			"sort_by":                       []string{"popularity.desc"},
			"page":                          []string{"1"},
		}

		movieParams := cloneValues(base)
		movies, err := s.tmdb.discoverMovies(ctx, movieParams)
		if err != nil {
			return nil, err
		}

		tvParams := cloneValues(base)
		tvParams.Set("without_genres", strings.Join([]string{
			strconv.Itoa(genreTalk),
			strconv.Itoa(genreNews),
			strconv.Itoa(genreReality),
			strconv.Itoa(genreKids),
		}, ","))
		shows, err := s.tmdb.discoverTV(ctx, tvParams)
		if err != nil {
			return nil, err
		}

		merged := append(movieCandidates(movies), seriesCandidates(shows)...)
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Popularity > merged[j].Popularity
		})
		return merged, nil
	})
}

func hasGenre(e tmdbEntry, genreID int) bool {
	for _, id := range e.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// mergeCandidates appends extras after primary, dropping extras whose ID and
// media type already appear.
func mergeCandidates(primary, extras []models.SearchCandidate) []models.SearchCandidate {
	seen := make(map[string]struct{}, len(primary))
	for _, c := range primary {
		seen[candidateKey(c)] = struct{}{}
	}
	out := primary
	for _, c := range extras {
		if _, dup := seen[candidateKey(c)]; dup {
			continue
		}
		seen[candidateKey(c)] = struct{}{}
		out = append(out, c)
	}
	return out
}

func candidateKey(c models.SearchCandidate) string {
	return c.MediaType + ":" + strconv.FormatInt(c.ID, 10)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// --- detail bundles ---

// maxCastEntries keeps detail payloads reasonable; TMDB can return the whole
// billing block.
const maxCastEntries = 12

// MovieDetails assembles the movie detail bundle. The returned videos slice
// is the raw attached-video list for the trailer resolver; Title.Trailer and
// Title.Ratings are left for the caller to fill.
func (s *Service) MovieDetails(ctx context.Context, id int64) (*models.Title, []models.Video, error) {
	details, err := s.tmdb.movieDetails(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	title := &models.Title{
		ID:             details.ID,
		Name:           details.Title,
		MediaType:      models.MediaTypeMovie,
		Overview:       details.Overview,
		Tagline:        details.Tagline,
		PosterURL:      posterURL(details.PosterPath),
		BackdropURL:    posterURL(details.BackdropPath),
		ReleaseYear:    releaseYear(details.ReleaseDate),
		ReleaseDate:    details.ReleaseDate,
		Runtime:        details.Runtime,
		Genres:         genreNames(details.Genres),
		Popularity:     details.Popularity,
		VoteAverage:    details.VoteAverage,
		VoteCount:      details.VoteCount,
		IMDBID:         details.ExternalIDs.IMDBID,
		Cast:           castCredits(details.Credits.Cast),
		Crew:           crewCredits(details.Credits.Crew),
		WatchProviders: usProviders(details.WatchProviders.Results),
	}
	for _, r := range details.ReleaseDates.Results {
		if r.ISO3166 != "US" {
			continue
		}
		for _, d := range r.Dates {
			if d.Certification != "" {
				title.Certification = d.Certification
				break
			}
		}
		break
	}
	return title, attachedVideos(details.Videos.Results), nil
}

// TVDetails assembles the series detail bundle. Runtime is the average of
// the reported per-episode runtimes when TMDB provides them.
func (s *Service) TVDetails(ctx context.Context, id int64) (*models.Title, []models.Video, error) {
	details, err := s.tmdb.tvDetails(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	title := &models.Title{
		ID:             details.ID,
		Name:           details.Name,
		MediaType:      models.MediaTypeSeries,
		Overview:       details.Overview,
		Tagline:        details.Tagline,
		PosterURL:      posterURL(details.PosterPath),
		BackdropURL:    posterURL(details.BackdropPath),
		ReleaseYear:    releaseYear(details.FirstAirDate),
		ReleaseDate:    details.FirstAirDate,
		Runtime:        averageRuntime(details.EpisodeRunTime),
		Genres:         genreNames(details.Genres),
		Popularity:     details.Popularity,
		VoteAverage:    details.VoteAverage,
		VoteCount:      details.VoteCount,
		IMDBID:         details.ExternalIDs.IMDBID,
		Cast:           castCredits(details.Credits.Cast),
		Crew:           crewCredits(details.Credits.Crew),
		WatchProviders: usProviders(details.WatchProviders.Results),
	}
	for _, r := range details.ContentRatings.Results {
		if r.ISO3166 == "US" && r.Rating != "" {
			title.Certification = r.Rating
			break
		}
	}
	return title, attachedVideos(details.Videos.Results), nil
}

func attachedVideos(videos []tmdbVideo) []models.Video {
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, models.Video{
			Key:         v.Key,
			Name:        v.Name,
			Site:        v.Site,
			Type:        v.Type,
			PublishedAt: v.PublishedAt,
		})
	}
	return out
}

func genreNames(genres []tmdbGenre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			out = append(out, g.Name)
		}
	}
	return out
}

func castCredits(cast []tmdbCredit) []models.Credit {
	if len(cast) > maxCastEntries {
		cast = cast[:maxCastEntries]
	}
	out := make([]models.Credit, 0, len(cast))
	for _, c := range cast {
		out = append(out, models.Credit{
			Name:       c.Name,
			Role:       c.Character,
			ProfileURL: posterURL(c.ProfilePath),
		})
	}
	return out
}

// crewCredits keeps only the creative leads worth surfacing.
func crewCredits(crew []tmdbCredit) []models.Credit {
	var out []models.Credit
	for _, c := range crew {
		switch c.Job {
		case "Director", "Creator", "Writer", "Screenplay":
			out = append(out, models.Credit{Name: c.Name, Role: c.Job})
		}
	}
	return out
}

func usProviders(regions map[string]tmdbProviderRegion) []string {
	region, ok := regions["US"]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(region.Flatrate))
	for _, p := range region.Flatrate {
		if p.ProviderName != "" {
			out = append(out, p.ProviderName)
		}
	}
	return out
}

func averageRuntime(runtimes []int) int {
	if len(runtimes) == 0 {
		return 0
	}
	sum := 0
	for _, r := range runtimes {
		sum += r
	}
	return sum / len(runtimes)
}
