package resolve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"aryflix/models"
)

// ErrTrailerSearchFailed wraps an upstream failure during the fallback video
// search. Distinct from a nil result, which means no trailer exists anywhere.
var ErrTrailerSearchFailed = errors.New("trailer search upstream failed")

// maxTrailerResults caps each fallback search query.
const maxTrailerResults = 10

// TrailerWeights is the point system for ranking fallback video-search hits.
// It is deliberately simpler than ScoreWeights: user-uploaded videos carry no
// popularity data, so trust signals (channel name, keyword hygiene) do the
// work instead.
type TrailerWeights struct {
	TitleMatch      int
	YearMatch       int
	OfficialKeyword int
	TrailerKeyword  int
	TrustedChannel  int
	ReactionPenalty int
	ReviewPenalty   int
	FanMadePenalty  int
	// TrustedChannels is matched as substrings of the lowercased channel name.
	TrustedChannels []string
}

// DefaultTrailerWeights returns the production fallback-ranking weights.
func DefaultTrailerWeights() TrailerWeights {
	return TrailerWeights{
		TitleMatch:      10,
		YearMatch:       5,
		OfficialKeyword: 8,
		TrailerKeyword:  6,
		TrustedChannel:  10,
		ReactionPenalty: -10,
		ReviewPenalty:   -10,
		FanMadePenalty:  -15,
		TrustedChannels: []string{"netflix", "hbo", "amazon prime", "disney", "warner"},
	}
}

// scoreVideo rates one fallback search hit for the given title/year.
func (w TrailerWeights) scoreVideo(v VideoResult, mediaTitle string, year int) int {
	title := strings.ToLower(v.Title)
	description := strings.ToLower(v.Description)
	channel := strings.ToLower(v.ChannelName)

	score := 0
	if strings.Contains(title, strings.ToLower(mediaTitle)) {
		score += w.TitleMatch
	}
	if year > 0 {
		yearStr := strconv.Itoa(year)
		if strings.Contains(title, yearStr) || strings.Contains(description, yearStr) {
			score += w.YearMatch
		}
	}
	if strings.Contains(title, "official") {
		score += w.OfficialKeyword
	}
	if strings.Contains(title, "trailer") {
		score += w.TrailerKeyword
	}
	for _, trusted := range w.TrustedChannels {
		if strings.Contains(channel, trusted) {
			score += w.TrustedChannel
			break
		}
	}
	if strings.Contains(title, "reaction") {
		score += w.ReactionPenalty
	}
	if strings.Contains(title, "review") {
		score += w.ReviewPenalty
	}
	if strings.Contains(title, "fan made") {
		score += w.FanMadePenalty
	}
	return score
}

// pickBest returns the highest positively-scoring hit, or nil when every hit
// scores zero or below. Ties keep the earliest search-result position.
func (w TrailerWeights) pickBest(results []VideoResult, mediaTitle string, year int) *VideoResult {
	bestIdx := -1
	bestScore := 0
	for i, r := range results {
		score := w.scoreVideo(r, mediaTitle, year)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return &results[bestIdx]
}

// ResolveTrailer finds the best playable trailer for a title. Stage A selects
// from the catalog's attached videos; only when nothing there qualifies does
// Stage B fall back to the external keyword video search. A nil result with a
// nil error means no trailer exists anywhere, which callers must keep distinct
// from "could not check".
func (s *Service) ResolveTrailer(ctx context.Context, mediaTitle string, year int, mediaType string, attached []models.Video) (*models.Trailer, error) {
	if v := pickAttachedTrailer(attached); v != nil {
		log.Printf("[resolve] trailer from catalog title=%q key=%s", mediaTitle, v.Key)
		return &models.Trailer{
			Source: models.TrailerSourceCatalog,
			Key:    v.Key,
			Name:   v.Name,
			URL:    watchURL(v.Key),
		}, nil
	}
	log.Printf("[resolve] no catalog trailer title=%q type=%s; trying video search", mediaTitle, mediaType)
	return s.searchTrailer(ctx, mediaTitle, year)
}

// pickAttachedTrailer applies the priority ladder to the catalog's attached
// videos. Only YouTube-hosted videos are considered; if any exist the ladder
// always yields something, falling back to the first YouTube video of any
// kind.
func pickAttachedTrailer(videos []models.Video) *models.Video {
	var youtube []models.Video
	for _, v := range videos {
		if v.Site == "YouTube" {
			youtube = append(youtube, v)
		}
	}
	if len(youtube) == 0 {
		return nil
	}

	priorities := []func(models.Video) bool{
		func(v models.Video) bool { return v.Type == "Trailer" && nameContains(v, "official") },
		func(v models.Video) bool { return v.Type == "Trailer" && nameContains(v, "main") },
		func(v models.Video) bool { return v.Type == "Trailer" },
		func(v models.Video) bool { return v.Type == "Teaser" && nameContains(v, "official") },
		func(v models.Video) bool { return v.Type == "Teaser" },
	}
	for _, match := range priorities {
		for i := range youtube {
			if match(youtube[i]) {
				return &youtube[i]
			}
		}
	}
	return &youtube[0]
}

func nameContains(v models.Video, keyword string) bool {
	return strings.Contains(strings.ToLower(v.Name), keyword)
}

// searchTrailer is Stage B: queries ordered most-specific first, issued
// sequentially so a hit on an early, more specific query saves the later
// calls. The first query producing a positively-scored candidate wins.
func (s *Service) searchTrailer(ctx context.Context, mediaTitle string, year int) (*models.Trailer, error) {
	for _, query := range trailerQueries(mediaTitle, year) {
		results, err := s.videos.SearchVideos(ctx, query, maxTrailerResults)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTrailerSearchFailed, err)
		}
		if len(results) == 0 {
			continue
		}
		if best := s.trailerWeights.pickBest(results, mediaTitle, year); best != nil {
			log.Printf("[resolve] trailer from video search title=%q query=%q videoId=%s", mediaTitle, query, best.VideoID)
			return &models.Trailer{
				Source: models.TrailerSourceSearch,
				Key:    best.VideoID,
				Name:   best.Title,
				URL:    watchURL(best.VideoID),
			}, nil
		}
	}
	log.Printf("[resolve] no trailer found anywhere title=%q", mediaTitle)
	return nil, nil
}

// trailerQueries builds the fallback queries in order of specificity. The
// year token is dropped entirely when the year is unknown.
func trailerQueries(title string, year int) []string {
	if year > 0 {
		return []string{
			fmt.Sprintf("%s %d official trailer", title, year),
			fmt.Sprintf("%s %d trailer", title, year),
			fmt.Sprintf("%s official trailer", title),
			fmt.Sprintf("%s trailer", title),
		}
	}
	return []string{
		fmt.Sprintf("%s official trailer", title),
		fmt.Sprintf("%s trailer", title),
	}
}

func watchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + key
}
