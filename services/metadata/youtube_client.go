package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aryflix/services/resolve"
)

const youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// youtubeClient wraps the YouTube Data API v3 search endpoint, the only part
// of the API the trailer fallback needs.
type youtubeClient struct {
	apiKey  string
	httpc   *http.Client
	baseURL string
}

func newYouTubeClient(apiKey string, httpc *http.Client) *youtubeClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &youtubeClient{apiKey: apiKey, httpc: httpc, baseURL: youtubeAPIBaseURL}
}

func (c *youtubeClient) isConfigured() bool { return c.apiKey != "" }

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *youtubeClient) search(ctx context.Context, query string, maxResults int) ([]resolve.VideoResult, error) {
	if !c.isConfigured() {
		return nil, ErrNotConfigured
	}
	params := url.Values{
		"part":            []string{"snippet"},
		"q":               []string{query},
		"type":            []string{"video"},
		"maxResults":      []string{strconv.Itoa(maxResults)},
		"videoDefinition": []string{"high"},
		"key":             []string{c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search: unexpected status %d", resp.StatusCode)
	}
	var decoded youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("youtube search: decode: %w", err)
	}

	results := make([]resolve.VideoResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, resolve.VideoResult{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			ChannelName: item.Snippet.ChannelTitle,
			Description: item.Snippet.Description,
		})
	}
	return results, nil
}
