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

const omdbAPIBaseURL = "https://www.omdbapi.com/"

// omdbClient fetches third-party rating lists from OMDb, either by IMDb ID
// or by title and year. OMDb reports data-level misses inside a 200 body
// (`Response: "False"`); those come back as an empty list, not an error.
type omdbClient struct {
	apiKey  string
	httpc   *http.Client
	baseURL string
}

func newOMDBClient(apiKey string, httpc *http.Client) *omdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 8 * time.Second}
	}
	return &omdbClient{apiKey: apiKey, httpc: httpc, baseURL: omdbAPIBaseURL}
}

func (c *omdbClient) isConfigured() bool { return c.apiKey != "" }

type omdbResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Ratings  []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

func (c *omdbClient) byID(ctx context.Context, imdbID string) ([]resolve.SourcedRating, error) {
	return c.fetch(ctx, url.Values{"i": []string{imdbID}})
}

func (c *omdbClient) byTitleYear(ctx context.Context, title string, year int) ([]resolve.SourcedRating, error) {
	return c.fetch(ctx, url.Values{"t": []string{title}, "y": []string{strconv.Itoa(year)}})
}

func (c *omdbClient) fetch(ctx context.Context, params url.Values) ([]resolve.SourcedRating, error) {
	if !c.isConfigured() {
		return nil, ErrNotConfigured
	}
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb: unexpected status %d", resp.StatusCode)
	}
	var decoded omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("omdb: decode: %w", err)
	}
	if decoded.Response == "False" {
		return nil, nil
	}

	ratings := make([]resolve.SourcedRating, 0, len(decoded.Ratings))
	for _, r := range decoded.Ratings {
		ratings = append(ratings, resolve.SourcedRating{Source: r.Source, Value: r.Value})
	}
	return ratings, nil
}
