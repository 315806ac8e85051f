package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestYouTubeSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected path /search, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Dune 2021 official trailer" {
			t.Errorf("unexpected query %q", q.Get("q"))
		}
		if q.Get("part") != "snippet" || q.Get("type") != "video" {
			t.Errorf("unexpected part/type %q/%q", q.Get("part"), q.Get("type"))
		}
		if q.Get("maxResults") != "10" {
			t.Errorf("maxResults = %q, want 10", q.Get("maxResults"))
		}
		if q.Get("videoDefinition") != "high" {
			t.Errorf("videoDefinition = %q, want high", q.Get("videoDefinition"))
		}
		w.Write([]byte(`{"items":[
			{"id":{"videoId":"abc123"},"snippet":{"title":"Dune Official Trailer","channelTitle":"Warner Bros. Pictures","description":"In theaters"}},
			{"id":{},"snippet":{"title":"Channel result without video id"}}
		]}`))
	}))
	defer server.Close()

	c := newYouTubeClient("yt-key", nil)
	c.baseURL = server.URL

	results, err := c.search(context.Background(), "Dune 2021 official trailer", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Items without a videoId (channels, playlists) are dropped.
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	if results[0].VideoID != "abc123" || results[0].ChannelName != "Warner Bros. Pictures" {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestYouTubeSearchUnconfigured(t *testing.T) {
	c := newYouTubeClient("", nil)
	if _, err := c.search(context.Background(), "anything", 10); err == nil {
		t.Fatal("expected not-configured error")
	}
}
