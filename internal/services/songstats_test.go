package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/shared"
	internaltest "github.com/desertthunder/pwr/internal/testing"
)

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func stubClient(handler func(*http.Request) (*http.Response, error)) *SongstatsClient {
	c := NewSongstatsClient(shared.SongstatsConfig{
		BaseURL:   "https://api.example.com/enterprise/v1",
		APIKey:    "test-key",
		RateLimit: 1000,
	}, testLogger())
	c.SetHTTPClient(&http.Client{Transport: &internaltest.MockRoundTripper{Handler: handler}})
	return c
}

func TestSearchTrack(t *testing.T) {
	var gotPath, gotKey string

	client := stubClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotKey = req.Header.Get("apikey")
		return internaltest.JSONResponse(200, `{
			"results": [{
				"songstats_track_id": "abc123",
				"title": "Strobe",
				"isrc": "USUS10900123",
				"artists": [{"name": "deadmau5"}],
				"labels": [{"name": "mau5trap"}]
			}]
		}`), nil
	})

	ids, err := client.SearchTrack(context.Background(), "deadmau5 strobe")
	if err != nil {
		t.Fatalf("SearchTrack: %v", err)
	}

	if gotPath != "/enterprise/v1/tracks/search" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("apikey header = %q", gotKey)
	}

	if ids.SongstatsID != "abc123" || ids.ISRC != "USUS10900123" {
		t.Errorf("identifiers = %+v", ids)
	}
	if len(ids.Artists) != 1 || ids.Artists[0] != "deadmau5" {
		t.Errorf("artists = %v", ids.Artists)
	}
}

func TestSearchTrackNoResults(t *testing.T) {
	client := stubClient(func(*http.Request) (*http.Response, error) {
		return internaltest.JSONResponse(200, `{"results": []}`), nil
	})

	_, err := client.SearchTrack(context.Background(), "nothing matches this")
	if !errors.Is(err, shared.ErrTrackNotFound) {
		t.Errorf("err = %v, want ErrTrackNotFound", err)
	}
}

func TestSearchTrackEmptyQuery(t *testing.T) {
	client := stubClient(func(*http.Request) (*http.Response, error) {
		t.Fatal("request sent for empty query")
		return nil, nil
	})

	if _, err := client.SearchTrack(context.Background(), "   "); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestTrackStatsFlattening(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		if got := req.URL.Query().Get("songstats_track_id"); got != "abc123" {
			t.Errorf("songstats_track_id param = %q", got)
		}
		return internaltest.JSONResponse(200, `{
			"stats": [
				{"source": "spotify", "data": {"streams_total": 1000, "popularity_peak": 55}},
				{"source": "tracklist", "data": {"unique_support": 7}},
				{"source": "youtube", "data": {"video_views_total": 42, "label": "ignored"}}
			]
		}`), nil
	})

	flat, err := client.TrackStats(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("TrackStats: %v", err)
	}

	want := map[string]float64{
		"spotify_streams_total":         1000,
		"spotify_popularity_peak":       55,
		"1001tracklists_unique_support": 7,
		"youtube_video_views_total":     42,
	}
	if len(flat) != len(want) {
		t.Fatalf("flat = %v", flat)
	}
	for k, v := range want {
		if flat[k] != v {
			t.Errorf("flat[%q] = %v, want %v", k, flat[k], v)
		}
	}
}

func TestTrackStatsServerError(t *testing.T) {
	client := stubClient(func(*http.Request) (*http.Response, error) {
		return internaltest.JSONResponse(503, `{}`), nil
	})

	_, err := client.TrackStats(context.Background(), "abc123")
	if !errors.Is(err, shared.ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestHistoricalPeaks(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		if got := req.URL.Query().Get("start_date"); got != "2024-01-01" {
			t.Errorf("start_date param = %q", got)
		}
		return internaltest.JSONResponse(200, `{
			"stats": [
				{"source": "spotify", "data": {"history": [
					{"popularity_current": 40},
					{"popularity_current": 85},
					{"popularity_current": 62}
				]}},
				{"source": "deezer", "data": {"history": []}}
			]
		}`), nil
	})

	peaks, err := client.HistoricalPeaks(context.Background(), "abc123", "2024-01-01")
	if err != nil {
		t.Fatalf("HistoricalPeaks: %v", err)
	}

	if peaks["spotify_popularity_peak"] != 85 {
		t.Errorf("spotify peak = %v, want 85", peaks["spotify_popularity_peak"])
	}
	if peaks["deezer_popularity_peak"] != 0 {
		t.Errorf("deezer peak = %v, want 0 for empty history", peaks["deezer_popularity_peak"])
	}
}

func TestYouTubeVideos(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		if got := req.URL.Query().Get("with_videos"); got != "true" {
			t.Errorf("with_videos param = %q", got)
		}
		return internaltest.JSONResponse(200, `{
			"stats": [{"source": "youtube", "data": {"videos": [
				{"external_id": "vid1", "title": "Official Video", "view_count": 5000, "youtube_channel_name": "Artist"},
				{"external_id": "vid2", "title": "Short", "view_count": 300, "youtube_channel_name": "Artist - Topic", "is_short": true}
			]}}]
		}`), nil
	})

	videos, err := client.YouTubeVideos(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("YouTubeVideos: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("videos = %+v", videos)
	}
	if videos[0].VideoID != "vid1" || videos[0].ViewsTotal != 5000 {
		t.Errorf("videos[0] = %+v", videos[0])
	}
	if !videos[1].IsShort {
		t.Error("videos[1].IsShort = false")
	}
}

func TestHealth(t *testing.T) {
	client := stubClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/enterprise/v1/status" {
			t.Errorf("path = %q", req.URL.Path)
		}
		return internaltest.JSONResponse(200, `{"status": "ok"}`), nil
	})

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
