// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

// MockLibrary is a test double for [services.LibraryReader] returning
// canned playlists and tracks.
type MockLibrary struct {
	Playlists []models.Playlist
	Tracks    []models.Track
	Err       error
}

func (m *MockLibrary) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, m.Err
}

func (m *MockLibrary) FindPlaylistByName(ctx context.Context, name string) (*models.Playlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Playlists {
		if m.Playlists[i].Name == name {
			return &m.Playlists[i], nil
		}
	}
	return nil, shared.ErrPlaylistNotFound
}

func (m *MockLibrary) PlaylistTracks(ctx context.Context, playlistID string, year int) ([]models.Track, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if year == 0 {
		return m.Tracks, nil
	}
	var out []models.Track
	for _, t := range m.Tracks {
		if t.Year == year {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockLibrary) Close() error { return nil }

// MockStatsService is a test double for [services.StatsService].
// Per-track behavior is keyed by search query / songstats ID, and calls
// are recorded so tests can assert on what was (not) re-fetched.
type MockStatsService struct {
	SearchResults map[string]*models.SongstatsIdentifiers
	Stats         map[string]map[string]float64
	Peaks         map[string]map[string]float64
	Videos        map[string][]models.YouTubeVideo
	SearchErr     error
	StatsErr      error

	SearchCalls []string
	StatsCalls  []string
}

func (m *MockStatsService) Health(ctx context.Context) error { return nil }

func (m *MockStatsService) SearchTrack(ctx context.Context, query string) (*models.SongstatsIdentifiers, error) {
	m.SearchCalls = append(m.SearchCalls, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if ids, ok := m.SearchResults[query]; ok {
		return ids, nil
	}
	return nil, shared.ErrTrackNotFound
}

func (m *MockStatsService) TrackStats(ctx context.Context, songstatsID string, sources ...string) (map[string]float64, error) {
	m.StatsCalls = append(m.StatsCalls, songstatsID)
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	return m.Stats[songstatsID], nil
}

func (m *MockStatsService) HistoricalPeaks(ctx context.Context, songstatsID, startDate string) (map[string]float64, error) {
	return m.Peaks[songstatsID], nil
}

func (m *MockStatsService) YouTubeVideos(ctx context.Context, songstatsID string) ([]models.YouTubeVideo, error) {
	return m.Videos[songstatsID], nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	Handler func(*http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Handler(req)
}

// JSONResponse builds an *http.Response with a JSON body for round
// tripper handlers.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
