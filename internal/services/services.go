// package services provides the pipeline's external collaborators: the
// local music library reader and the Songstats enrichment client. Both
// are consumed through interfaces so stages can run against test doubles.
package services

import (
	"context"

	"github.com/desertthunder/pwr/internal/models"
)

// LibraryReader lists tracks from a named collection in the local music
// library, optionally filtered by release year.
type LibraryReader interface {
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	FindPlaylistByName(ctx context.Context, name string) (*models.Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, year int) ([]models.Track, error)
	Close() error
}

// StatsService fetches external identifiers and multi-platform metrics
// for tracks. Implementations rate-limit themselves; callers treat every
// error as transient and item-scoped.
type StatsService interface {
	Health(ctx context.Context) error
	SearchTrack(ctx context.Context, query string) (*models.SongstatsIdentifiers, error)
	TrackStats(ctx context.Context, songstatsID string, sources ...string) (map[string]float64, error)
	HistoricalPeaks(ctx context.Context, songstatsID, startDate string) (map[string]float64, error)
	YouTubeVideos(ctx context.Context, songstatsID string) ([]models.YouTubeVideo, error)
}

// DefaultSources are the platform names the enrichment service is queried
// for when the caller does not narrow them down.
var DefaultSources = []string{
	"spotify",
	"apple_music",
	"amazon",
	"deezer",
	"tiktok",
	"youtube",
	"tracklist",
	"beatport",
	"tidal",
	"soundcloud",
}

// PeakSources are the platforms that expose a popularity history.
var PeakSources = []string{"spotify", "deezer", "tidal"}
