package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

// SQLiteLibrary reads playlists and tracks from a music library exported
// as a SQLite database. The library is opened read-only; the pipeline
// never writes to it.
//
// Expected schema:
//
//	playlists(id TEXT PRIMARY KEY, name TEXT)
//	tracks(id TEXT PRIMARY KEY, title TEXT, artist TEXT, year INTEGER,
//	       genre TEXT, grouping TEXT)
//	playlist_tracks(playlist_id TEXT, track_id TEXT, position INTEGER)
type SQLiteLibrary struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteLibrary opens the library database at path.
func NewSQLiteLibrary(path string, logger *log.Logger) (*SQLiteLibrary, error) {
	db, err := shared.NewReadOnlyDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", path, err)
	}

	logger.Debug("opened library database", "path", path)
	return &SQLiteLibrary{db: db, logger: logger}, nil
}

// Close releases the underlying database connection.
func (l *SQLiteLibrary) Close() error {
	return l.db.Close()
}

// ListPlaylists returns every playlist with its track count, ordered by
// name.
func (l *SQLiteLibrary) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT p.id, p.name, COUNT(pt.track_id)
		FROM playlists p
		LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	return playlists, rows.Err()
}

// FindPlaylistByName looks a playlist up by exact name, then by
// case-insensitive match when the exact lookup finds nothing.
func (l *SQLiteLibrary) FindPlaylistByName(ctx context.Context, name string) (*models.Playlist, error) {
	playlists, err := l.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	for i := range playlists {
		if playlists[i].Name == name {
			return &playlists[i], nil
		}
	}
	for i := range playlists {
		if strings.EqualFold(playlists[i].Name, name) {
			return &playlists[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
}

// PlaylistTracks returns a playlist's tracks in playlist order. A year
// greater than zero filters to tracks released that year.
func (l *SQLiteLibrary) PlaylistTracks(ctx context.Context, playlistID string, year int) ([]models.Track, error) {
	query := `
		SELECT t.title, t.artist, t.year, t.genre, t.grouping
		FROM tracks t
		JOIN playlist_tracks pt ON pt.track_id = t.id
		WHERE pt.playlist_id = ?`
	args := []any{playlistID}

	if year > 0 {
		query += " AND t.year = ?"
		args = append(args, year)
	}
	query += " ORDER BY pt.position"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	skipped := 0
	for rows.Next() {
		var title, artist string
		var trackYear sql.NullInt64
		var genre, grouping sql.NullString

		if err := rows.Scan(&title, &artist, &trackYear, &genre, &grouping); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		if strings.TrimSpace(title) == "" || strings.TrimSpace(artist) == "" {
			skipped++
			continue
		}

		track := models.Track{
			Title:      strings.TrimSpace(title),
			ArtistList: splitArtists(artist),
			Year:       int(trackYear.Int64),
			Genre:      splitField(genre.String),
			Grouping:   splitField(grouping.String),
		}
		// Remixers credited in the title are dropped from the query; the
		// main artist is what Songstats indexes.
		formatted := shared.FormatTitle(title)
		track.SearchQuery = shared.BuildSearchQuery(formatted, shared.RemoveRemixer(formatted, track.ArtistList))
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		l.logger.Warn("skipped tracks with missing title or artist", "playlist", playlistID, "skipped", skipped)
	}

	l.logger.Info("read playlist tracks", "playlist", playlistID, "year", year, "tracks", len(tracks))
	return tracks, nil
}

// splitField breaks a semicolon-separated library field (genre, grouping)
// into individual values.
func splitField(field string) []string {
	parts := strings.Split(field, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// splitArtists breaks a library artist field into individual names.
func splitArtists(artist string) []string {
	for _, sep := range []string{";", " / ", " feat. ", " ft. "} {
		if strings.Contains(artist, sep) {
			parts := strings.Split(artist, sep)
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			return out
		}
	}
	return []string{strings.TrimSpace(artist)}
}
