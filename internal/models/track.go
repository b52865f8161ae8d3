package models

import (
	"strings"

	"github.com/desertthunder/pwr/internal/shared"
)

// SongstatsIdentifiers holds the external identity resolved for a track
// during enrichment. All fields are empty until resolution succeeds.
type SongstatsIdentifiers struct {
	SongstatsID    string   `json:"songstats_id,omitempty"`
	SongstatsTitle string   `json:"songstats_title,omitempty"`
	ISRC           string   `json:"isrc,omitempty"`
	Artists        []string `json:"artists,omitempty"`
	Labels         []string `json:"labels,omitempty"`
}

// Resolved reports whether a Songstats ID was found for the track.
func (s SongstatsIdentifiers) Resolved() bool {
	return s.SongstatsID != ""
}

// Track represents a musical release read from the local library.
type Track struct {
	Title       string               `json:"title"`
	ArtistList  []string             `json:"artist_list"`
	Year        int                  `json:"year"`
	Genre       []string             `json:"genre,omitempty"`
	Grouping    []string             `json:"grouping,omitempty"` // Record labels, per library convention
	SearchQuery string               `json:"search_query,omitempty"`
	Songstats   SongstatsIdentifiers `json:"songstats_identifiers"`
}

// Identifier returns the stable identity key for the track, used by
// checkpoints, repositories, and the review queue. It is derived from title
// and primary artist so it survives between runs and library re-exports.
func (t Track) Identifier() string {
	return shared.NormalizeTrackKey(t.Title, t.PrimaryArtist())
}

// PrimaryArtist returns the first credited artist, or "Unknown" when the
// artist list is empty.
func (t Track) PrimaryArtist() string {
	if len(t.ArtistList) == 0 {
		return "Unknown"
	}
	return t.ArtistList[0]
}

// AllArtists returns the credited artists joined with ", ".
func (t Track) AllArtists() string {
	return strings.Join(t.ArtistList, ", ")
}

// HasGenre reports whether the track carries the given genre, case-insensitively.
func (t Track) HasGenre(genre string) bool {
	for _, g := range t.Genre {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
