package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/pwr/internal/shared"
)

// seedLibrary creates a library database with two playlists and a handful
// of tracks spanning two years.
func seedLibrary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to create library db: %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE playlists (id TEXT PRIMARY KEY, name TEXT);
		CREATE TABLE tracks (id TEXT PRIMARY KEY, title TEXT, artist TEXT,
			year INTEGER, genre TEXT, grouping TEXT);
		CREATE TABLE playlist_tracks (playlist_id TEXT, track_id TEXT, position INTEGER);

		INSERT INTO playlists VALUES ('p1', 'Best of 2024'), ('p2', 'Archive');
		INSERT INTO tracks VALUES
			('t1', 'Strobe [Extended Mix]', 'deadmau5', 2024, 'Progressive House; Electro House', 'mau5trap'),
			('t2', 'Opus', 'Eric Prydz', 2023, 'Progressive House', ''),
			('t3', 'Animals', 'Martin Garrix', 2024, 'Big Room', ''),
			('t4', '', 'Nameless', 2024, '', ''),
			('t5', 'Strobe (Dimension Remix)', 'deadmau5; Dimension', 2024, '', '');
		INSERT INTO playlist_tracks VALUES
			('p1', 't1', 1), ('p1', 't2', 2), ('p1', 't3', 3), ('p1', 't4', 4),
			('p2', 't5', 1);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to seed library: %v", err)
	}

	return path
}

func TestListPlaylists(t *testing.T) {
	lib, err := NewSQLiteLibrary(seedLibrary(t), testLogger())
	if err != nil {
		t.Fatalf("NewSQLiteLibrary: %v", err)
	}
	defer lib.Close()

	playlists, err := lib.ListPlaylists(context.Background())
	if err != nil {
		t.Fatalf("ListPlaylists: %v", err)
	}

	if len(playlists) != 2 {
		t.Fatalf("playlists = %+v", playlists)
	}
	// Ordered by name: Archive before Best of 2024.
	if playlists[0].Name != "Archive" || playlists[0].TrackCount != 1 {
		t.Errorf("playlists[0] = %+v", playlists[0])
	}
	if playlists[1].Name != "Best of 2024" || playlists[1].TrackCount != 4 {
		t.Errorf("playlists[1] = %+v", playlists[1])
	}
}

func TestFindPlaylistByName(t *testing.T) {
	lib, err := NewSQLiteLibrary(seedLibrary(t), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	ctx := context.Background()

	p, err := lib.FindPlaylistByName(ctx, "Best of 2024")
	if err != nil || p.ID != "p1" {
		t.Errorf("exact match = %+v, %v", p, err)
	}

	p, err = lib.FindPlaylistByName(ctx, "best OF 2024")
	if err != nil || p.ID != "p1" {
		t.Errorf("case-insensitive match = %+v, %v", p, err)
	}

	if _, err := lib.FindPlaylistByName(ctx, "Missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("err = %v, want ErrPlaylistNotFound", err)
	}
}

func TestPlaylistTracksYearFilter(t *testing.T) {
	lib, err := NewSQLiteLibrary(seedLibrary(t), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	ctx := context.Background()

	all, err := lib.PlaylistTracks(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}
	// t4 has an empty title and is skipped.
	if len(all) != 3 {
		t.Fatalf("all tracks = %+v", all)
	}

	filtered, err := lib.PlaylistTracks(ctx, "p1", 2024)
	if err != nil {
		t.Fatalf("PlaylistTracks(2024): %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered tracks = %+v", filtered)
	}

	// The stored title keeps its library form; the search query gets the
	// cleaned, lowercased version.
	if filtered[0].Title != "Strobe [Extended Mix]" {
		t.Errorf("title = %q", filtered[0].Title)
	}
	if filtered[0].SearchQuery != "deadmau5 strobe" {
		t.Errorf("search query = %q", filtered[0].SearchQuery)
	}
	if filtered[0].PrimaryArtist() != "deadmau5" {
		t.Errorf("artist = %q", filtered[0].PrimaryArtist())
	}
}

func TestPlaylistTrackFields(t *testing.T) {
	lib, err := NewSQLiteLibrary(seedLibrary(t), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	ctx := context.Background()

	tracks, err := lib.PlaylistTracks(ctx, "p1", 2024)
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}

	// Semicolon-separated library fields become slices.
	strobe := tracks[0]
	if len(strobe.Genre) != 2 || strobe.Genre[0] != "Progressive House" || strobe.Genre[1] != "Electro House" {
		t.Errorf("genre = %v", strobe.Genre)
	}
	if len(strobe.Grouping) != 1 || strobe.Grouping[0] != "mau5trap" {
		t.Errorf("grouping = %v", strobe.Grouping)
	}

	animals := tracks[1]
	if animals.Grouping != nil {
		t.Errorf("empty grouping = %v, want nil", animals.Grouping)
	}
}

func TestPlaylistTracksRemixerQuery(t *testing.T) {
	lib, err := NewSQLiteLibrary(seedLibrary(t), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	tracks, err := lib.PlaylistTracks(context.Background(), "p2", 0)
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("tracks = %+v", tracks)
	}

	// The remixer is credited in the title, so the query keeps only the
	// main artist; the full credit list survives on the track itself.
	if got := tracks[0].SearchQuery; got != "deadmau5 strobe dimension remix" {
		t.Errorf("search query = %q", got)
	}
	if len(tracks[0].ArtistList) != 2 {
		t.Errorf("artist list = %v", tracks[0].ArtistList)
	}
}

func TestSplitField(t *testing.T) {
	cases := map[string][]string{
		"Progressive House": {"Progressive House"},
		"House; Techno":     {"House", "Techno"},
		" trimmed ; ":       {"trimmed"},
	}

	for input, want := range cases {
		got := splitField(input)
		if len(got) != len(want) {
			t.Errorf("splitField(%q) = %v, want %v", input, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitField(%q)[%d] = %q, want %q", input, i, got[i], want[i])
			}
		}
	}

	if got := splitField(""); got != nil {
		t.Errorf("splitField(\"\") = %v, want nil", got)
	}
}

func TestSplitArtists(t *testing.T) {
	cases := map[string][]string{
		"deadmau5":               {"deadmau5"},
		"A; B":                   {"A", "B"},
		"Solar Fields / Krule":   {"Solar Fields", "Krule"},
		"Main feat. Guest":       {"Main", "Guest"},
		"  Trimmed  ":            {"Trimmed"},
	}

	for input, want := range cases {
		got := splitArtists(input)
		if len(got) != len(want) {
			t.Errorf("splitArtists(%q) = %v, want %v", input, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitArtists(%q)[%d] = %q, want %q", input, i, got[i], want[i])
			}
		}
	}
}
