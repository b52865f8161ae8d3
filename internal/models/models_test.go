package models

import (
	"testing"
	"time"
)

func TestTrackIdentifier(t *testing.T) {
	track := Track{Title: "Night Drive", ArtistList: []string{"Solar Fields", "Krule"}}

	if got := track.Identifier(); got != "night drive|solar fields" {
		t.Errorf("Identifier() = %q", got)
	}

	if got := track.PrimaryArtist(); got != "Solar Fields" {
		t.Errorf("PrimaryArtist() = %q", got)
	}

	empty := Track{Title: "Untitled"}
	if got := empty.PrimaryArtist(); got != "Unknown" {
		t.Errorf("PrimaryArtist() on empty artist list = %q", got)
	}
}

func TestMetricRegistryRoundTrip(t *testing.T) {
	var stats PlatformStats

	if ok := stats.SetMetric("spotify_streams_total", 1200); !ok {
		t.Fatal("SetMetric rejected a registered metric")
	}

	v, ok := stats.Metric("spotify_streams_total")
	if !ok || v != 1200 {
		t.Errorf("Metric() = %v, %v", v, ok)
	}

	if stats.Spotify.StreamsTotal == nil || *stats.Spotify.StreamsTotal != 1200 {
		t.Error("SetMetric did not populate the typed field")
	}

	if _, ok := stats.Metric("spotify_popularity_peak"); ok {
		t.Error("Metric() reported a value for an unset field")
	}

	if ok := stats.SetMetric("spotify_listener_count", 5); ok {
		t.Error("SetMetric accepted an unregistered name")
	}
}

func TestMetricPlatformAliases(t *testing.T) {
	var stats PlatformStats

	if ok := stats.SetMetric("1001tracklists_unique_support", 14); !ok {
		t.Fatal("SetMetric rejected the 1001tracklists alias")
	}
	if stats.Tracklists.UniqueSupport == nil || *stats.Tracklists.UniqueSupport != 14 {
		t.Error("alias did not reach the tracklists field")
	}

	if ok := stats.SetMetric("amazon_charts_total", 3); !ok {
		t.Fatal("SetMetric rejected the amazon alias")
	}
	if v, ok := stats.Metric("amazon_music_charts_total"); !ok || v != 3 {
		t.Errorf("canonical read after alias write = %v, %v", v, ok)
	}
}

func TestPlatformStatsFlatConversion(t *testing.T) {
	flat := map[string]float64{
		"spotify_streams_total": 9001,
		"tiktok_views_total":    450,
		"not_a_metric":          1,
	}

	stats, unknown := PlatformStatsFromFlat(flat)

	if len(unknown) != 1 || unknown[0] != "not_a_metric" {
		t.Errorf("unknown = %v", unknown)
	}

	out := stats.ToFlat()
	if len(out) != 2 {
		t.Fatalf("ToFlat() returned %d entries", len(out))
	}
	if out["spotify_streams_total"] != 9001 || out["tiktok_views_total"] != 450 {
		t.Errorf("ToFlat() = %v", out)
	}
}

func TestTrackWithStatsHasStats(t *testing.T) {
	record := TrackWithStats{
		Track:     Track{Title: "Aurora", ArtistList: []string{"Luma"}},
		FetchedAt: time.Now(),
	}

	if record.HasStats() {
		t.Error("HasStats() true with no metrics set")
	}

	record.Stats.SetMetric("deezer_charts_total", 2)
	if !record.HasStats() {
		t.Error("HasStats() false after setting a metric")
	}

	if record.Identifier() != record.Track.Identifier() {
		t.Error("Identifier() does not delegate to the track")
	}
}

func TestPowerRankingResultLookups(t *testing.T) {
	result := PowerRankingResult{
		Year: 2024,
		Rankings: []PowerRanking{
			{Track: Track{Title: "First", ArtistList: []string{"A"}}, Rank: 1, TotalScore: 0.9},
			{Track: Track{Title: "Second", ArtistList: []string{"B"}}, Rank: 2, TotalScore: 0.4},
		},
	}

	if result.TotalTracks() != 2 {
		t.Errorf("TotalTracks() = %d", result.TotalTracks())
	}

	top := result.GetByRank(1)
	if top == nil || top.Track.Title != "First" {
		t.Errorf("GetByRank(1) = %+v", top)
	}

	if result.GetByRank(0) != nil || result.GetByRank(3) != nil {
		t.Error("GetByRank accepted an out-of-range rank")
	}
}

func TestCategoryScoreLookup(t *testing.T) {
	ranking := PowerRanking{
		CategoryScores: []CategoryScore{
			{Category: "streams", RawScore: 0.5, Weight: 4, WeightedScore: 2},
		},
	}

	cs, ok := ranking.CategoryScore("streams")
	if !ok || cs.WeightedScore != 2 {
		t.Errorf("CategoryScore() = %+v, %v", cs, ok)
	}

	if _, ok := ranking.CategoryScore("charts"); ok {
		t.Error("CategoryScore() found a missing category")
	}
}
