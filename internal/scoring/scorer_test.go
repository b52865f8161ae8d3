package scoring

import (
	"io"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func trackWithMetrics(title string, metrics map[string]float64) models.TrackWithStats {
	stats, _ := models.PlatformStatsFromFlat(metrics)
	return models.TrackWithStats{
		Track: models.Track{Title: title, ArtistList: []string{"Artist"}},
		Stats: stats,
	}
}

func TestAllZeroBatchFixture(t *testing.T) {
	config := CategoryConfig{
		"streams": {"spotify_streams_total", "soundcloud_streams_total"},
	}
	scorer := NewScorer(config, MinMaxNormalizer{}, testLogger())

	tracks := []models.TrackWithStats{
		trackWithMetrics("A", nil),
		trackWithMetrics("B", nil),
		trackWithMetrics("C", nil),
	}

	result := scorer.ComputeRankings(tracks, 2024)

	if result.TotalTracks() != 3 {
		t.Fatalf("TotalTracks() = %d", result.TotalTracks())
	}

	for _, r := range result.Rankings {
		if r.TotalScore != 2.0 {
			t.Errorf("track %q total_score = %v, want 2.0", r.Track.Title, r.TotalScore)
		}
	}

	// Ties keep batch order.
	for i, want := range []string{"A", "B", "C"} {
		if result.Rankings[i].Track.Title != want {
			t.Errorf("rank %d = %q, want %q", i+1, result.Rankings[i].Track.Title, want)
		}
	}
}

func TestComputeRankingsDeterministic(t *testing.T) {
	config := DefaultCategories()
	scorer := NewScorer(config, MinMaxNormalizer{}, testLogger())

	tracks := []models.TrackWithStats{
		trackWithMetrics("A", map[string]float64{"spotify_streams_total": 100, "spotify_popularity_peak": 40}),
		trackWithMetrics("B", map[string]float64{"spotify_streams_total": 900, "tiktok_views_total": 50}),
		trackWithMetrics("C", map[string]float64{"soundcloud_streams_total": 30}),
	}

	first := scorer.ComputeRankings(tracks, 2024)
	second := scorer.ComputeRankings(tracks, 2024)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated invocations produced different results")
	}
}

func TestRankOrderMatchesScores(t *testing.T) {
	scorer := NewScorer(DefaultCategories(), MinMaxNormalizer{}, testLogger())

	tracks := []models.TrackWithStats{
		trackWithMetrics("Low", map[string]float64{"spotify_streams_total": 10}),
		trackWithMetrics("High", map[string]float64{"spotify_streams_total": 1000, "spotify_popularity_peak": 90}),
		trackWithMetrics("Mid", map[string]float64{"spotify_streams_total": 500}),
	}

	result := scorer.ComputeRankings(tracks, 2024)

	for i := 1; i < len(result.Rankings); i++ {
		prev, cur := result.Rankings[i-1], result.Rankings[i]
		if prev.Rank >= cur.Rank {
			t.Errorf("ranks not strictly increasing: %d then %d", prev.Rank, cur.Rank)
		}
		if prev.TotalScore < cur.TotalScore {
			t.Errorf("rank %d score %v below rank %d score %v", prev.Rank, prev.TotalScore, cur.Rank, cur.TotalScore)
		}
	}

	if result.Rankings[0].Track.Title != "High" {
		t.Errorf("top track = %q, want High", result.Rankings[0].Track.Title)
	}
}

func TestEmptyBatch(t *testing.T) {
	scorer := NewScorer(DefaultCategories(), MinMaxNormalizer{}, testLogger())

	result := scorer.ComputeRankings(nil, 2024)

	if result == nil || result.Year != 2024 || len(result.Rankings) != 0 {
		t.Errorf("empty batch result = %+v", result)
	}
}

func TestCategoryBreakdownCoversEveryCategory(t *testing.T) {
	config := CategoryConfig{
		"streams": {"spotify_streams_total"},
		"charts":  {"spotify_charts_total"},
	}
	scorer := NewScorer(config, MinMaxNormalizer{}, testLogger())

	tracks := []models.TrackWithStats{
		trackWithMetrics("A", map[string]float64{"spotify_streams_total": 10}),
		trackWithMetrics("B", map[string]float64{"spotify_streams_total": 20}),
	}

	result := scorer.ComputeRankings(tracks, 2024)

	for _, r := range result.Rankings {
		if len(r.CategoryScores) != 2 {
			t.Fatalf("breakdown has %d entries, want 2", len(r.CategoryScores))
		}

		// charts has no data anywhere, so its weight and score are zero
		// but the entry is still present.
		charts, ok := r.CategoryScore("charts")
		if !ok {
			t.Fatal("missing charts breakdown entry")
		}
		if charts.Weight != 0 || charts.WeightedScore != 0 {
			t.Errorf("charts entry = %+v, want zero weight and score", charts)
		}
	}
}

func TestAvailabilityScalesCategoryWeight(t *testing.T) {
	config := CategoryConfig{
		"streams": {"spotify_streams_total", "soundcloud_streams_total"},
	}
	scorer := NewScorer(config, MinMaxNormalizer{}, testLogger())

	// Only spotify has data, on half the batch: spotify availability is
	// 0.5, soundcloud 0, mean availability 0.25, tier 4 → weight 1.
	tracks := []models.TrackWithStats{
		trackWithMetrics("A", map[string]float64{"spotify_streams_total": 10}),
		trackWithMetrics("B", nil),
		trackWithMetrics("C", map[string]float64{"spotify_streams_total": 30}),
		trackWithMetrics("D", nil),
	}

	result := scorer.ComputeRankings(tracks, 2024)

	top := result.GetByRank(1)
	streams, ok := top.CategoryScore("streams")
	if !ok {
		t.Fatal("missing streams breakdown entry")
	}
	if math.Abs(streams.Weight-1.0) > 1e-9 {
		t.Errorf("streams weight = %v, want 1.0", streams.Weight)
	}
}

func TestUnknownCategoryDefaultsToLowestTier(t *testing.T) {
	if TierFor("streams") != TierHigh {
		t.Errorf("TierFor(streams) = %d", TierFor("streams"))
	}
	if TierFor("made_up_category") != TierNegligible {
		t.Errorf("TierFor(made_up_category) = %d", TierFor("made_up_category"))
	}
}

func TestLoadCategoriesDegradesToEmpty(t *testing.T) {
	logger := testLogger()

	if config := LoadCategories(filepath.Join(t.TempDir(), "missing.json"), logger); len(config) != 0 {
		t.Errorf("missing file config = %v, want empty", config)
	}
}

func TestDefaultCategoriesReferenceRegisteredMetrics(t *testing.T) {
	known := make(map[string]bool)
	for _, name := range models.KnownMetrics() {
		known[name] = true
	}

	for category, metrics := range DefaultCategories() {
		for _, metric := range metrics {
			if !known[models.CanonicalMetricName(metric)] {
				t.Errorf("category %q references unregistered metric %q", category, metric)
			}
		}
	}
}
