package scoring

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/charmbracelet/log"
)

// ImportanceTier is the fixed weight multiplier assigned to a category.
type ImportanceTier int

const (
	TierNegligible ImportanceTier = 1
	TierLow        ImportanceTier = 2
	TierHigh       ImportanceTier = 4
)

// categoryTiers assigns each known category its importance tier.
var categoryTiers = map[string]ImportanceTier{
	"charts":     TierNegligible,
	"engagement": TierNegligible,
	"shorts":     TierNegligible,

	"reach":                TierLow,
	"playlists":            TierLow,
	"professional_support": TierLow,

	"popularity": TierHigh,
	"streams":    TierHigh,
}

// TierFor returns the importance tier for a category name. Unknown
// categories rank at the lowest tier rather than failing the run.
func TierFor(category string) ImportanceTier {
	if tier, ok := categoryTiers[category]; ok {
		return tier
	}
	return TierNegligible
}

// CategoryConfig maps a category name to the metric names it aggregates.
type CategoryConfig map[string][]string

// Categories returns the configured category names in sorted order so
// score breakdowns are stable across runs.
func (c CategoryConfig) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadCategories reads a category configuration JSON file. An unreadable
// or malformed file degrades to an empty configuration with a warning,
// which yields uniformly low scores downstream rather than a failed run.
func LoadCategories(path string, logger *log.Logger) CategoryConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read category config, using empty config", "path", path, "error", err)
		return CategoryConfig{}
	}

	var config CategoryConfig
	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warn("failed to parse category config, using empty config", "path", path, "error", err)
		return CategoryConfig{}
	}

	logger.Info("loaded category config", "path", path, "categories", len(config))
	return config
}

// DefaultCategories groups every registered metric into its scoring
// category. Used when no category configuration file is supplied.
func DefaultCategories() CategoryConfig {
	return CategoryConfig{
		"charts": {
			"spotify_charts_total",
			"deezer_charts_total",
			"apple_music_charts_total",
			"youtube_charts_total",
			"tiktok_charts_total",
			"soundcloud_charts_total",
			"tidal_charts_total",
			"amazon_music_charts_total",
			"beatport_dj_charts_total",
		},
		"engagement": {
			"youtube_engagement_rate_total",
			"tiktok_engagement_rate_total",
			"soundcloud_engagement_rate_total",
		},
		"shorts": {
			"youtube_short_views_total",
			"tiktok_views_total",
		},
		"reach": {
			"spotify_playlist_reach_total",
			"deezer_playlist_reach_total",
		},
		"playlists": {
			"spotify_playlists_editorial_total",
			"deezer_playlists_editorial_total",
			"apple_music_playlists_editorial_total",
			"youtube_playlists_editorial_total",
			"tidal_playlists_editorial_total",
			"amazon_music_playlists_editorial_total",
		},
		"professional_support": {
			"1001tracklists_unique_support",
		},
		"popularity": {
			"spotify_popularity_peak",
			"deezer_popularity_peak",
			"tidal_popularity_peak",
		},
		"streams": {
			"spotify_streams_total",
			"soundcloud_streams_total",
			"youtube_video_views_total",
		},
	}
}
