package models

import (
	"sort"
	"strings"
)

// SpotifyStats holds Spotify streaming metrics.
type SpotifyStats struct {
	StreamsTotal            *float64 `json:"streams_total,omitempty"`
	PopularityPeak          *float64 `json:"popularity_peak,omitempty"`
	PlaylistReachTotal      *float64 `json:"playlist_reach_total,omitempty"`
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// DeezerStats holds Deezer metrics.
type DeezerStats struct {
	PopularityPeak          *float64 `json:"popularity_peak,omitempty"`
	PlaylistReachTotal      *float64 `json:"playlist_reach_total,omitempty"`
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// AppleMusicStats holds Apple Music metrics.
type AppleMusicStats struct {
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// YouTubeStats holds YouTube metrics.
type YouTubeStats struct {
	VideoViewsTotal         *float64 `json:"video_views_total,omitempty"`
	ShortViewsTotal         *float64 `json:"short_views_total,omitempty"`
	EngagementRateTotal     *float64 `json:"engagement_rate_total,omitempty"`
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// TikTokStats holds TikTok metrics.
type TikTokStats struct {
	ViewsTotal          *float64 `json:"views_total,omitempty"`
	EngagementRateTotal *float64 `json:"engagement_rate_total,omitempty"`
	ChartsTotal         *float64 `json:"charts_total,omitempty"`
}

// SoundCloudStats holds SoundCloud metrics.
type SoundCloudStats struct {
	StreamsTotal        *float64 `json:"streams_total,omitempty"`
	EngagementRateTotal *float64 `json:"engagement_rate_total,omitempty"`
	ChartsTotal         *float64 `json:"charts_total,omitempty"`
}

// TidalStats holds Tidal metrics.
type TidalStats struct {
	PopularityPeak          *float64 `json:"popularity_peak,omitempty"`
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// AmazonMusicStats holds Amazon Music metrics.
type AmazonMusicStats struct {
	PlaylistsEditorialTotal *float64 `json:"playlists_editorial_total,omitempty"`
	ChartsTotal             *float64 `json:"charts_total,omitempty"`
}

// BeatportStats holds Beatport metrics.
type BeatportStats struct {
	DJChartsTotal *float64 `json:"dj_charts_total,omitempty"`
}

// TracklistsStats holds 1001tracklists DJ support metrics.
type TracklistsStats struct {
	UniqueSupport *float64 `json:"unique_support,omitempty"`
}

// PlatformStats aggregates per-platform metrics for one track. Absent
// metrics are nil, which the scorer treats as unknown.
type PlatformStats struct {
	Spotify     SpotifyStats     `json:"spotify,omitempty"`
	Deezer      DeezerStats      `json:"deezer,omitempty"`
	AppleMusic  AppleMusicStats  `json:"apple_music,omitempty"`
	YouTube     YouTubeStats     `json:"youtube,omitempty"`
	TikTok      TikTokStats      `json:"tiktok,omitempty"`
	SoundCloud  SoundCloudStats  `json:"soundcloud,omitempty"`
	Tidal       TidalStats       `json:"tidal,omitempty"`
	AmazonMusic AmazonMusicStats `json:"amazon_music,omitempty"`
	Beatport    BeatportStats    `json:"beatport,omitempty"`
	Tracklists  TracklistsStats  `json:"tracklists,omitempty"`
}

// metricAccessor pairs a getter and a setter for one metric field.
type metricAccessor struct {
	get func(*PlatformStats) *float64
	set func(*PlatformStats, float64)
}

func accessor(get func(*PlatformStats) **float64) metricAccessor {
	return metricAccessor{
		get: func(p *PlatformStats) *float64 { return *get(p) },
		set: func(p *PlatformStats, v float64) { *get(p) = &v },
	}
}

// metricRegistry maps canonical "<platform>_<metric>" names to typed field
// accessors. Built once at package init; category configuration files refer
// to metrics by these names.
var metricRegistry = map[string]metricAccessor{
	"spotify_streams_total":             accessor(func(p *PlatformStats) **float64 { return &p.Spotify.StreamsTotal }),
	"spotify_popularity_peak":           accessor(func(p *PlatformStats) **float64 { return &p.Spotify.PopularityPeak }),
	"spotify_playlist_reach_total":      accessor(func(p *PlatformStats) **float64 { return &p.Spotify.PlaylistReachTotal }),
	"spotify_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.Spotify.PlaylistsEditorialTotal }),
	"spotify_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.Spotify.ChartsTotal }),

	"deezer_popularity_peak":           accessor(func(p *PlatformStats) **float64 { return &p.Deezer.PopularityPeak }),
	"deezer_playlist_reach_total":      accessor(func(p *PlatformStats) **float64 { return &p.Deezer.PlaylistReachTotal }),
	"deezer_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.Deezer.PlaylistsEditorialTotal }),
	"deezer_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.Deezer.ChartsTotal }),

	"apple_music_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.AppleMusic.PlaylistsEditorialTotal }),
	"apple_music_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.AppleMusic.ChartsTotal }),

	"youtube_video_views_total":         accessor(func(p *PlatformStats) **float64 { return &p.YouTube.VideoViewsTotal }),
	"youtube_short_views_total":         accessor(func(p *PlatformStats) **float64 { return &p.YouTube.ShortViewsTotal }),
	"youtube_engagement_rate_total":     accessor(func(p *PlatformStats) **float64 { return &p.YouTube.EngagementRateTotal }),
	"youtube_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.YouTube.PlaylistsEditorialTotal }),
	"youtube_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.YouTube.ChartsTotal }),

	"tiktok_views_total":           accessor(func(p *PlatformStats) **float64 { return &p.TikTok.ViewsTotal }),
	"tiktok_engagement_rate_total": accessor(func(p *PlatformStats) **float64 { return &p.TikTok.EngagementRateTotal }),
	"tiktok_charts_total":          accessor(func(p *PlatformStats) **float64 { return &p.TikTok.ChartsTotal }),

	"soundcloud_streams_total":         accessor(func(p *PlatformStats) **float64 { return &p.SoundCloud.StreamsTotal }),
	"soundcloud_engagement_rate_total": accessor(func(p *PlatformStats) **float64 { return &p.SoundCloud.EngagementRateTotal }),
	"soundcloud_charts_total":          accessor(func(p *PlatformStats) **float64 { return &p.SoundCloud.ChartsTotal }),

	"tidal_popularity_peak":           accessor(func(p *PlatformStats) **float64 { return &p.Tidal.PopularityPeak }),
	"tidal_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.Tidal.PlaylistsEditorialTotal }),
	"tidal_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.Tidal.ChartsTotal }),

	"amazon_music_playlists_editorial_total": accessor(func(p *PlatformStats) **float64 { return &p.AmazonMusic.PlaylistsEditorialTotal }),
	"amazon_music_charts_total":              accessor(func(p *PlatformStats) **float64 { return &p.AmazonMusic.ChartsTotal }),

	"beatport_dj_charts_total": accessor(func(p *PlatformStats) **float64 { return &p.Beatport.DJChartsTotal }),

	"tracklists_unique_support": accessor(func(p *PlatformStats) **float64 { return &p.Tracklists.UniqueSupport }),
}

// Platform name aliases: external naming → registry naming.
var platformAliases = map[string]string{
	"1001tracklists": "tracklists",
	"amazon":         "amazon_music",
}

// CanonicalMetricName rewrites a metric name's platform prefix to the
// registry naming, e.g. "amazon_charts_total" → "amazon_music_charts_total".
func CanonicalMetricName(name string) string {
	for alias, canonical := range platformAliases {
		if strings.HasPrefix(name, alias+"_") && !strings.HasPrefix(name, canonical+"_") {
			return canonical + strings.TrimPrefix(name, alias)
		}
	}
	return name
}

// Metric returns the value for a metric name, reporting false when the
// metric is unknown for this track or the name is not in the registry.
func (p *PlatformStats) Metric(name string) (float64, bool) {
	acc, ok := metricRegistry[CanonicalMetricName(name)]
	if !ok {
		return 0, false
	}

	v := acc.get(p)
	if v == nil {
		return 0, false
	}
	return *v, true
}

// SetMetric assigns a metric by name, reporting false for names not in the
// registry.
func (p *PlatformStats) SetMetric(name string, value float64) bool {
	acc, ok := metricRegistry[CanonicalMetricName(name)]
	if !ok {
		return false
	}
	acc.set(p, value)
	return true
}

// ToFlat returns the populated metrics as a flat name→value map.
func (p *PlatformStats) ToFlat() map[string]float64 {
	flat := make(map[string]float64)
	for name, acc := range metricRegistry {
		if v := acc.get(p); v != nil {
			flat[name] = *v
		}
	}
	return flat
}

// PlatformStatsFromFlat builds PlatformStats from a flat name→value map,
// returning the names that did not match any registered metric.
func PlatformStatsFromFlat(flat map[string]float64) (PlatformStats, []string) {
	var stats PlatformStats
	var unknown []string

	for name, value := range flat {
		if !stats.SetMetric(name, value) {
			unknown = append(unknown, name)
		}
	}

	sort.Strings(unknown)
	return stats, unknown
}

// KnownMetrics returns every registered metric name in sorted order.
func KnownMetrics() []string {
	names := make([]string, 0, len(metricRegistry))
	for name := range metricRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
