package models

import "time"

// YouTubeVideo is a single video or short associated with a track.
type YouTubeVideo struct {
	VideoID    string     `json:"video_id"`
	Title      string     `json:"title,omitempty"`
	ViewsTotal float64    `json:"views_total"`
	IsShort    bool       `json:"is_short"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// TrackWithStats pairs a library track with the platform metrics fetched
// for it.
type TrackWithStats struct {
	Track         Track          `json:"track"`
	Stats         PlatformStats  `json:"stats"`
	FetchedAt     time.Time      `json:"fetched_at"`
	YouTubeVideos []YouTubeVideo `json:"youtube_videos,omitempty"`
}

// Identifier returns the wrapped track's identity key so enriched records
// share repository keys with their source tracks.
func (t TrackWithStats) Identifier() string {
	return t.Track.Identifier()
}

// HasStats reports whether any metric was populated for this track.
func (t TrackWithStats) HasStats() bool {
	return len(t.Stats.ToFlat()) > 0
}
