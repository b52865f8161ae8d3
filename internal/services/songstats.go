package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// SongstatsClient talks to the Songstats Enterprise API. Every request
// passes through a shared rate limiter; the API meters by requests per
// second and exceeding it burns quota on 429 responses.
//
// Authentication is either an "apikey" header or, when client credentials
// are configured, an OAuth2 token fetched from the configured token URL.
type SongstatsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewSongstatsClient builds a client from configuration. With a client ID
// and secret present, requests authenticate via OAuth2 client credentials;
// otherwise the API key header is used.
func NewSongstatsClient(cfg shared.SongstatsConfig, logger *log.Logger) *SongstatsClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TokenURL != "" {
		credentials := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = credentials.Client(context.Background())
		httpClient.Timeout = 30 * time.Second
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 2.0
	}

	return &SongstatsClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		logger:  logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Tests use this to
// install a stub transport.
func (c *SongstatsClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

func (c *SongstatsClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrTrackNotFound
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s returned %d", shared.ErrServiceUnavailable, endpoint, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", shared.ErrAPIRequest, endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, endpoint, err)
	}

	return nil
}

// Health verifies API connectivity via the status endpoint.
func (c *SongstatsClient) Health(ctx context.Context) error {
	var out map[string]any
	if err := c.get(ctx, "/status", nil, &out); err != nil {
		return err
	}
	return nil
}

type searchResponse struct {
	Results []struct {
		SongstatsTrackID string `json:"songstats_track_id"`
		Title            string `json:"title"`
		ISRC             string `json:"isrc"`
		Artists          []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	} `json:"results"`
}

// SearchTrack looks a track up by free-text query and returns the best
// match's identifiers. No results is reported as ErrTrackNotFound so the
// pipeline can route the track to the review queue.
func (c *SongstatsClient) SearchTrack(ctx context.Context, query string) (*models.SongstatsIdentifiers, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	params := url.Values{"q": {query}, "limit": {"1"}}
	var resp searchResponse
	if err := c.get(ctx, "/tracks/search", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}

	best := resp.Results[0]
	ids := &models.SongstatsIdentifiers{
		SongstatsID:    best.SongstatsTrackID,
		SongstatsTitle: best.Title,
		ISRC:           best.ISRC,
	}
	for _, a := range best.Artists {
		ids.Artists = append(ids.Artists, a.Name)
	}
	for _, l := range best.Labels {
		ids.Labels = append(ids.Labels, l.Name)
	}

	c.logger.Debug("search matched track", "query", query, "songstats_id", ids.SongstatsID)
	return ids, nil
}

type statsResponse struct {
	Stats []struct {
		Source string          `json:"source"`
		Data   json.RawMessage `json:"data"`
	} `json:"stats"`
}

// TrackStats fetches current metrics for a track across platforms and
// flattens them to "{platform}_{metric}" keys. The API's "tracklist"
// source is renamed to "1001tracklists".
func (c *SongstatsClient) TrackStats(ctx context.Context, songstatsID string, sources ...string) (map[string]float64, error) {
	songstatsID = strings.TrimSpace(songstatsID)
	if songstatsID == "" {
		return nil, fmt.Errorf("%w: empty songstats track id", shared.ErrInvalidInput)
	}

	if len(sources) == 0 {
		sources = DefaultSources
	}

	params := url.Values{
		"songstats_track_id": {songstatsID},
		"source":             {strings.Join(sources, ",")},
	}

	var resp statsResponse
	if err := c.get(ctx, "/tracks/stats", params, &resp); err != nil {
		return nil, err
	}

	flat := make(map[string]float64)
	for _, entry := range resp.Stats {
		source := entry.Source
		if source == "tracklist" {
			source = "1001tracklists"
		}

		var data map[string]any
		if err := json.Unmarshal(entry.Data, &data); err != nil {
			c.logger.Warn("skipping unparseable platform data", "source", source, "error", err)
			continue
		}

		for key, value := range data {
			if n, ok := value.(float64); ok {
				flat[fmt.Sprintf("%s_%s", source, key)] = n
			}
		}
	}

	c.logger.Debug("fetched track stats", "songstats_id", songstatsID, "metrics", len(flat))
	return flat, nil
}

type historicResponse struct {
	Stats []struct {
		Source string `json:"source"`
		Data   struct {
			History []struct {
				PopularityCurrent float64 `json:"popularity_current"`
			} `json:"history"`
		} `json:"data"`
	} `json:"stats"`
}

// HistoricalPeaks fetches popularity history since startDate (YYYY-MM-DD)
// and reduces each platform's series to its maximum, keyed as
// "{platform}_popularity_peak".
func (c *SongstatsClient) HistoricalPeaks(ctx context.Context, songstatsID, startDate string) (map[string]float64, error) {
	songstatsID = strings.TrimSpace(songstatsID)
	if songstatsID == "" {
		return nil, fmt.Errorf("%w: empty songstats track id", shared.ErrInvalidInput)
	}

	params := url.Values{
		"songstats_track_id": {songstatsID},
		"start_date":         {startDate},
		"source":             {strings.Join(PeakSources, ",")},
	}

	var resp historicResponse
	if err := c.get(ctx, "/tracks/historic_stats", params, &resp); err != nil {
		return nil, err
	}

	peaks := make(map[string]float64)
	for _, entry := range resp.Stats {
		var peak float64
		for _, point := range entry.Data.History {
			if point.PopularityCurrent > peak {
				peak = point.PopularityCurrent
			}
		}
		peaks[fmt.Sprintf("%s_popularity_peak", entry.Source)] = peak
	}

	return peaks, nil
}

type videosResponse struct {
	Stats []struct {
		Source string `json:"source"`
		Data   struct {
			Videos []struct {
				ExternalID  string  `json:"external_id"`
				Title       string  `json:"title"`
				ViewCount   float64 `json:"view_count"`
				ChannelName string  `json:"youtube_channel_name"`
				IsShort     bool    `json:"is_short"`
			} `json:"videos"`
		} `json:"data"`
	} `json:"stats"`
}

// YouTubeVideos fetches the videos associated with a track. Auto-generated
// "Topic" channel uploads are kept; downstream consumers can tell them
// apart by channel name if needed.
func (c *SongstatsClient) YouTubeVideos(ctx context.Context, songstatsID string) ([]models.YouTubeVideo, error) {
	songstatsID = strings.TrimSpace(songstatsID)
	if songstatsID == "" {
		return nil, fmt.Errorf("%w: empty songstats track id", shared.ErrInvalidInput)
	}

	params := url.Values{
		"songstats_track_id": {songstatsID},
		"with_videos":        {"true"},
		"source":             {"youtube"},
	}

	var resp videosResponse
	if err := c.get(ctx, "/tracks/stats", params, &resp); err != nil {
		return nil, err
	}

	var videos []models.YouTubeVideo
	for _, entry := range resp.Stats {
		for _, v := range entry.Data.Videos {
			videos = append(videos, models.YouTubeVideo{
				VideoID:    v.ExternalID,
				Title:      v.Title,
				ViewsTotal: v.ViewCount,
				IsShort:    v.IsShort,
			})
		}
	}

	c.logger.Debug("fetched youtube videos", "songstats_id", songstatsID, "videos", len(videos))
	return videos, nil
}
