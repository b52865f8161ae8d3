package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/repositories"
	"github.com/desertthunder/pwr/internal/services"
	"github.com/desertthunder/pwr/internal/shared"
)

const StageEnrich = "enrich"

// EnrichStage resolves each extracted track against the enrichment
// service and attaches its multi-platform metrics. Failures are isolated
// per item: a track that cannot be resolved is checkpointed as failed and
// queued for review while the batch continues.
type EnrichStage struct {
	*Observable
	stats       services.StatsService
	tracks      *repositories.TrackRepository
	enriched    *repositories.StatsRepository
	review      *repositories.ReviewQueue
	checkpoints *repositories.CheckpointStore
	year        int
	withVideos  bool
	logger      *log.Logger

	state *repositories.CheckpointState
}

// NewEnrichStage wires an enrich stage. withVideos additionally fetches
// the YouTube videos backing each track's view counts.
func NewEnrichStage(
	notifier *Observable,
	stats services.StatsService,
	tracks *repositories.TrackRepository,
	enriched *repositories.StatsRepository,
	review *repositories.ReviewQueue,
	checkpoints *repositories.CheckpointStore,
	year int,
	withVideos bool,
	logger *log.Logger,
) *EnrichStage {
	return &EnrichStage{
		Observable:  notifier,
		stats:       stats,
		tracks:      tracks,
		enriched:    enriched,
		review:      review,
		checkpoints: checkpoints,
		year:        year,
		withVideos:  withVideos,
		logger:      logger,
	}
}

func (s *EnrichStage) Name() string { return StageEnrich }

// Extract loads the extracted tracks from the track repository.
func (s *EnrichStage) Extract(ctx context.Context) ([]models.Track, error) {
	tracks := s.tracks.GetAll()
	if len(tracks) == 0 {
		s.logger.Warn("no extracted tracks to enrich")
	}
	return tracks, nil
}

// Transform enriches each track. A track counts as done only when the
// checkpoint marks it processed AND its enriched record still exists; a
// processed mark without a backing record means an earlier run lost its
// output, so the track is reprocessed rather than silently skipped.
func (s *EnrichStage) Transform(ctx context.Context, input []models.Track) ([]models.TrackWithStats, error) {
	state, err := s.checkpoints.Load(StageEnrich)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = repositories.NewCheckpointState(StageEnrich)
	} else {
		s.Notify(NewEvent(CheckpointLoaded, StageEnrich).
			WithMessage("resuming with %d processed", len(state.Processed)))
	}
	s.state = state

	var enriched []models.TrackWithStats
	for _, track := range input {
		id := track.Identifier()
		s.Notify(NewEvent(ItemProcessing, StageEnrich).WithItem(id))

		if state.IsProcessed(id) && s.enriched.Exists(id) {
			s.Notify(NewEvent(ItemSkipped, StageEnrich).WithItem(id))
			continue
		}

		record, err := s.enrichTrack(ctx, track)
		if err != nil {
			state.MarkFailed(id)
			if reviewErr := s.review.Add(id, track.Title, track.PrimaryArtist(), err.Error()); reviewErr != nil {
				return nil, reviewErr
			}
			s.Notify(NewEvent(ItemFailed, StageEnrich).WithItem(id).WithError(err))
			continue
		}

		state.MarkProcessed(id)
		enriched = append(enriched, *record)
		s.Notify(NewEvent(ItemCompleted, StageEnrich).WithItem(id).
			WithMetadata("metrics", len(record.Stats.ToFlat())))
	}

	return enriched, nil
}

// enrichTrack resolves one track and fetches its metrics, historical
// popularity peaks, and optionally its YouTube videos.
func (s *EnrichStage) enrichTrack(ctx context.Context, track models.Track) (*models.TrackWithStats, error) {
	query := track.SearchQuery
	if query == "" {
		formatted := shared.FormatTitle(track.Title)
		query = shared.BuildSearchQuery(formatted, shared.RemoveRemixer(formatted, track.ArtistList))
	}

	ids, err := s.stats.SearchTrack(ctx, query)
	if err != nil {
		return nil, err
	}

	// The best search match can be a karaoke cover or tribute of the real
	// track; enriching with the cover's numbers would be worse than no
	// data, so the match is rejected to the review queue instead.
	if keyword, rejected := shared.ContainsRejectKeyword(ids.SongstatsTitle); rejected {
		return nil, fmt.Errorf("match %q rejected by keyword %q", ids.SongstatsTitle, keyword)
	}

	flat, err := s.stats.TrackStats(ctx, ids.SongstatsID)
	if err != nil {
		return nil, err
	}

	// Historical peaks replace current popularity snapshots: a track that
	// charted in March should not score on its December popularity.
	peaks, err := s.stats.HistoricalPeaks(ctx, ids.SongstatsID, fmt.Sprintf("%d-01-01", s.year))
	if err != nil {
		s.logger.Warn("historical peaks unavailable", "track", track.Identifier(), "error", err)
	}
	for name, value := range peaks {
		flat[name] = value
	}

	stats, unknown := models.PlatformStatsFromFlat(flat)
	if len(unknown) > 0 {
		s.logger.Debug("ignoring unregistered metrics", "track", track.Identifier(), "metrics", unknown)
	}

	record := &models.TrackWithStats{
		Track:     track,
		Stats:     stats,
		FetchedAt: time.Now().UTC(),
	}
	record.Track.Songstats = *ids

	if s.withVideos {
		videos, err := s.stats.YouTubeVideos(ctx, ids.SongstatsID)
		if err != nil {
			s.logger.Warn("youtube videos unavailable", "track", track.Identifier(), "error", err)
		} else {
			record.YouTubeVideos = videos
		}
	}

	return record, nil
}

// Load persists the batch's enriched records, then saves the checkpoint
// once. Both writes are hard failures; an unreliable write makes the
// run's output untrustworthy.
func (s *EnrichStage) Load(ctx context.Context, output []models.TrackWithStats) error {
	if err := s.enriched.SaveBatch(output); err != nil {
		return err
	}

	if err := s.checkpoints.Save(s.state); err != nil {
		return err
	}
	s.Notify(NewEvent(CheckpointSaved, StageEnrich).
		WithMessage("%d processed, %d failed", len(s.state.Processed), len(s.state.Failed)))

	return nil
}
