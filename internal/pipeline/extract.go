package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/repositories"
	"github.com/desertthunder/pwr/internal/services"
	"github.com/desertthunder/pwr/internal/shared"
)

const StageExtract = "extract"

// ExtractStage reads the target playlist from the local library, filters
// out tracks that cannot be meaningfully enriched, and persists the rest.
// Rejected tracks go to the review queue instead of silently vanishing.
type ExtractStage struct {
	*Observable
	library     services.LibraryReader
	tracks      *repositories.TrackRepository
	review      *repositories.ReviewQueue
	checkpoints *repositories.CheckpointStore
	playlist    string
	year        int
	logger      *log.Logger

	state *repositories.CheckpointState
}

// NewExtractStage wires an extract stage.
func NewExtractStage(
	notifier *Observable,
	library services.LibraryReader,
	tracks *repositories.TrackRepository,
	review *repositories.ReviewQueue,
	checkpoints *repositories.CheckpointStore,
	playlist string,
	year int,
	logger *log.Logger,
) *ExtractStage {
	return &ExtractStage{
		Observable:  notifier,
		library:     library,
		tracks:      tracks,
		review:      review,
		checkpoints: checkpoints,
		playlist:    playlist,
		year:        year,
		logger:      logger,
	}
}

func (s *ExtractStage) Name() string { return StageExtract }

// Extract resolves the playlist by name and reads its tracks, filtered to
// the target year.
func (s *ExtractStage) Extract(ctx context.Context) ([]models.Track, error) {
	playlist, err := s.library.FindPlaylistByName(ctx, s.playlist)
	if err != nil {
		return nil, err
	}

	tracks, err := s.library.PlaylistTracks(ctx, playlist.ID, s.year)
	if err != nil {
		return nil, err
	}

	s.logger.Info("extracted playlist", "playlist", playlist.Name, "year", s.year, "tracks", len(tracks))
	return tracks, nil
}

// Transform validates each track and drops the ones matching reject
// keywords (karaoke covers, sped-up edits, and similar), queueing them
// for review. Tracks already extracted in an earlier run are skipped when
// their repository record still exists.
func (s *ExtractStage) Transform(ctx context.Context, input []models.Track) ([]models.Track, error) {
	state, err := s.checkpoints.Load(StageExtract)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = repositories.NewCheckpointState(StageExtract)
	} else {
		s.Notify(NewEvent(CheckpointLoaded, StageExtract).
			WithMessage("resuming with %d processed", len(state.Processed)))
	}
	s.state = state

	accepted := make([]models.Track, 0, len(input))
	for _, track := range input {
		id := track.Identifier()
		s.Notify(NewEvent(ItemProcessing, StageExtract).WithItem(id))

		if state.IsProcessed(id) && s.tracks.Exists(id) {
			s.Notify(NewEvent(ItemSkipped, StageExtract).WithItem(id))
			continue
		}

		if keyword, rejected := shared.ContainsRejectKeyword(track.Title); rejected {
			if err := s.review.Add(id, track.Title, track.PrimaryArtist(),
				fmt.Sprintf("rejected by keyword %q", keyword)); err != nil {
				return nil, err
			}
			state.MarkFailed(id)
			s.Notify(NewEvent(ItemFailed, StageExtract).WithItem(id).
				WithMessage("rejected by keyword %q", keyword))
			continue
		}

		state.MarkProcessed(id)
		accepted = append(accepted, track)
		s.Notify(NewEvent(ItemCompleted, StageExtract).WithItem(id))
	}

	return accepted, nil
}

// Load persists accepted tracks and then the checkpoint, in that order:
// a crash between the two causes reprocessing, never lost data.
func (s *ExtractStage) Load(ctx context.Context, output []models.Track) error {
	if err := s.tracks.SaveBatch(output); err != nil {
		return err
	}

	if err := s.checkpoints.Save(s.state); err != nil {
		return err
	}
	s.Notify(NewEvent(CheckpointSaved, StageExtract).
		WithMessage("%d processed, %d failed", len(s.state.Processed), len(s.state.Failed)))

	return nil
}
