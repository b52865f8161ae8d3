package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/repositories"
	"github.com/desertthunder/pwr/internal/scoring"
	"github.com/desertthunder/pwr/internal/services"
	"github.com/desertthunder/pwr/internal/shared"
)

// StageNames lists the pipeline stages in execution order.
var StageNames = []string{StageExtract, StageEnrich, StageRank}

// RunOptions selects which stages a Run executes. Stages always execute
// in extract, enrich, rank order; skipped stages read whatever the
// run directory's repositories already hold.
type RunOptions struct {
	Extract  bool
	Enrich   bool
	Rank     bool
	Playlist string // overrides the configured playlist name
}

// All reports whether no stage was singled out, which means run
// everything.
func (o RunOptions) All() bool {
	return !o.Extract && !o.Enrich && !o.Rank
}

// Orchestrator wires the three stages to a run directory and executes
// them sequentially. Each run directory holds the repositories,
// checkpoints, review queue, and event log for one ranking attempt;
// reusing the latest directory resumes it.
type Orchestrator struct {
	Observable

	config  *shared.Config
	library services.LibraryReader
	stats   services.StatsService
	logger  *log.Logger
	metrics *MetricsObserver

	runDir      string
	tracks      *repositories.TrackRepository
	enriched    *repositories.StatsRepository
	review      *repositories.ReviewQueue
	checkpoints *repositories.CheckpointStore
	eventLog    *os.File
}

// NewOrchestrator opens (or creates) a run directory and its backing
// stores. With newRun false the latest run directory for the configured
// year is resumed; otherwise a fresh one is created.
func NewOrchestrator(
	config *shared.Config,
	library services.LibraryReader,
	stats services.StatsService,
	logger *log.Logger,
	newRun bool,
) (*Orchestrator, error) {
	o := &Orchestrator{
		config:  config,
		library: library,
		stats:   stats,
		logger:  logger,
		metrics: NewMetricsObserver(),
	}

	runDir, err := o.resolveRunDir(newRun)
	if err != nil {
		return nil, err
	}
	o.runDir = runDir

	if o.tracks, err = repositories.NewTrackRepository(filepath.Join(runDir, "tracks.json"), logger); err != nil {
		return nil, err
	}
	if o.enriched, err = repositories.NewStatsRepository(filepath.Join(runDir, "stats.json"), logger); err != nil {
		return nil, err
	}
	if o.review, err = repositories.NewReviewQueue(filepath.Join(runDir, "review.json"), logger); err != nil {
		return nil, err
	}
	o.checkpoints = repositories.NewCheckpointStore(runDir, logger)

	eventLog, err := os.OpenFile(filepath.Join(runDir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	o.eventLog = eventLog

	o.Attach(NewLogObserver(logger))
	o.Attach(o.metrics)
	o.Attach(NewFileObserver(eventLog))

	logger.Info("opened run directory", "dir", runDir, "new_run", newRun)
	return o, nil
}

// resolveRunDir picks the run directory: the lexicographically latest one
// for the year when resuming, a fresh timestamped one otherwise. Run IDs
// sort by creation time.
func (o *Orchestrator) resolveRunDir(newRun bool) (string, error) {
	root := filepath.Join(o.config.Pipeline.DataDir, "runs")
	prefix := fmt.Sprintf("%d_", o.config.Pipeline.Year)

	if !newRun {
		entries, err := os.ReadDir(root)
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to list runs: %w", err)
		}

		var candidates []string
		for _, entry := range entries {
			if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
				candidates = append(candidates, entry.Name())
			}
		}
		if len(candidates) > 0 {
			sort.Strings(candidates)
			return filepath.Join(root, candidates[len(candidates)-1]), nil
		}
	}

	dir := filepath.Join(root, prefix+shared.NewRunID())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// RunDir returns the active run directory.
func (o *Orchestrator) RunDir() string { return o.runDir }

// Close releases the event log.
func (o *Orchestrator) Close() error {
	if o.eventLog != nil {
		return o.eventLog.Close()
	}
	return nil
}

// Run executes the selected stages in order. The ranking result is
// returned only when the rank stage ran; otherwise the result is nil with
// a nil error.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*models.PowerRankingResult, error) {
	runAll := opts.All()
	year := o.config.Pipeline.Year

	playlist := o.config.PlaylistName()
	if opts.Playlist != "" {
		playlist = opts.Playlist
	}

	o.Notify(NewEvent(PipelineStarted, "").WithMessage("year %d", year))

	if runAll || opts.Extract {
		stage := NewExtractStage(&o.Observable, o.library, o.tracks, o.review, o.checkpoints, playlist, year, o.logger)
		if _, err := RunStage[[]models.Track, []models.Track](ctx, stage, &o.Observable); err != nil {
			o.Notify(NewEvent(PipelineFailed, StageExtract).WithError(err))
			return nil, err
		}
	}

	if runAll || opts.Enrich {
		stage := NewEnrichStage(&o.Observable, o.stats, o.tracks, o.enriched, o.review, o.checkpoints,
			year, o.config.Pipeline.IncludeYouTube, o.logger)
		if _, err := RunStage[[]models.Track, []models.TrackWithStats](ctx, stage, &o.Observable); err != nil {
			o.Notify(NewEvent(PipelineFailed, StageEnrich).WithError(err))
			return nil, err
		}
	}

	var result *models.PowerRankingResult
	if runAll || opts.Rank {
		scorer, err := o.buildScorer()
		if err != nil {
			return nil, err
		}

		outputDir := filepath.Join(o.config.Output.Dir, strconv.Itoa(year))
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}

		stage := NewRankStage(&o.Observable, o.enriched, scorer, outputDir, year, o.logger)
		if result, err = RunStage[[]models.TrackWithStats, *models.PowerRankingResult](ctx, stage, &o.Observable); err != nil {
			o.Notify(NewEvent(PipelineFailed, StageRank).WithError(err))
			return nil, err
		}
	}

	o.Notify(NewEvent(PipelineCompleted, "").
		WithMessage("success rate %.0f%%", o.metrics.SuccessRate()*100))
	return result, nil
}

// buildScorer assembles the scorer from configuration: the normalizer by
// name and the category config file when one is set, built-in defaults
// otherwise.
func (o *Orchestrator) buildScorer() (*scoring.PowerRankingScorer, error) {
	normalizer, err := scoring.NewStrategy(o.config.Pipeline.Normalizer)
	if err != nil {
		return nil, err
	}

	categories := scoring.DefaultCategories()
	if path := o.config.Pipeline.CategoriesPath; path != "" {
		categories = scoring.LoadCategories(path, o.logger)
	}

	return scoring.NewScorer(categories, normalizer, o.logger), nil
}

// GetMetrics returns per-stage counters collected so far.
func (o *Orchestrator) GetMetrics() map[string]StageMetrics {
	return o.metrics.All()
}

// SuccessRate returns the overall item success rate for this run.
func (o *Orchestrator) SuccessRate() float64 {
	return o.metrics.SuccessRate()
}

// GetReviewQueue returns the tracks awaiting manual triage.
func (o *Orchestrator) GetReviewQueue() []repositories.ReviewEntry {
	return o.review.GetAll()
}

// ReviewQueue exposes the underlying queue for operator commands.
func (o *Orchestrator) ReviewQueue() *repositories.ReviewQueue {
	return o.review
}

// CheckpointStates loads each stage's checkpoint for status reporting.
// Stages without a checkpoint map to nil.
func (o *Orchestrator) CheckpointStates() (map[string]*repositories.CheckpointState, error) {
	states := make(map[string]*repositories.CheckpointState, len(StageNames))
	for _, stage := range StageNames {
		state, err := o.checkpoints.Load(stage)
		if err != nil {
			return nil, err
		}
		states[stage] = state
	}
	return states, nil
}

// TrackCounts reports how many tracks each repository holds.
func (o *Orchestrator) TrackCounts() (extracted, enriched int) {
	return o.tracks.Count(), o.enriched.Count()
}

// ClearCheckpoints removes every stage checkpoint so the next run starts
// from scratch while keeping repository data.
func (o *Orchestrator) ClearCheckpoints() error {
	return o.checkpoints.ClearAll()
}

// ResetPipeline clears checkpoints, both repositories, and the review
// queue. Destructive; exports already written are left alone.
func (o *Orchestrator) ResetPipeline() error {
	if err := o.checkpoints.ClearAll(); err != nil {
		return err
	}
	if err := o.tracks.Clear(); err != nil {
		return err
	}
	if err := o.enriched.Clear(); err != nil {
		return err
	}
	return o.review.Clear()
}
