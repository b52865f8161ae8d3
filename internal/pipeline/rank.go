package pipeline

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/formatter"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/repositories"
	"github.com/desertthunder/pwr/internal/scoring"
)

const StageRank = "rank"

// RankStage scores the enriched batch and writes the ranking exports.
// Ranking is a whole-batch computation with no per-item progress to
// checkpoint; rerunning it is cheap and always safe.
type RankStage struct {
	*Observable
	enriched  *repositories.StatsRepository
	scorer    *scoring.PowerRankingScorer
	outputDir string
	year      int
	logger    *log.Logger
}

// NewRankStage wires a rank stage writing exports under outputDir.
func NewRankStage(
	notifier *Observable,
	enriched *repositories.StatsRepository,
	scorer *scoring.PowerRankingScorer,
	outputDir string,
	year int,
	logger *log.Logger,
) *RankStage {
	return &RankStage{
		Observable: notifier,
		enriched:   enriched,
		scorer:     scorer,
		outputDir:  outputDir,
		year:       year,
		logger:     logger,
	}
}

func (s *RankStage) Name() string { return StageRank }

// Extract loads every enriched track from the stats repository.
func (s *RankStage) Extract(ctx context.Context) ([]models.TrackWithStats, error) {
	records := s.enriched.GetAll()
	if len(records) == 0 {
		s.logger.Warn("no enriched tracks to rank")
	}
	return records, nil
}

// Transform computes the power rankings.
func (s *RankStage) Transform(ctx context.Context, input []models.TrackWithStats) (*models.PowerRankingResult, error) {
	result := s.scorer.ComputeRankings(input, s.year)

	for _, r := range result.Rankings {
		s.Notify(NewEvent(ItemCompleted, StageRank).WithItem(r.Track.Identifier()).
			WithMetadata("rank", r.Rank).
			WithMetadata("total_score", r.TotalScore))
	}

	return result, nil
}

// Load writes the ranking exports: nested JSON, a flat CSV table, and a
// markdown summary, plus the flattened and tabular stats exports.
func (s *RankStage) Load(ctx context.Context, output *models.PowerRankingResult) error {
	if err := formatter.WriteRankingsJSON(filepath.Join(s.outputDir, "rankings.json"), output); err != nil {
		return err
	}
	if err := formatter.WriteRankingsCSV(filepath.Join(s.outputDir, "rankings.csv"), output); err != nil {
		return err
	}
	if err := formatter.WriteRankingsMarkdown(filepath.Join(s.outputDir, "rankings.md"), output); err != nil {
		return err
	}

	if err := s.enriched.ExportNestedJSON(filepath.Join(s.outputDir, "stats.json")); err != nil {
		return err
	}
	if err := s.enriched.ExportFlatJSON(filepath.Join(s.outputDir, "stats_flat.json")); err != nil {
		return err
	}
	if err := s.enriched.ExportCSV(filepath.Join(s.outputDir, "stats.csv")); err != nil {
		return err
	}

	s.logger.Info("wrote ranking exports", "dir", s.outputDir, "tracks", output.TotalTracks())
	return nil
}
