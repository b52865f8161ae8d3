package scoring

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

// PowerRankingScorer computes power rankings for a batch of enriched
// tracks. Scoring is two-level: each metric carries an availability weight
// (the fraction of the batch with non-zero data for it), and each category
// carries a fixed importance tier. Scores live on a 0-1 scale before
// weighting.
type PowerRankingScorer struct {
	categories CategoryConfig
	normalizer NormalizationStrategy
	logger     *log.Logger
}

// NewScorer builds a scorer from a category configuration and a
// normalization strategy. A nil normalizer defaults to MinMax.
func NewScorer(categories CategoryConfig, normalizer NormalizationStrategy, logger *log.Logger) *PowerRankingScorer {
	if normalizer == nil {
		normalizer = MinMaxNormalizer{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	logger.Info("initialized scorer", "normalizer", normalizer.Name(), "categories", len(categories))

	return &PowerRankingScorer{
		categories: categories,
		normalizer: normalizer,
		logger:     logger,
	}
}

// metricColumn holds one metric's batch-wide values and availability.
type metricColumn struct {
	normalized   []float64
	availability float64
}

// ComputeRankings scores and ranks a batch of tracks for a year. An empty
// batch yields an empty result. Ties keep the original batch order.
func (s *PowerRankingScorer) ComputeRankings(tracks []models.TrackWithStats, year int) *models.PowerRankingResult {
	if len(tracks) == 0 {
		s.logger.Warn("no tracks provided for ranking")
		return &models.PowerRankingResult{Year: year, Rankings: []models.PowerRanking{}}
	}

	s.logger.Info("computing power rankings", "tracks", len(tracks))

	columns := s.collectMetricColumns(tracks)
	categoryNames := s.categories.Categories()

	// Category weights depend only on batch-wide availability, so they
	// are identical for every track. A zero total means the batch carries
	// no data at all; in that case scoring falls back to importance-only
	// weighting so a uniform batch still separates categories by tier.
	weights := make(map[string]float64, len(categoryNames))
	var weightTotal float64
	for _, name := range categoryNames {
		w := s.categoryWeight(name, columns)
		weights[name] = w
		weightTotal += w
	}

	importanceOnly := weightTotal == 0
	if importanceOnly {
		s.logger.Warn("no metric data anywhere in batch, falling back to importance-only weighting")
	}

	type scored struct {
		track  models.Track
		total  float64
		scores []models.CategoryScore
		order  int
	}

	results := make([]scored, 0, len(tracks))
	for i, track := range tracks {
		scores := make([]models.CategoryScore, 0, len(categoryNames))
		var weightedSum float64

		for _, name := range categoryNames {
			var raw, weight float64
			if importanceOnly {
				raw = s.meanNormalized(name, columns, i)
				weight = float64(TierFor(name))
			} else {
				raw = s.availabilityWeightedScore(name, columns, i)
				weight = weights[name]
			}

			weighted := raw * weight
			weightedSum += weighted

			scores = append(scores, models.CategoryScore{
				Category:      name,
				RawScore:      raw,
				Weight:        weight,
				WeightedScore: weighted,
			})
		}

		total := weightedSum
		if !importanceOnly {
			total = weightedSum / weightTotal
		}

		results = append(results, scored{track: track.Track, total: total, scores: scores, order: i})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].total > results[b].total
	})

	rankings := make([]models.PowerRanking, len(results))
	for i, r := range results {
		rankings[i] = models.PowerRanking{
			Track:          r.track,
			TotalScore:     r.total,
			Rank:           i + 1,
			CategoryScores: r.scores,
		}
	}

	if len(rankings) > 0 {
		top := rankings[0]
		s.logger.Info("computed rankings",
			"top_artist", top.Track.PrimaryArtist(),
			"top_title", top.Track.Title,
			"top_score", top.TotalScore,
		)
	}

	return &models.PowerRankingResult{Year: year, Rankings: rankings}
}

// collectMetricColumns gathers every configured metric's raw value vector
// across the batch, normalizes it, and computes its availability weight.
// A track without data for a metric contributes zero, deliberately
// conflating "zero" with "unknown".
func (s *PowerRankingScorer) collectMetricColumns(tracks []models.TrackWithStats) map[string]metricColumn {
	columns := make(map[string]metricColumn)

	for _, metrics := range s.categories {
		for _, name := range metrics {
			if _, done := columns[name]; done {
				continue
			}

			raw := make([]float64, len(tracks))
			nonZero := 0
			for i, track := range tracks {
				if v, ok := track.Stats.Metric(name); ok && v > 0 {
					raw[i] = v
					nonZero++
				}
			}

			columns[name] = metricColumn{
				normalized:   s.normalizer.Normalize(raw),
				availability: float64(nonZero) / float64(len(tracks)),
			}
		}
	}

	return columns
}

// availabilityWeightedScore averages a track's normalized metric values
// within a category, weighted by each metric's availability. Returns zero
// when no metric in the category has data anywhere in the batch.
func (s *PowerRankingScorer) availabilityWeightedScore(category string, columns map[string]metricColumn, trackIdx int) float64 {
	var sum, weightSum float64
	for _, name := range s.categories[category] {
		col := columns[name]
		sum += col.availability * col.normalized[trackIdx]
		weightSum += col.availability
	}

	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// meanNormalized is the unweighted average of a track's normalized values
// in a category, used by the importance-only fallback.
func (s *PowerRankingScorer) meanNormalized(category string, columns map[string]metricColumn, trackIdx int) float64 {
	metrics := s.categories[category]
	if len(metrics) == 0 {
		return 0
	}

	var sum float64
	for _, name := range metrics {
		sum += columns[name].normalized[trackIdx]
	}
	return sum / float64(len(metrics))
}

// categoryWeight is the mean availability across a category's metrics
// multiplied by the category's importance tier.
func (s *PowerRankingScorer) categoryWeight(category string, columns map[string]metricColumn) float64 {
	metrics := s.categories[category]
	if len(metrics) == 0 {
		return 0
	}

	var sum float64
	for _, name := range metrics {
		sum += columns[name].availability
	}
	return sum / float64(len(metrics)) * float64(TierFor(category))
}
