// package scoring computes power rankings from per-platform track metrics
// using pluggable normalization strategies and a two-level weighting model
// (data availability per metric, fixed importance per category).
package scoring

import (
	"fmt"
	"strings"

	"github.com/desertthunder/pwr/internal/shared"
)

// NormalizationStrategy rescales a batch of raw metric values onto [0, 1].
// Implementations are pure: identical input yields identical output, and
// output length always equals input length.
type NormalizationStrategy interface {
	Normalize(values []float64) []float64
	Name() string
}

// NewStrategy returns the strategy registered under name (case-insensitive).
func NewStrategy(name string) (NormalizationStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "minmax", "min-max":
		return MinMaxNormalizer{}, nil
	case "zscore", "z-score":
		return ZScoreNormalizer{}, nil
	case "robust":
		return RobustNormalizer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown normalizer %q", shared.ErrInvalidConfig, name)
	}
}
