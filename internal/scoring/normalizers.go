package scoring

import (
	"math"
	"sort"
)

// MinMaxNormalizer linearly rescales values onto [0, 1] by the observed
// minimum and maximum. A batch where every value is equal maps to 0.5,
// signalling "no discriminating information" rather than failing on the
// zero range.
type MinMaxNormalizer struct{}

func (MinMaxNormalizer) Name() string { return "MinMax" }

func (MinMaxNormalizer) Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	min, max, finite := finiteBounds(values)
	if !finite {
		return make([]float64, len(values))
	}

	if min == max {
		return fillFinite(values, 0.5)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[i] = (v - min) / (max - min)
		}
	}
	return out
}

// ZScoreNormalizer standardizes by mean and population standard deviation,
// clips to ±3σ, then maps onto [0, 1]. Zero deviation maps every value
// to 0.5.
type ZScoreNormalizer struct{}

func (ZScoreNormalizer) Name() string { return "ZScore" }

func (ZScoreNormalizer) Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	clean := finiteValues(values)
	if len(clean) == 0 {
		return make([]float64, len(values))
	}

	var mean float64
	for _, v := range clean {
		mean += v
	}
	mean /= float64(len(clean))

	var variance float64
	for _, v := range clean {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(clean)))

	if std == 0 {
		return fillFinite(values, 0.5)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[i] = clipScale((v - mean) / std)
		}
	}
	return out
}

// RobustNormalizer rescales by median and interquartile range so a single
// extreme value cannot dominate the batch, then clips and maps onto [0, 1]
// like ZScore. Zero IQR maps every value to 0.5.
type RobustNormalizer struct{}

func (RobustNormalizer) Name() string { return "Robust" }

func (RobustNormalizer) Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	clean := finiteValues(values)
	if len(clean) == 0 {
		return make([]float64, len(values))
	}

	sort.Float64s(clean)
	median := percentile(clean, 50)
	iqr := percentile(clean, 75) - percentile(clean, 25)

	if iqr == 0 {
		return fillFinite(values, 0.5)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[i] = clipScale((v - median) / iqr)
		}
	}
	return out
}

// clipScale clips a standardized score to ±3 and maps [-3, 3] onto [0, 1].
func clipScale(score float64) float64 {
	clipped := math.Max(-3.0, math.Min(3.0, score))
	return (clipped + 3.0) / 6.0
}

// percentile computes the p-th percentile of sorted values by linear
// interpolation.
func percentile(sorted []float64, p float64) float64 {
	k := float64(len(sorted)-1) * p / 100
	f := math.Floor(k)
	c := math.Ceil(k)

	if f == c {
		return sorted[int(k)]
	}
	return sorted[int(f)]*(c-k) + sorted[int(c)]*(k-f)
}

func finiteValues(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}

func finiteBounds(values []float64) (min, max float64, ok bool) {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// fillFinite returns 0.5 (or the given fill) for finite inputs and 0 for
// non-finite ones, preserving batch length.
func fillFinite(values []float64, fill float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[i] = fill
		}
	}
	return out
}
