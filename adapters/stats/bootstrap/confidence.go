package bootstrap

import (
	"math"
	"sort"

	"climattr/domain/attribution"
	"climattr/internal/errors"
)

// PercentileBounds converts a confidence level in percent into the pair of
// percentile ranks bracketing it: (100-ci)/2 and 100-(100-ci)/2.
func PercentileBounds(confidencePct int) (ciInf, ciSup float64, err error) {
	if err := attribution.ValidateBootstrapCI(confidencePct); err != nil {
		return 0, 0, err
	}
	ciInf = float64(100-confidencePct) / 2
	return ciInf, 100 - ciInf, nil
}

// Percentile computes the pct-th percentile with linear interpolation
// between closest ranks. Returns NaN for an empty input.
func Percentile(values []float64, pct float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := pct / 100 * float64(n-1)
	if rank <= 0 {
		return sorted[0]
	}
	if rank >= float64(n-1) {
		return sorted[n-1]
	}
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// ConfidenceEstimator derives percentile confidence bands from bootstrap
// ensembles
type ConfidenceEstimator struct {
	resampler *Resampler
}

// NewConfidenceEstimator creates an estimator around a resampler
func NewConfidenceEstimator(resampler *Resampler) *ConfidenceEstimator {
	return &ConfidenceEstimator{resampler: resampler}
}

// ReturnTimeConfidence resamples the input bootSize times and computes, for
// every rank position of the sorted (direction-ordered) rows, the lower and
// upper percentile across the ensemble. The mapping back to data is by rank,
// not by identity.
func (e *ConfidenceEstimator) ReturnTimeConfidence(sample []float64, direction attribution.Direction, confidencePct, bootSize int) (lower, upper []float64, err error) {
	ciInf, ciSup, err := PercentileBounds(confidencePct)
	if err != nil {
		return nil, nil, err
	}
	if err := attribution.ValidateDirection(direction); err != nil {
		return nil, nil, err
	}
	if bootSize < 1 {
		return nil, nil, errors.ValidationError("boot_size must be at least 1")
	}

	ensemble := e.resampler.Resample(sample, direction, bootSize)

	n := len(sample)
	lower = make([]float64, n)
	upper = make([]float64, n)
	column := make([]float64, bootSize)
	for j := 0; j < n; j++ {
		for i := range ensemble {
			column[i] = ensemble[i][j]
		}
		lower[j] = Percentile(column, ciInf)
		upper[j] = Percentile(column, ciSup)
	}
	return lower, upper, nil
}
