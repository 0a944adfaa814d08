package distributions

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"climattr/internal/errors"
)

// sampleMoments returns the mean and the population (MLE) standard deviation,
// matching the convention the normal and lognormal fits rely on.
func sampleMoments(sample []float64) (mean, std float64, err error) {
	if len(sample) == 0 {
		return 0, 0, errors.FitError("cannot fit distribution to empty sample")
	}
	mean, err = stats.Mean(sample)
	if err != nil {
		return 0, 0, errors.Wrap(err, "mean computation failed")
	}
	std, err = stats.StandardDeviationPopulation(sample)
	if err != nil {
		return 0, 0, errors.Wrap(err, "standard deviation computation failed")
	}
	return mean, std, nil
}

// checkScale rejects singular fits: a zero or non-finite scale parameter
// (constant resamples are the usual culprit) cannot be evaluated.
func checkScale(scale float64) error {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return errors.FitError("degenerate fit: non-positive scale parameter")
	}
	return nil
}

// lMoments computes the first two sample L-moments and the L-skewness ratio
// using the direct estimator on the ascending-sorted sample.
func lMoments(sample []float64) (l1, l2, t3 float64, err error) {
	n := len(sample)
	if n < 3 {
		return 0, 0, 0, errors.FitError("L-moment fit needs at least 3 values")
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	var b0, b1, b2 float64
	nf := float64(n)
	for i, x := range sorted {
		fi := float64(i)
		b0 += x
		b1 += fi / (nf - 1) * x
		b2 += fi * (fi - 1) / ((nf - 1) * (nf - 2)) * x
	}
	b0 /= nf
	b1 /= nf
	b2 /= nf

	l1 = b0
	l2 = 2*b1 - b0
	if l2 <= 0 {
		return 0, 0, 0, errors.FitError("degenerate fit: zero L-scale (constant sample?)")
	}
	l3 := 6*b2 - 6*b1 + b0
	return l1, l2, l3 / l2, nil
}
