package bootstrap

import (
	"math/rand"
	"sort"
	"time"

	"climattr/domain/attribution"
)

// Resampler draws bootstrap ensembles with replacement from a 1-D sample.
// The random source is injected so callers control determinism and can give
// concurrent resampling paths independent streams; the original pipeline
// leaned on process-global RNG state instead.
type Resampler struct {
	rng *rand.Rand
}

// NewResampler creates a resampler around an explicit random source
func NewResampler(rng *rand.Rand) *Resampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resampler{rng: rng}
}

// NewSeededResampler creates a deterministic resampler for a fixed seed
func NewSeededResampler(seed int64) *Resampler {
	return &Resampler{rng: rand.New(rand.NewSource(seed))}
}

// Resample draws bootSize independent n-sized resamples with replacement.
// Each row is sorted ascending and reversed when direction is descending.
// Degenerate shapes are defined, not errors: an empty sample yields
// (bootSize, 0) and bootSize <= 0 yields (0, n).
func (r *Resampler) Resample(sample []float64, direction attribution.Direction, bootSize int) [][]float64 {
	if bootSize < 0 {
		bootSize = 0
	}
	n := len(sample)

	ensemble := make([][]float64, bootSize)
	for i := range ensemble {
		row := make([]float64, n)
		for j := range row {
			row[j] = sample[r.rng.Intn(n)]
		}
		sort.Float64s(row)
		if direction == attribution.Descending {
			reverse(row)
		}
		ensemble[i] = row
	}
	return ensemble
}

func reverse(row []float64) {
	for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
		row[i], row[j] = row[j], row[i]
	}
}
