package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climattr/adapters/distributions"
	"climattr/adapters/stats/bootstrap"
	"climattr/domain/attribution"
	"climattr/internal/errors"
)

// countingSource wraps a rand source and counts every draw, so tests can
// prove validation happens before any bootstrap work
type countingSource struct {
	src   rand.Source
	calls int
}

func (c *countingSource) Int63() int64 {
	c.calls++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
}

func normalSamples(seed int64, n int, mean, std float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()*std + mean
	}
	return out
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.BootSize = 100
	return opts
}

func TestAttributionMetrics_TableShape(t *testing.T) {
	eng := NewEngine(bootstrap.NewSeededResampler(42))
	all := normalSamples(1, 100, 10, 2)
	nat := normalSamples(2, 100, 8, 1.5)

	result, err := eng.AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)

	require.Len(t, result.Rows, 4)
	wantOrder := []attribution.Metric{
		attribution.MetricPR,
		attribution.MetricFAR,
		attribution.MetricRPAll,
		attribution.MetricRPNat,
	}
	for i, row := range result.Rows {
		assert.Equal(t, wantOrder[i], row.Metric)
		assert.LessOrEqual(t, row.CIInf, row.Value, "%s lower bound above median", row.Metric)
		assert.LessOrEqual(t, row.Value, row.CISup, "%s median above upper bound", row.Metric)
	}
}

func TestAttributionMetrics_PointEstimates(t *testing.T) {
	eng := NewEngine(bootstrap.NewSeededResampler(42))
	all := normalSamples(1, 100, 10, 2)
	nat := normalSamples(2, 100, 8, 1.5)

	result, err := eng.AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)

	// ALL sits well above NAT around this threshold, so the exceedance
	// became several times more likely and most of the risk is attributable
	pr := result.Value(attribution.MetricPR)
	far := result.Value(attribution.MetricFAR)
	assert.Greater(t, pr, 2.0)
	assert.Greater(t, far, 0.5)
	assert.Less(t, far, 1.0)
	assert.InDelta(t, 1-1/pr, far, 0.15, "FAR median should track 1-1/PR median")
	assert.Greater(t, result.Value(attribution.MetricRPNat), result.Value(attribution.MetricRPAll))
}

func TestAttributionMetrics_SeededDeterminism(t *testing.T) {
	all := normalSamples(1, 80, 10, 2)
	nat := normalSamples(2, 60, 8, 1.5)

	first, err := NewEngine(bootstrap.NewSeededResampler(7)).
		AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)
	second, err := NewEngine(bootstrap.NewSeededResampler(7)).
		AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAttributionMetrics_ParallelMatchesSequential(t *testing.T) {
	all := normalSamples(1, 80, 10, 2)
	nat := normalSamples(2, 60, 8, 1.5)

	sequential, err := NewEngine(bootstrap.NewSeededResampler(7)).
		AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)

	parallelOpts := testOptions()
	parallelOpts.Workers = 4
	parallel, err := NewEngine(bootstrap.NewSeededResampler(7)).
		AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, parallelOpts)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestAttributionMetrics_MismatchedSampleSizes(t *testing.T) {
	eng := NewEngine(bootstrap.NewSeededResampler(42))
	all := normalSamples(1, 120, 10, 2)
	nat := normalSamples(2, 40, 8, 1.5)

	_, err := eng.AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.NoError(t, err)
}

func TestAttributionMetrics_ValidatesBeforeResampling(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"invalid direction", func(o *Options) { o.Direction = "up" }},
		{"zero ci", func(o *Options) { o.BootstrapCI = 0 }},
		{"ci above 100", func(o *Options) { o.BootstrapCI = 101 }},
		{"zero boot size", func(o *Options) { o.BootSize = 0 }},
	}

	all := normalSamples(1, 50, 10, 2)
	nat := normalSamples(2, 50, 8, 1.5)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &countingSource{src: rand.NewSource(42)}
			eng := NewEngine(bootstrap.NewResampler(rand.New(source)))

			opts := testOptions()
			tt.mutate(&opts)

			_, err := eng.AttributionMetrics(context.Background(), all, nat, distributions.NewNormal(), 9.5, opts)
			require.Error(t, err)
			assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
			assert.Zero(t, source.calls, "validation failure must not consume random draws")
		})
	}
}

func TestAttributionMetrics_FitFailureAbortsWholeCall(t *testing.T) {
	eng := NewEngine(bootstrap.NewSeededResampler(42))
	constant := []float64{2, 2, 2, 2}
	nat := normalSamples(2, 50, 8, 1.5)

	_, err := eng.AttributionMetrics(context.Background(), constant, nat, distributions.NewNormal(), 9.5, testOptions())
	require.Error(t, err)
	assert.Equal(t, errors.CodeFitError, errors.GetCode(err))
}

func TestAttributionMetrics_CanceledContext(t *testing.T) {
	eng := NewEngine(bootstrap.NewSeededResampler(42))
	all := normalSamples(1, 50, 10, 2)
	nat := normalSamples(2, 50, 8, 1.5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.AttributionMetrics(ctx, all, nat, distributions.NewNormal(), 9.5, testOptions())
	require.Error(t, err)
}
