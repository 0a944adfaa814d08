package engine

import (
	"context"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"climattr/adapters/stats/bootstrap"
	"climattr/domain/attribution"
	"climattr/internal/errors"
	"climattr/ports"
)

// Options configures one attribution metrics computation
type Options struct {
	Direction   attribution.Direction
	BootstrapCI int // confidence level in percent
	BootSize    int // number of bootstrap trials
	Workers     int // parallel trial fan-out; values below 2 run sequentially
}

// DefaultOptions mirrors the conventional attribution setup: exceedance
// above threshold, 95% interval, 1000 trials
func DefaultOptions() Options {
	return Options{
		Direction:   attribution.Descending,
		BootstrapCI: 95,
		BootSize:    1000,
		Workers:     1,
	}
}

// Engine drives bootstrap attribution computations
type Engine struct {
	resampler *bootstrap.Resampler
	calc      *Calculator
}

// NewEngine creates an engine around a resampler
func NewEngine(resampler *bootstrap.Resampler) *Engine {
	return &Engine{
		resampler: resampler,
		calc:      NewCalculator(),
	}
}

// Calculator exposes the per-sample metric calculator
func (e *Engine) Calculator() *Calculator {
	return e.calc
}

// AttributionMetrics runs opts.BootSize independent bootstrap trials of
// (resample ALL, resample NAT, compute PR/FAR/RP_ALL/RP_NAT) and summarizes
// each metric as median plus percentile confidence interval.
//
// Validation happens before any random draw so invalid input never consumes
// O(bootSize) work. Any per-trial fit failure aborts the whole call: trials
// are never dropped, since a silently thinned ensemble would bias the
// intervals.
func (e *Engine) AttributionMetrics(ctx context.Context, all, nat []float64, dist ports.Distribution, threshold float64, opts Options) (attribution.MetricsResult, error) {
	var result attribution.MetricsResult

	if err := attribution.ValidateBootstrapCI(opts.BootstrapCI); err != nil {
		return result, err
	}
	if err := attribution.ValidateDirection(opts.Direction); err != nil {
		return result, err
	}
	if opts.BootSize < 1 {
		return result, errors.ValidationError("boot_size must be at least 1")
	}

	ciInf, ciSup, err := bootstrap.PercentileBounds(opts.BootstrapCI)
	if err != nil {
		return result, err
	}

	// Row order inside the ensembles does not affect fitting, so both are
	// drawn ascending regardless of the metric direction.
	allBoot := e.resampler.Resample(all, attribution.Ascending, opts.BootSize)
	natBoot := e.resampler.Resample(nat, attribution.Ascending, opts.BootSize)

	trials := map[attribution.Metric][]float64{
		attribution.MetricPR:    make([]float64, opts.BootSize),
		attribution.MetricFAR:   make([]float64, opts.BootSize),
		attribution.MetricRPAll: make([]float64, opts.BootSize),
		attribution.MetricRPNat: make([]float64, opts.BootSize),
	}

	runTrial := func(i int) error {
		pr, err := e.calc.ProbabilityRatio(allBoot[i], natBoot[i], dist, threshold, opts.Direction)
		if err != nil {
			return errors.Wrapf(err, "trial %d", i)
		}
		far, err := e.calc.FractionAttributableRisk(allBoot[i], natBoot[i], dist, threshold)
		if err != nil {
			return errors.Wrapf(err, "trial %d", i)
		}
		rpAll, err := e.calc.ReturnPeriod(allBoot[i], dist, threshold, opts.Direction)
		if err != nil {
			return errors.Wrapf(err, "trial %d", i)
		}
		rpNat, err := e.calc.ReturnPeriod(natBoot[i], dist, threshold, opts.Direction)
		if err != nil {
			return errors.Wrapf(err, "trial %d", i)
		}
		trials[attribution.MetricPR][i] = pr
		trials[attribution.MetricFAR][i] = far
		trials[attribution.MetricRPAll][i] = rpAll
		trials[attribution.MetricRPNat][i] = rpNat
		return nil
	}

	// Trials are pure given their ensemble rows, so the fan-out is
	// order-independent: trial i only ever writes slot i.
	if opts.Workers > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := 0; i < opts.BootSize; i++ {
			i := i
			g.Go(func() error { return runTrial(i) })
		}
		if err := g.Wait(); err != nil {
			return result, err
		}
	} else {
		for i := 0; i < opts.BootSize; i++ {
			if err := ctx.Err(); err != nil {
				return result, errors.Wrap(err, "attribution metrics canceled")
			}
			if err := runTrial(i); err != nil {
				return result, err
			}
		}
	}

	for _, metric := range attribution.Metrics {
		values := trials[metric]
		median, err := stats.Median(values)
		if err != nil {
			return result, errors.Wrapf(err, "median aggregation for %s failed", metric)
		}
		result.Rows = append(result.Rows, attribution.MetricRow{
			Metric: metric,
			Value:  median,
			CIInf:  bootstrap.Percentile(values, ciInf),
			CISup:  bootstrap.Percentile(values, ciSup),
		})
	}
	return result, nil
}
