package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"climattr/adapters/distributions"
	"climattr/adapters/stats/engine"
	"climattr/domain/attribution"
	"climattr/internal/observability"
	"climattr/ports"
)

// AttributionService drives attribution computations end to end: resolve the
// distribution family, run the bootstrap engine, persist the run when a
// repository is wired.
type AttributionService struct {
	engine  *engine.Engine
	repo    ports.MetricsRepository // nil disables persistence
	metrics *observability.Metrics  // nil disables instrumentation
}

// NewAttributionService creates a new attribution service
func NewAttributionService(eng *engine.Engine, repo ports.MetricsRepository, metrics *observability.Metrics) *AttributionService {
	return &AttributionService{
		engine:  eng,
		repo:    repo,
		metrics: metrics,
	}
}

// Engine exposes the underlying engine for curve/histogram payloads
func (s *AttributionService) Engine() *engine.Engine {
	return s.engine
}

// Run computes the attribution metrics table for the given samples and
// records the run
func (s *AttributionService) Run(ctx context.Context, all, nat []float64, fitFunction string, threshold float64, opts engine.Options) (attribution.Run, error) {
	var run attribution.Run

	dist, err := distributions.ByName(fitFunction)
	if err != nil {
		s.count("invalid")
		return run, err
	}

	start := time.Now()
	result, err := s.engine.AttributionMetrics(ctx, all, nat, dist, threshold, opts)
	if err != nil {
		s.count("error")
		return run, err
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RunDuration.Observe(elapsed.Seconds())
		s.metrics.BootstrapTrials.Add(float64(opts.BootSize))
	}
	s.count("ok")

	run = attribution.Run{
		ID:          uuid.NewString(),
		FitFunction: dist.Name(),
		Threshold:   threshold,
		Direction:   opts.Direction,
		BootstrapCI: opts.BootstrapCI,
		BootSize:    opts.BootSize,
		NAll:        len(all),
		NNat:        len(nat),
		Result:      result,
	}
	log.Printf("[attribution] %s finished in %s", run.String(), elapsed.Round(time.Millisecond))

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, run); err != nil {
			// the computed result is still valid; persistence failure is
			// reported but does not discard it
			log.Printf("[attribution] failed to persist run %s: %v", run.ID, err)
		}
	}
	return run, nil
}

func (s *AttributionService) count(status string) {
	if s.metrics != nil {
		s.metrics.RunsTotal.WithLabelValues(status).Inc()
	}
}
