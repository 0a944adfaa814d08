package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide instrumentation for the attribution service
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	BootstrapTrials prometheus.Counter
}

// NewMetrics registers the attribution collectors on a registry; pass
// prometheus.DefaultRegisterer outside tests
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "climattr_runs_total",
			Help: "Attribution runs by outcome",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "climattr_run_duration_seconds",
			Help:    "Wall time of attribution metric computations",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		BootstrapTrials: factory.NewCounter(prometheus.CounterOpts{
			Name: "climattr_bootstrap_trials_total",
			Help: "Total bootstrap trials computed",
		}),
	}
}
