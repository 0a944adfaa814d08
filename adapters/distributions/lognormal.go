package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"climattr/internal/errors"
)

// LogNormal is the two-parameter log-normal family, fitted by MLE on the
// log-transformed sample. Parameters are (mu, sigma) of the underlying
// normal, so the scale slot carries sigma.
type LogNormal struct{}

// NewLogNormal creates a new log-normal distribution adapter
func NewLogNormal() *LogNormal {
	return &LogNormal{}
}

// Name returns the registry name
func (d *LogNormal) Name() string {
	return "lognorm"
}

// Fit returns (mu, sigma) of log(sample); all values must be positive
func (d *LogNormal) Fit(sample []float64) ([]float64, error) {
	logs := make([]float64, len(sample))
	for i, v := range sample {
		if v <= 0 {
			return nil, errors.FitError("lognormal fit requires strictly positive values")
		}
		logs[i] = math.Log(v)
	}
	mu, sigma, err := sampleMoments(logs)
	if err != nil {
		return nil, err
	}
	if err := checkScale(sigma); err != nil {
		return nil, err
	}
	return []float64{mu, sigma}, nil
}

func (d *LogNormal) dist(params []float64) distuv.LogNormal {
	return distuv.LogNormal{Mu: params[0], Sigma: params[1]}
}

// CDF evaluates the cumulative distribution function
func (d *LogNormal) CDF(x float64, params []float64) float64 {
	if x <= 0 {
		return 0
	}
	return d.dist(params).CDF(x)
}

// SF evaluates the survival function
func (d *LogNormal) SF(x float64, params []float64) float64 {
	return 1 - d.CDF(x, params)
}

// PPF evaluates the inverse CDF via the underlying normal quantile
func (d *LogNormal) PPF(q float64, params []float64) float64 {
	normal := distuv.Normal{Mu: params[0], Sigma: params[1]}
	return math.Exp(normal.Quantile(q))
}

// PDF evaluates the density
func (d *LogNormal) PDF(x float64, params []float64) float64 {
	if x <= 0 {
		return 0
	}
	return d.dist(params).Prob(x)
}
