package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// eulerMascheroni appears in the moment estimator for the Gumbel location
const eulerMascheroni = 0.5772156649015329

// Gumbel is the two-parameter extreme-value family for block maxima
// (right-skewed). Fit uses the method of moments.
type Gumbel struct{}

// NewGumbel creates a new Gumbel distribution adapter
func NewGumbel() *Gumbel {
	return &Gumbel{}
}

// Name returns the registry name
func (d *Gumbel) Name() string {
	return "gumbel_r"
}

// Fit returns (loc, scale) via the method of moments:
// scale = s*sqrt(6)/pi, loc = mean - gamma*scale
func (d *Gumbel) Fit(sample []float64) ([]float64, error) {
	mean, std, err := sampleMoments(sample)
	if err != nil {
		return nil, err
	}
	scale := std * math.Sqrt(6) / math.Pi
	if err := checkScale(scale); err != nil {
		return nil, err
	}
	loc := mean - eulerMascheroni*scale
	return []float64{loc, scale}, nil
}

func (d *Gumbel) dist(params []float64) distuv.GumbelRight {
	return distuv.GumbelRight{Mu: params[0], Beta: params[1]}
}

// CDF evaluates the cumulative distribution function
func (d *Gumbel) CDF(x float64, params []float64) float64 {
	return d.dist(params).CDF(x)
}

// SF evaluates the survival function
func (d *Gumbel) SF(x float64, params []float64) float64 {
	return 1 - d.CDF(x, params)
}

// PPF evaluates the inverse CDF in closed form
func (d *Gumbel) PPF(q float64, params []float64) float64 {
	return params[0] - params[1]*math.Log(-math.Log(q))
}

// PDF evaluates the density
func (d *Gumbel) PDF(x float64, params []float64) float64 {
	return d.dist(params).Prob(x)
}
