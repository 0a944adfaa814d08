package distributions

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is the two-parameter Gaussian family. Fit is the MLE: mean and
// population (not sample) standard deviation.
type Normal struct{}

// NewNormal creates a new normal distribution adapter
func NewNormal() *Normal {
	return &Normal{}
}

// Name returns the registry name
func (d *Normal) Name() string {
	return "norm"
}

// Fit returns (loc, scale) via maximum likelihood
func (d *Normal) Fit(sample []float64) ([]float64, error) {
	mean, std, err := sampleMoments(sample)
	if err != nil {
		return nil, err
	}
	if err := checkScale(std); err != nil {
		return nil, err
	}
	return []float64{mean, std}, nil
}

func (d *Normal) dist(params []float64) distuv.Normal {
	return distuv.Normal{Mu: params[0], Sigma: params[1]}
}

// CDF evaluates the cumulative distribution function
func (d *Normal) CDF(x float64, params []float64) float64 {
	return d.dist(params).CDF(x)
}

// SF evaluates the survival function
func (d *Normal) SF(x float64, params []float64) float64 {
	return d.dist(params).Survival(x)
}

// PPF evaluates the inverse CDF
func (d *Normal) PPF(q float64, params []float64) float64 {
	return d.dist(params).Quantile(q)
}

// PDF evaluates the density
func (d *Normal) PDF(x float64, params []float64) float64 {
	return d.dist(params).Prob(x)
}
