package engine

import (
	"climattr/domain/attribution"
	"climattr/internal/errors"
	"climattr/ports"
)

// Calculator computes the scalar attribution metrics from fitted
// distributions. All methods tolerate zero-probability tails by returning
// non-finite values (+Inf, NaN) instead of erroring; only fit failures and
// bad parameter arity are fatal.
type Calculator struct{}

// NewCalculator creates a new metrics calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// fit runs the adapter's fit and enforces the 2-or-3 parameter contract
func (c *Calculator) fit(sample []float64, dist ports.Distribution) ([]float64, error) {
	params, err := dist.Fit(sample)
	if err != nil {
		return nil, errors.Wrapf(err, "%s fit failed", dist.Name())
	}
	if err := attribution.ValidateParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

// exceedance evaluates the direction-dependent threshold probability:
// survival function for descending, CDF for ascending
func exceedance(dist ports.Distribution, threshold float64, params []float64, direction attribution.Direction) float64 {
	if direction == attribution.Descending {
		return dist.SF(threshold, params)
	}
	return dist.CDF(threshold, params)
}

// ReturnPeriod fits dist to the sample and returns the expected recurrence
// interval of crossing the threshold. A zero fitted tail probability yields
// +Inf, which callers must tolerate.
func (c *Calculator) ReturnPeriod(sample []float64, dist ports.Distribution, threshold float64, direction attribution.Direction) (float64, error) {
	params, err := c.fit(sample, dist)
	if err != nil {
		return 0, err
	}
	return 1 / exceedance(dist, threshold, params, direction), nil
}

// ProbabilityRatio fits dist independently to both samples and returns the
// ratio of their threshold probabilities, ALL over NAT. Values above 1 mean
// the event became more likely under the factual ensemble.
func (c *Calculator) ProbabilityRatio(all, nat []float64, dist ports.Distribution, threshold float64, direction attribution.Direction) (float64, error) {
	paramsAll, err := c.fit(all, dist)
	if err != nil {
		return 0, err
	}
	paramsNat, err := c.fit(nat, dist)
	if err != nil {
		return 0, err
	}
	pAll := exceedance(dist, threshold, paramsAll, direction)
	pNat := exceedance(dist, threshold, paramsNat, direction)
	return pAll / pNat, nil
}

// FractionAttributableRisk returns 1 - 1/PR. FAR is defined strictly as
// exceedance-risk attribution: it always uses the descending convention and
// deliberately ignores whatever direction the caller picked for RP and PR.
func (c *Calculator) FractionAttributableRisk(all, nat []float64, dist ports.Distribution, threshold float64) (float64, error) {
	pr, err := c.ProbabilityRatio(all, nat, dist, threshold, attribution.Descending)
	if err != nil {
		return 0, err
	}
	return 1 - 1/pr, nil
}
