package ports

// Distribution wraps a parametric continuous distribution family. Fitted
// parameters are carried as an opaque slice of length 2 (loc, scale) or
// 3 (shape, loc, scale); every query method takes the slice back verbatim,
// so the engine can stay polymorphic over the family.
type Distribution interface {
	// Name returns the registry name of the family (e.g. "norm", "gev")
	Name() string

	// Fit estimates parameters from a 1-D sample
	Fit(sample []float64) ([]float64, error)

	// CDF evaluates the cumulative distribution function at x
	CDF(x float64, params []float64) float64

	// SF evaluates the survival function (1 - CDF) at x
	SF(x float64, params []float64) float64

	// PPF evaluates the percent-point function (inverse CDF) at q in (0,1)
	PPF(q float64, params []float64) float64

	// PDF evaluates the probability density function at x
	PDF(x float64, params []float64) float64
}
