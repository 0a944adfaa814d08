package ports

// SampleSource supplies the two 1-D ensembles the engine consumes. The
// spatial/temporal filtering that produced them is the supplier's concern;
// the engine only sees flat numeric samples.
type SampleSource interface {
	// Samples returns the factual (ALL) and counterfactual (NAT) samples
	Samples() (all []float64, nat []float64, err error)
}
