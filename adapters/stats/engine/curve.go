package engine

import (
	"math"
	"sort"

	"climattr/adapters/stats/bootstrap"
	"climattr/domain/attribution"
	"climattr/ports"
)

// curvePoints is the resolution of the fitted overlay curves
const curvePoints = 700

// ReturnPeriodCurve computes the raw arrays behind a return-period figure:
// empirical return periods for every point of the direction-ordered sample,
// bootstrap confidence bands for both the data and the return periods, and
// a fitted curve sampled across the distribution's quantile range. The
// return-period band uses the descending convention regardless of direction,
// matching how recurrence intervals are ranked. The payload also locates
// the sample point nearest the threshold so its band can be highlighted.
func (e *Engine) ReturnPeriodCurve(sample []float64, dist ports.Distribution, direction attribution.Direction, threshold float64, confidencePct, bootSize int) (*attribution.ReturnPeriodCurve, error) {
	if err := attribution.ValidateBootstrapCI(confidencePct); err != nil {
		return nil, err
	}
	if err := attribution.ValidateDirection(direction); err != nil {
		return nil, err
	}

	ordered := make([]float64, len(sample))
	copy(ordered, sample)
	sort.Float64s(ordered)
	if direction == attribution.Descending {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	params, err := e.calc.fit(ordered, dist)
	if err != nil {
		return nil, err
	}

	returnPeriod := make([]float64, len(ordered))
	for i, threshold := range ordered {
		returnPeriod[i] = 1 / exceedance(dist, threshold, params, direction)
	}

	estimator := bootstrap.NewConfidenceEstimator(e.resampler)
	dataInf, dataSup, err := estimator.ReturnTimeConfidence(ordered, direction, confidencePct, bootSize)
	if err != nil {
		return nil, err
	}
	rpInf, rpSup, err := estimator.ReturnTimeConfidence(returnPeriod, attribution.Descending, confidencePct, bootSize)
	if err != nil {
		return nil, err
	}

	fittedX := linspace(dist.PPF(0.001, params), dist.PPF(0.991, params), curvePoints)
	fittedRP := make([]float64, len(fittedX))
	for i, x := range fittedX {
		fittedRP[i] = 1 / exceedance(dist, x, params, direction)
	}

	return &attribution.ReturnPeriodCurve{
		Sample:         ordered,
		ReturnPeriod:   returnPeriod,
		DataCIInf:      dataInf,
		DataCISup:      dataSup,
		RPCIInf:        rpInf,
		RPCISup:        rpSup,
		FittedX:        fittedX,
		FittedRP:       fittedRP,
		Threshold:      threshold,
		ThresholdIndex: FindNearest(threshold, ordered),
	}, nil
}

// Histogram computes the fitted-density payload for the ALL/NAT comparison
// figure: both parameter sets plus PDF curves sampled between the 1st and
// 99th fitted percentiles.
func (e *Engine) Histogram(all, nat []float64, dist ports.Distribution, threshold float64) (*attribution.HistogramData, error) {
	paramsAll, err := e.calc.fit(all, dist)
	if err != nil {
		return nil, err
	}
	paramsNat, err := e.calc.fit(nat, dist)
	if err != nil {
		return nil, err
	}

	xAll := linspace(dist.PPF(0.01, paramsAll), dist.PPF(0.99, paramsAll), curvePoints)
	xNat := linspace(dist.PPF(0.01, paramsNat), dist.PPF(0.99, paramsNat), curvePoints)

	pdfAll := make([]float64, len(xAll))
	for i, x := range xAll {
		pdfAll[i] = dist.PDF(x, paramsAll)
	}
	pdfNat := make([]float64, len(xNat))
	for i, x := range xNat {
		pdfNat[i] = dist.PDF(x, paramsNat)
	}

	return &attribution.HistogramData{
		ParamsAll: paramsAll,
		ParamsNat: paramsNat,
		XAll:      xAll,
		PDFAll:    pdfAll,
		XNat:      xNat,
		PDFNat:    pdfNat,
		Threshold: threshold,
	}, nil
}

// FindNearest returns the index of the sample value closest to target
func FindNearest(target float64, sample []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range sample {
		if d := math.Abs(v - target); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
