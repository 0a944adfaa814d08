package attribution

import (
	"encoding/json"
	"fmt"
	"math"

	"climattr/internal/errors"
)

// Direction controls how threshold exceedance is evaluated: descending means
// "probability of exceeding the threshold" (survival function), ascending
// means "probability of falling below it" (CDF). It also fixes the ordering
// of bootstrap rows and return-period sequences.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection validates and converts a raw direction string
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case Ascending, Descending:
		return Direction(raw), nil
	}
	return "", errors.ValidationError("direction must be either 'ascending' or 'descending'")
}

// Metric identifies one of the four attribution metrics
type Metric string

const (
	MetricPR    Metric = "PR"     // probability ratio ALL/NAT
	MetricFAR   Metric = "FAR"    // fraction of attributable risk, 1 - 1/PR
	MetricRPAll Metric = "RP_ALL" // return period under the factual ensemble
	MetricRPNat Metric = "RP_NAT" // return period under the counterfactual ensemble
)

// Metrics lists the result table rows in their fixed presentation order
var Metrics = []Metric{MetricPR, MetricFAR, MetricRPAll, MetricRPNat}

// MetricRow is one row of the attribution result table: the median point
// estimate across bootstrap trials plus the percentile confidence interval
type MetricRow struct {
	Metric Metric  `json:"metric" db:"metric"`
	Value  float64 `json:"value" db:"value"`
	CIInf  float64 `json:"ci_inf" db:"ci_inf"`
	CISup  float64 `json:"ci_sup" db:"ci_sup"`
}

// MarshalJSON encodes non-finite values as null so infinite return periods
// (defined, non-error results per the engine contract) survive JSON transport
func (r MetricRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Metric Metric      `json:"metric"`
		Value  interface{} `json:"value"`
		CIInf  interface{} `json:"ci_inf"`
		CISup  interface{} `json:"ci_sup"`
	}{r.Metric, finiteOrNil(r.Value), finiteOrNil(r.CIInf), finiteOrNil(r.CISup)})
}

func finiteOrNil(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// MetricsResult is the 4x3 attribution summary table
type MetricsResult struct {
	Rows []MetricRow `json:"rows"`
}

// Row returns the row for a metric
func (r MetricsResult) Row(m Metric) (MetricRow, bool) {
	for _, row := range r.Rows {
		if row.Metric == m {
			return row, true
		}
	}
	return MetricRow{}, false
}

// Value returns the point estimate for a metric, NaN-free lookup is the
// caller's concern
func (r MetricsResult) Value(m Metric) float64 {
	row, _ := r.Row(m)
	return row.Value
}

// ReturnPeriodCurve carries the raw per-point arrays the presentation layer
// turns into a return-period figure. All slices indexed by rank position in
// the direction-ordered sample, except the fitted curve which is sampled
// across the fitted distribution's quantile range. ThresholdIndex locates
// the sample point nearest the event threshold, so the figure can highlight
// its confidence band.
type ReturnPeriodCurve struct {
	Sample         []float64 `json:"sample"`
	ReturnPeriod   []float64 `json:"return_period"`
	DataCIInf      []float64 `json:"data_ci_inf"`
	DataCISup      []float64 `json:"data_ci_sup"`
	RPCIInf        []float64 `json:"rp_ci_inf"`
	RPCISup        []float64 `json:"rp_ci_sup"`
	FittedX        []float64 `json:"fitted_x"`
	FittedRP       []float64 `json:"fitted_rp"`
	Threshold      float64   `json:"threshold"`
	ThresholdIndex int       `json:"threshold_index"`
}

// HistogramData carries fitted-density payloads for the ALL/NAT histogram
// figure: the fitted parameters of both ensembles and PDF curves sampled
// between the 1st and 99th fitted percentiles.
type HistogramData struct {
	ParamsAll []float64 `json:"params_all"`
	ParamsNat []float64 `json:"params_nat"`
	XAll      []float64 `json:"x_all"`
	PDFAll    []float64 `json:"pdf_all"`
	XNat      []float64 `json:"x_nat"`
	PDFNat    []float64 `json:"pdf_nat"`
	Threshold float64   `json:"threshold"`
}

// Run ties one attribution computation to its inputs for persistence
type Run struct {
	ID          string        `json:"id" db:"id"`
	FitFunction string        `json:"fit_function" db:"fit_function"`
	Threshold   float64       `json:"threshold" db:"threshold"`
	Direction   Direction     `json:"direction" db:"direction"`
	BootstrapCI int           `json:"bootstrap_ci" db:"bootstrap_ci"`
	BootSize    int           `json:"boot_size" db:"boot_size"`
	NAll        int           `json:"n_all" db:"n_all"`
	NNat        int           `json:"n_nat" db:"n_nat"`
	Result      MetricsResult `json:"result" db:"-"`
}

func (r Run) String() string {
	return fmt.Sprintf("run %s: %s thresh=%g dir=%s boot=%d", r.ID, r.FitFunction, r.Threshold, r.Direction, r.BootSize)
}
