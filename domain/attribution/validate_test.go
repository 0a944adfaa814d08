package attribution

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climattr/internal/errors"
)

func TestParseDirection(t *testing.T) {
	for raw, want := range map[string]Direction{
		"ascending":  Ascending,
		"descending": Descending,
	} {
		got, err := ParseDirection(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "up", "DESCENDING", "desc"} {
		_, err := ParseDirection(raw)
		require.Error(t, err, raw)
		assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	}
}

func TestValidateBootstrapCI(t *testing.T) {
	for _, ci := range []int{1, 50, 95, 100} {
		assert.NoError(t, ValidateBootstrapCI(ci))
	}
	for _, ci := range []int{0, -5, 101, 200} {
		err := ValidateBootstrapCI(ci)
		require.Error(t, err, "ci=%d", ci)
		assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	}
}

func TestValidateCorrectionMethod(t *testing.T) {
	assert.NoError(t, ValidateCorrectionMethod("add"))
	assert.NoError(t, ValidateCorrectionMethod("divide"))

	err := ValidateCorrectionMethod("multiply")
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestValidateParams(t *testing.T) {
	assert.NoError(t, ValidateParams([]float64{1, 2}))
	assert.NoError(t, ValidateParams([]float64{1, 2, 3}))

	for _, params := range [][]float64{nil, {1}, {1, 2, 3, 4}} {
		err := ValidateParams(params)
		require.Error(t, err)
		assert.Equal(t, errors.CodeFitError, errors.GetCode(err))
	}
}

func TestMetricsResult_Row(t *testing.T) {
	result := MetricsResult{Rows: []MetricRow{
		{Metric: MetricPR, Value: 2.5, CIInf: 1.2, CISup: 4.1},
	}}

	row, ok := result.Row(MetricPR)
	require.True(t, ok)
	assert.Equal(t, 2.5, row.Value)

	_, ok = result.Row(MetricFAR)
	assert.False(t, ok)
}

func TestMetricRow_MarshalNonFinite(t *testing.T) {
	row := MetricRow{Metric: MetricRPNat, Value: math.Inf(1), CIInf: 3.0, CISup: math.NaN()}

	raw, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"metric":"RP_NAT","value":null,"ci_inf":3,"ci_sup":null}`, string(raw))
}
