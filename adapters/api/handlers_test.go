package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climattr/adapters/stats/bootstrap"
	"climattr/adapters/stats/engine"
	"climattr/app"
)

func testServer() *Server {
	resampler := bootstrap.NewSeededResampler(42)
	service := app.NewAttributionService(engine.NewEngine(resampler), nil, nil)
	return NewServer(service, nil, Defaults{})
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAttribution(t *testing.T) {
	rec := postJSON(t, testServer(), "/v1/attribution", AttributionRequest{
		All:       []float64{10, 12, 11, 14, 9, 13, 12, 10, 11, 15},
		Nat:       []float64{8, 9, 7, 10, 8, 9, 7, 8, 10, 9},
		Threshold: 10.5,
		BootSize:  50,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID     string `json:"id"`
		Result struct {
			Rows []struct {
				Metric string `json:"metric"`
			} `json:"rows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Result.Rows, 4)
	assert.Equal(t, "PR", resp.Result.Rows[0].Metric)
}

func TestHandleAttribution_ServerDefaultsApply(t *testing.T) {
	resampler := bootstrap.NewSeededResampler(42)
	service := app.NewAttributionService(engine.NewEngine(resampler), nil, nil)

	opts := engine.DefaultOptions()
	opts.BootSize = 30
	opts.BootstrapCI = 90
	opts.Workers = 2
	srv := NewServer(service, nil, Defaults{Options: opts, FitFunction: "gumbel_r"})

	// no fit function, CI, or boot size in the request: the configured
	// server defaults must flow through to the run
	rec := postJSON(t, srv, "/v1/attribution", AttributionRequest{
		All:       []float64{10, 12, 11, 14, 9, 13, 12, 10, 11, 15},
		Nat:       []float64{8, 9, 7, 10, 8, 9, 7, 8, 10, 9},
		Threshold: 10.5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FitFunction string `json:"fit_function"`
		BootstrapCI int    `json:"bootstrap_ci"`
		BootSize    int    `json:"boot_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gumbel_r", resp.FitFunction)
	assert.Equal(t, 90, resp.BootstrapCI)
	assert.Equal(t, 30, resp.BootSize)
}

func TestHandleAttribution_RequestOverridesDefaults(t *testing.T) {
	resampler := bootstrap.NewSeededResampler(42)
	service := app.NewAttributionService(engine.NewEngine(resampler), nil, nil)

	opts := engine.DefaultOptions()
	opts.BootSize = 30
	srv := NewServer(service, nil, Defaults{Options: opts, FitFunction: "gumbel_r"})

	rec := postJSON(t, srv, "/v1/attribution", AttributionRequest{
		All:         []float64{10, 12, 11, 14, 9, 13, 12, 10, 11, 15},
		Nat:         []float64{8, 9, 7, 10, 8, 9, 7, 8, 10, 9},
		Threshold:   10.5,
		FitFunction: "norm",
		BootSize:    15,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FitFunction string `json:"fit_function"`
		BootSize    int    `json:"boot_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "norm", resp.FitFunction)
	assert.Equal(t, 15, resp.BootSize)
}

func TestHandleAttribution_InvalidDirection(t *testing.T) {
	rec := postJSON(t, testServer(), "/v1/attribution", AttributionRequest{
		All:       []float64{1, 2, 3},
		Nat:       []float64{1, 2, 3},
		Threshold: 2,
		Direction: "up",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestHandleAttribution_UnknownFitFunction(t *testing.T) {
	rec := postJSON(t, testServer(), "/v1/attribution", AttributionRequest{
		All:         []float64{1, 2, 3},
		Nat:         []float64{1, 2, 3},
		Threshold:   2,
		FitFunction: "cauchy",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAttribution_DegenerateSample(t *testing.T) {
	rec := postJSON(t, testServer(), "/v1/attribution", AttributionRequest{
		All:       []float64{2, 2, 2, 2},
		Nat:       []float64{1, 2, 3, 4},
		Threshold: 2,
		BootSize:  10,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "FIT_ERROR")
}

func TestHandleAttribution_BadJSON(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/attribution", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistogram(t *testing.T) {
	rec := postJSON(t, testServer(), "/v1/attribution/histogram", AttributionRequest{
		All:       []float64{10, 12, 11, 14, 9, 13},
		Nat:       []float64{8, 9, 7, 10, 8, 11},
		Threshold: 10.5,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var hist struct {
		ParamsAll []float64 `json:"params_all"`
		XAll      []float64 `json:"x_all"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Len(t, hist.ParamsAll, 2)
	assert.Len(t, hist.XAll, 700)
}

func TestHandleCurve(t *testing.T) {
	body := map[string]interface{}{
		"sample":    []float64{10, 12, 11, 14, 9, 13, 12, 10},
		"threshold": 11,
		"boot_size": 20,
	}
	rec := postJSON(t, testServer(), "/v1/attribution/curve", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var curve struct {
		Sample         []float64 `json:"sample"`
		ReturnPeriod   []float64 `json:"return_period"`
		ThresholdIndex int       `json:"threshold_index"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &curve))
	assert.Len(t, curve.Sample, 8)
	assert.Len(t, curve.ReturnPeriod, 8)
	assert.Equal(t, 11.0, curve.Sample[curve.ThresholdIndex])
}

func TestRunsEndpointsDisabledWithoutRepo(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
