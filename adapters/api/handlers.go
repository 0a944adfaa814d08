package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"climattr/adapters/distributions"
	"climattr/adapters/stats/engine"
	"climattr/domain/attribution"
	"climattr/internal/errors"
)

// AttributionRequest is the JSON body for metric computations. Zero-valued
// optional fields fall back to the conventional defaults.
type AttributionRequest struct {
	All         []float64 `json:"all"`
	Nat         []float64 `json:"nat"`
	Threshold   float64   `json:"threshold"`
	FitFunction string    `json:"fit_function"`
	Direction   string    `json:"direction"`
	BootstrapCI int       `json:"bootstrap_ci"`
	BootSize    int       `json:"boot_size"`
}

func (req *AttributionRequest) options(base engine.Options) (engine.Options, error) {
	opts := base
	if req.Direction != "" {
		dir, err := attribution.ParseDirection(req.Direction)
		if err != nil {
			return opts, err
		}
		opts.Direction = dir
	}
	if req.BootstrapCI != 0 {
		opts.BootstrapCI = req.BootstrapCI
	}
	if req.BootSize != 0 {
		opts.BootSize = req.BootSize
	}
	return opts, nil
}

func (req *AttributionRequest) fitFunction(fallback string) string {
	if req.FitFunction == "" {
		return fallback
	}
	return req.FitFunction
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAttribution(w http.ResponseWriter, r *http.Request) {
	var req AttributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}
	opts, err := req.options(s.defaults.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	run, err := s.service.Run(r.Context(), req.All, req.Nat, req.fitFunction(s.defaults.FitFunction), req.Threshold, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AttributionRequest
		Sample []float64 `json:"sample"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}
	opts, err := req.options(s.defaults.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	dist, err := distributions.ByName(req.fitFunction(s.defaults.FitFunction))
	if err != nil {
		writeError(w, err)
		return
	}

	curve, err := s.service.Engine().ReturnPeriodCurve(req.Sample, dist, opts.Direction, req.Threshold, opts.BootstrapCI, opts.BootSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	var req AttributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}
	dist, err := distributions.ByName(req.fitFunction(s.defaults.FitFunction))
	if err != nil {
		writeError(w, err)
		return
	}

	hist, err := s.service.Engine().Histogram(req.All, req.Nat, dist, req.Threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.repo.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.repo.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeDataError:
		status = http.StatusBadRequest
	case errors.CodeFitError:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
