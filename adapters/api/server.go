package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"climattr/adapters/stats/engine"
	"climattr/app"
	"climattr/ports"
)

// Defaults are the server-wide fallbacks applied to requests that omit
// engine options or a fit function; they come from the deployment config
type Defaults struct {
	Options     engine.Options
	FitFunction string
}

// Server exposes the attribution engine over HTTP
type Server struct {
	service  *app.AttributionService
	repo     ports.MetricsRepository // nil disables the runs endpoints
	defaults Defaults
	router   chi.Router
}

// NewServer creates the HTTP server and mounts all routes. Zero-valued
// defaults fall back to the conventional engine setup.
func NewServer(service *app.AttributionService, repo ports.MetricsRepository, defaults Defaults) *Server {
	if defaults.Options.Direction == "" {
		defaults.Options = engine.DefaultOptions()
	}
	if defaults.FitFunction == "" {
		defaults.FitFunction = "norm"
	}
	s := &Server{
		service:  service,
		repo:     repo,
		defaults: defaults,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/attribution", s.handleAttribution)
		r.Post("/attribution/curve", s.handleCurve)
		r.Post("/attribution/histogram", s.handleHistogram)
		if repo != nil {
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
		}
	})
	s.router = r
	return s
}

// Handler returns the mounted router
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until the context is canceled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[api] shutdown error: %v", err)
		}
	}()

	log.Printf("[api] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
