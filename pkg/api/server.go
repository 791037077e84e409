// Package api serves storage plans over HTTP with a WebSocket feed and
// Prometheus metrics.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/DrSkyle/stowage/pkg/engine"
	"github.com/DrSkyle/stowage/pkg/layout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one engine over HTTP.
type Server struct {
	engine   *engine.Engine
	layouts  *layout.Store
	hub      *Hub
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLayouts enables the layout routes.
func WithLayouts(s *layout.Store) Option {
	return func(srv *Server) {
		srv.layouts = s
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// NewServer builds the router. Metrics go to a private registry served on /metrics.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		registry: prometheus.NewRegistry(),
		logger:   eng.Logger,
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = NewMetrics(s.registry)
	s.hub = NewHub(s.logger, s.metrics)
	s.routes()
	return s
}

func (s *Server) routes() {
	handle := func(pattern, route string, h http.HandlerFunc) {
		s.mux.HandleFunc(pattern, s.metrics.instrument(route, h))
	}

	handle("GET /api/plan", "plan", s.handleGetPlan)
	handle("GET /api/settings", "settings", s.handleGetSettings)
	handle("PUT /api/settings", "settings", s.handlePutSettings)
	handle("GET /api/modules", "modules", s.handleGetModules)
	handle("PUT /api/modules", "modules", s.handlePutModules)
	handle("POST /api/apply", "apply", s.handleApply)
	handle("GET /api/factions", "factions", s.handleGetFactions)
	handle("GET /api/storage-modules", "storage_modules", s.handleGetStorageModules)
	handle("GET /api/layouts", "layouts", s.handleListLayouts)
	handle("GET /api/layouts/{name}", "layouts", s.handleGetLayout)
	handle("PUT /api/layouts/{name}", "layouts", s.handleSaveLayout)
	handle("POST /api/layouts/{name}/load", "layouts", s.handleLoadLayout)
	handle("DELETE /api/layouts/{name}", "layouts", s.handleDeleteLayout)

	// Not instrumented: the recorder would hide the Hijacker.
	s.mux.HandleFunc("GET /api/ws", s.handleWs)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Handler returns the router with CORS headers.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// Hub returns the plan feed.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Metrics returns the server collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the feed loop until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// publishPlan recomputes the plan and pushes it to feed clients.
func (s *Server) publishPlan(ctx context.Context) {
	plan, err := s.engine.Plan(ctx)
	if err != nil {
		s.logger.Warn("Plan refresh failed", "error", err)
		return
	}
	s.metrics.ObservePlan(plan)
	s.hub.Publish(Message{Type: "plan", Payload: plan})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
