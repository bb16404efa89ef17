// Package server exposes the generation pipeline and the map archive over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/observability"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    archive.Store
	counters *observability.Counters
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithArchive enables the /v1/maps endpoints backed by store.
func WithArchive(store archive.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithCounters exposes c at /v1/stats.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.counters = c }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDefaults sets the options that query parameters override.
// Zero Params mean [dungeon.DefaultParams].
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New builds a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{runner: runner, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.defaults.Params = s.defaults.Params.OrDefault()
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/generate", s.handleGenerate)
		r.Get("/tree", s.handleTree)
		r.Get("/stats", s.handleStats)
		r.Route("/maps", func(r chi.Router) {
			r.Use(s.requireArchive)
			r.Get("/", s.handleListMaps)
			r.Post("/", s.handleCreateMap)
			r.Get("/{id}", s.handleGetMap)
			r.Delete("/{id}", s.handleDeleteMap)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
