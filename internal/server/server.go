// Package server exposes the update check over HTTP.
//
// Routes:
//
//	POST /v1/check?manager=npm&ignore=a,b   manifest in the body, JSON or YAML
//	GET  /healthz
//	GET  /metrics                           when a metrics handler is configured
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/deps/javascript"
)

const (
	// DefaultMaxBody caps the manifest size accepted by /v1/check.
	DefaultMaxBody = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr     string
	Registry deps.RegistryConfig // Cache is ignored; each request gets its own
	Options  deps.Options        // Logger and Progress are set per request
	Ignore   []string            // Names always left out, merged with ?ignore=
	Managers []*deps.Manager     // Default: javascript.Managers
	Metrics  http.Handler        // Served on /metrics when set
	Logger   *log.Logger
	MaxBody  int64
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server and mounts its routes.
func New(cfg Config) *Server {
	if len(cfg.Managers) == 0 {
		cfg.Managers = javascript.Managers
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/check", s.handleCheck)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
