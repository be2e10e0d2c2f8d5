// Package server exposes the traversal pipeline as a JSON HTTP API.
//
// # Endpoints
//
//	GET    /healthz                    liveness and version
//	POST   /v1/validate                check that a graph is a rooted tree
//	POST   /v1/traverse                traverse a graph sent in the body
//	POST   /v1/render                  render a graph sent in the body
//	GET    /v1/graphs                  list stored graphs
//	POST   /v1/graphs                  store a graph
//	GET    /v1/graphs/{id}             fetch a stored graph
//	DELETE /v1/graphs/{id}             delete a stored graph
//	GET    /v1/graphs/{id}/traverse    traverse a stored graph (?order=&thread=&order_by=)
//
// Graphs use the JSON file format of package io. Errors are returned as
//
//	{"error": {"code": "INVALID_TREE", "message": "...", "request_id": "..."}}
//
// with the status chosen by errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/threadtree/pkg/pipeline"
	"github.com/matzehuels/threadtree/pkg/store"
)

// Defaults for Config.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr    string
	Runner  *pipeline.Runner
	Store   store.Store
	Logger  *log.Logger
	Version string
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64
	// Timeout bounds each request.
	Timeout time.Duration
}

// Server is the threadtree HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server. A nil Runner or Store is replaced by an uncached
// runner and an in-memory store.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))
	r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/traverse", s.handleTraverse)
		r.Post("/render", s.handleRender)

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Post("/", s.handlePutGraph)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGraph)
				r.Delete("/", s.handleDeleteGraph)
				r.Get("/traverse", s.handleTraverseStored)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
