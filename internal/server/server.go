package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/job"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/report"
	"llm-market-analyst/internal/store"
)

// Server exposes the batch trigger and read-only result surface over HTTP.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	cfg       *store.Config
	job       *job.Job
	runner    interfaces.BatchRunner
	snapshots *report.Snapshotter
}

// New creates the HTTP server wired to the batch job and snapshot store.
func New(cfg *store.Config, j *job.Job, runner interfaces.BatchRunner, snapshots *report.Snapshotter) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		job:       j,
		runner:    runner,
		snapshots: snapshots,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1/analysis", func(r chi.Router) {
		r.Post("/trigger", s.handleTrigger)
		r.Get("/status", s.handleStatus)
		r.Get("/result", s.handleResult)
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	logger.Info(context.Background(), "HTTP server listening", "port", s.cfg.Server.Port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info(ctx, "HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
