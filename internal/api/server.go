package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgnsrekt/murmure-go/internal/config"
	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
)

// Server handles HTTP API requests.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	queue    *queue.Queue
	pipeline *pipeline.Pipeline
}

// New creates a new API server. A nil queue disables narration jobs and a
// nil pipeline disables synchronous analysis.
func New(cfg *config.Config, logger *slog.Logger, q *queue.Queue, p *pipeline.Pipeline) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		queue:    q,
		pipeline: p,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/healthz", s.handleHealthz)
	mux.HandleFunc("POST /v1/analyze", s.withAuth(s.handleAnalyze))
	mux.HandleFunc("POST /v1/narrate", s.withAuth(s.handleNarrate))
	mux.HandleFunc("GET /v1/narrations/{id}", s.withAuth(s.handleNarration))
	mux.HandleFunc("GET /v1/narrations/{id}/clips/{index}", s.withAuth(s.handleClip))
	return mux
}

// writeTimeout leaves room for a synchronous remote analysis.
func writeTimeout(cfg *config.Config) time.Duration {
	return max(10*time.Second, cfg.LLMTimeout+10*time.Second)
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
