package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/jobs"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/internal/pipeline"
)

// Server exposes the submission, status, artifact and event boundaries
type Server struct {
	cfg      config.ServerConfig
	paths    config.PathsConfig
	registry jobs.Registry
	bus      *jobs.Bus
	manager  *pipeline.Manager
	logger   logger.Logger

	// jobCtx is the parent of every job's context so jobs outlive the
	// HTTP request that submitted them.
	jobCtx context.Context

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates the HTTP server. jobCtx bounds background job execution.
func New(
	jobCtx context.Context,
	cfg *config.Config,
	registry jobs.Registry,
	bus *jobs.Bus,
	manager *pipeline.Manager,
	log logger.Logger,
) *Server {
	s := &Server{
		cfg:      cfg.Server,
		paths:    cfg.Paths,
		registry: registry,
		bus:      bus,
		manager:  manager,
		logger:   log,
		jobCtx:   jobCtx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/jobs", s.handleSubmit)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleStatus)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleCancel)
	mux.HandleFunc("GET /api/jobs/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("GET /api/jobs/{id}/subtitles", s.handleSubtitles)
	mux.HandleFunc("GET /api/jobs/{id}/events", s.handleEvents)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info(s.jobCtx, "HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and drains in-flight handlers
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
