// Package server provides the HTTP API for submitting and polling
// script generation requests.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahofmann/scriptroom/internal/auth"
	"github.com/ahofmann/scriptroom/internal/jobs"
	"github.com/ahofmann/scriptroom/internal/metrics"
)

// Server exposes the script request API over HTTP.
type Server struct {
	httpServer *http.Server
	store      *jobs.Store
	dispatcher *jobs.Dispatcher
	checker    *auth.KeyChecker
	metrics    *metrics.Collector
	hub        *Hub
	validate   *validator.Validate
	logger     *slog.Logger
}

// New creates a server listening on the given port.
func New(port string, store *jobs.Store, dispatcher *jobs.Dispatcher, checker *auth.KeyChecker, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:      store,
		dispatcher: dispatcher,
		checker:    checker,
		metrics:    collector,
		hub:        NewHub(logger),
		validate:   validator.New(),
		logger:     logger,
	}

	// Push status changes to websocket subscribers as they happen.
	store.SetNotify(s.hub.NotifyJob)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit_script_request", s.handleSubmit)
	mux.HandleFunc("GET /get_script_result/{request_id}", s.handleResult)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /ws", s.hub.handleUpgrade)

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      withLogging(logger, mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the listener and blocks until the server is shut down.
func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}
