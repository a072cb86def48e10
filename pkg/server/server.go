// Package server runs the public page server and the management server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
)

// DefaultShutdownTimeout bounds how long in-flight requests may take once shutdown starts.
const DefaultShutdownTimeout = 30 * time.Second

// Server wraps http.Server with configurable timeouts and graceful lifecycle management.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     logger.Logger
	config     Config

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// Config holds configuration for the HTTP server.
type Config struct {
	// Port 0 binds an ephemeral port; Addr reports the one chosen.
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new Server serving handler.
func NewServer(cfg Config, handler http.Handler, log logger.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		handler: handler,
		logger:  log,
		config:  cfg,
		ready:   make(chan struct{}),
	}
}

// Start binds the configured port and serves until ctx is cancelled, then shuts down gracefully.
// A bind failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.addr = listener.Addr()
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("starting server", "addr", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before Start has bound the port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown stops accepting connections and waits up to the shutdown timeout
// for in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer, addr := s.httpServer, s.addr
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down server", "addr", addr.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server shutdown complete", "addr", addr.String())
	return nil
}
