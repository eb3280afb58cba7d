// Package server exposes document rendering and publishing over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/smartgarage/garagedocs/config"
)

// Server is the HTTP API.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	cfg        config.ServerConfig
	renderer   Renderer
	publisher  Publisher
	maxBody    int64
	logger     *log.Logger

	mu      sync.Mutex
	running bool
}

// Option configures a Server.
type Option func(*Server)

// WithPublisher enables the publish route.
func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds a server that renders with r. Authentication is enabled when
// cfg.JWTSecret is set; /healthz stays open.
func New(cfg config.ServerConfig, r Renderer, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		renderer: r,
		maxBody:  cfg.MaxBodyBytes,
		logger:   log.New(os.Stderr, "[server] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBody <= 0 {
		s.maxBody = 4 << 20
	}

	mux := http.NewServeMux()
	s.routes(mux)
	middlewares := []Middleware{RecoveryMiddleware(s.logger), LoggingMiddleware(s.logger)}
	if cfg.JWTSecret != "" {
		middlewares = append(middlewares, AuthMiddleware([]byte(cfg.JWTSecret), "/healthz"))
	}
	s.handler = Chain(mux, middlewares...)
	return s
}

// Handler returns the complete handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens in the background. It reports binding errors that happen
// right away.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server is already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.running = true

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server error: %v", err)
			errCh <- err
		}
		close(errCh)
	}()

	if err := waitStarted(errCh, 100*time.Millisecond); err != nil {
		s.running = false
		return err
	}
	return nil
}

// waitStarted reports an error sent on errCh within wait. A channel closed
// without an error means the server stopped cleanly.
func waitStarted(errCh <-chan error, wait time.Duration) error {
	select {
	case err, ok := <-errCh:
		if !ok || err == nil {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-time.After(wait):
		return nil
	}
}

// Shutdown stops accepting requests and waits for active ones until ctx
// is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.logger.Printf("shutting down")
	s.running = false
	return s.httpServer.Shutdown(ctx)
}
