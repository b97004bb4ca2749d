// Package server runs the loopback HTTP server the LinkedIn popup is
// redirected back to.
//
// ROUTES:
//
//	GET /auth/linkedin/callback  → CallbackHandler.HandleCallback (HTML)
//	GET /session                 → SessionHandler.HandleGet (JSON)
//
// The server only lives for the length of a redirect flow: Start before
// opening the popup, Shutdown once the flow has reached an outcome.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/handler"
	"github.com/sakif/career-compass/internal/middleware"
)

// Config holds server configuration.
type Config struct {
	Addr string // host:port to listen on, e.g. "127.0.0.1:8765"
}

// Server is the callback HTTP server.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	errs     chan error
}

// New builds the router. Nothing listens until Start.
func New(cfg Config, callbacks *handler.CallbackHandler, sessions *handler.SessionHandler, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(logger))

	s.router.Get(auth.CallbackPath, callbacks.HandleCallback)
	s.router.Get("/session", sessions.HandleGet)

	return s
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errors.New("server: already started")
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("server: listening on %s: %w", s.config.Addr, err)
	}

	s.listener = ln
	s.errs = make(chan error, 1)
	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("callback server starting", slog.String("addr", ln.Addr().String()))
	go func(srv *http.Server, errs chan<- error) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}(s.srv, s.errs)

	return nil
}

// Addr is the address actually bound, which differs from the configured one
// when the port was 0. Empty before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done. It returns any error Serve hit while running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, errs := s.srv, s.errs
	s.srv, s.listener = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: graceful shutdown failed: %w", err)
	}
	if err := <-errs; err != nil {
		return fmt.Errorf("server: serving: %w", err)
	}
	s.logger.Info("callback server stopped")
	return nil
}
