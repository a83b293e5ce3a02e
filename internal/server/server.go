// Package server owns the listeners and their lifecycle.
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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"edge-gateway/internal/config"
	"edge-gateway/internal/metrics"
	"edge-gateway/internal/middleware"
)

// NewEcho creates the Echo instance for the forwarding listener with the shared middleware stack.
// Routes are registered separately and must come last.
func NewEcho(logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// No inbound timeouts: an exchange lives as long as its upstream call.
	e.Server.ReadTimeout = 0
	e.Server.ReadHeaderTimeout = 0
	e.Server.WriteTimeout = 0
	e.Server.IdleTimeout = 0

	e.Server.ConnState = func(_ net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			m.ConnectionsOpen.Inc()
		case http.StateClosed, http.StateHijacked:
			m.ConnectionsOpen.Dec()
		}
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.MetricsMiddleware(m))
	e.Use(middleware.SecurityHeaders())

	return e
}

// Server binds one address and serves an Echo instance on it.
type Server struct {
	echo     *echo.Echo
	addr     string
	readyMsg string
	logger   *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

// NewServer creates the forwarding listener on cfg.Server.Addr().
func NewServer(e *echo.Echo, cfg *config.Config, logger *slog.Logger) *Server {
	return newServer(e, cfg.Server.Addr(), "ready", logger.With("component", "listener"))
}

func newServer(e *echo.Echo, addr, readyMsg string, logger *slog.Logger) *Server {
	return &Server{
		echo:     e,
		addr:     addr,
		readyMsg: readyMsg,
		logger:   logger,
	}
}

// Start binds the socket, logs the readiness line and starts accepting.
// Each accepted connection is served on its own goroutine by http.Server.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logReady(ln.Addr().String())

	go func() {
		if err := s.echo.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "err", err)
		}
	}()
	return nil
}

// logReady writes the readiness record straight to the handler so it is
// emitted at every configured log level.
func (s *Server) logReady(addr string) {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, s.readyMsg, 0)
	r.AddAttrs(slog.String("addr", addr))
	if err := s.logger.Handler().Handle(context.Background(), r); err != nil {
		s.logger.Error("write readiness line", "err", err)
	}
}

// Stop stops accepting and waits for in-flight exchanges until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.echo.Shutdown(ctx)
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Register appends the server's start and stop hooks to the fx lifecycle.
func Register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
