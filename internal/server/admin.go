package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"edge-gateway/internal/config"
	"edge-gateway/internal/handler"
	"edge-gateway/internal/metrics"
)

// Admin is the optional listener for health, status and metrics.
// It never shares a port or a route with the forwarding listener.
type Admin struct {
	server *Server // nil when disabled
}

// NewAdmin builds the admin listener when cfg.Admin.Enabled is set.
func NewAdmin(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, health *handler.HealthHandler) *Admin {
	if !cfg.Admin.Enabled {
		return &Admin{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	handler.RegisterAdminRoutes(e, health, m, cfg.Admin.MetricsPath)

	return &Admin{
		server: newServer(e, cfg.Admin.Addr(), "admin listener started", logger.With("component", "admin")),
	}
}

// Enabled reports whether the admin listener will be started.
func (a *Admin) Enabled() bool {
	return a.server != nil
}

// Server returns the underlying listener, or nil when disabled.
func (a *Admin) Server() *Server {
	return a.server
}

// RegisterAdmin appends the admin listener's hooks when it is enabled.
func RegisterAdmin(lc fx.Lifecycle, a *Admin) {
	if !a.Enabled() {
		return
	}
	Register(lc, a.server)
}
