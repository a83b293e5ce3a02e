package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"edge-gateway/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves liveness and status on the admin listener.
type HealthHandler struct {
	cfg     *config.Config
	version Version
	started time.Time
}

// statusResponse is the /status body.
type statusResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Target         string `json:"target"`
	ConnectTimeout string `json:"connect_timeout"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// NewHealthHandler creates a HealthHandler. Uptime counts from this call.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v, started: time.Now()}
}

// Healthz reports liveness. It never touches the upstream.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Status reports the build version, the forwarding target and how the
// outbound client is bounded.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status:         "ok",
		Version:        string(h.version),
		Target:         h.cfg.Target,
		ConnectTimeout: h.cfg.Upstream.ConnectTimeout.String(),
		UptimeSeconds:  int64(time.Since(h.started).Seconds()),
	})
}
