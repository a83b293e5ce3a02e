package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edge-gateway/internal/metrics"
)

// RegisterRoutes sends every method and path on the forwarding listener to fwd.
//
// Echo's Any only covers the methods Echo knows, so the handler is installed as
// the innermost middleware instead: it runs after the router for every request,
// including ones the router would answer with 404 or 405. Call it after all
// other middleware has been added.
func RegisterRoutes(e *echo.Echo, fwd *ForwardHandler) {
	e.Use(terminal(fwd.Handle))
}

// RegisterHelloRoutes sends every method and path to the static responder.
func RegisterHelloRoutes(e *echo.Echo, hello *HelloHandler) {
	e.Use(terminal(hello.Handle))
}

// RegisterAdminRoutes wires health, status and metrics onto the admin listener.
func RegisterAdminRoutes(e *echo.Echo, health *HealthHandler, m *metrics.Metrics, metricsPath string) {
	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)
	e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}

// terminal returns a middleware that ignores the routed handler and calls h.
func terminal(h echo.HandlerFunc) echo.MiddlewareFunc {
	return func(echo.HandlerFunc) echo.HandlerFunc {
		return h
	}
}
