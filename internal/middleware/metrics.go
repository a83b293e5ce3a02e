package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"edge-gateway/internal/metrics"
)

// MetricsMiddleware returns an Echo middleware that records Prometheus metrics
// for each inbound request.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			status := metrics.StatusAborted

			// Deferred so a panicking handler is still counted.
			defer func() {
				method := metrics.NormalizeMethod(c.Request().Method)
				m.RequestsTotal.WithLabelValues(method, status).Inc()
				m.RequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
			}()

			err := next(c)

			// When a handler returns an *echo.HTTPError the status has not been
			// written yet; Echo's error handler does that later.
			statusCode := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					statusCode = he.Code
				}
			}
			status = strconv.Itoa(statusCode)

			return err
		}
	}
}
