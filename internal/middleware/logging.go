// Package middleware provides Echo middleware for logging, metrics and response headers.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns an Echo middleware that logs each request with slog.
// Exchanges aborted by a panic are logged with status "aborted" before the panic continues.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			completed := false

			defer func() {
				req := c.Request()
				res := c.Response()

				var status any = res.Status
				if !completed {
					status = "aborted"
				}

				logger.Info("request",
					"method", req.Method,
					"path", req.URL.Path,
					"status", status,
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", res.Header().Get(echo.HeaderXRequestID),
					"remote_ip", c.RealIP(),
					"bytes_out", res.Size,
				)
			}()

			err := next(c)
			completed = true
			return err
		}
	}
}
