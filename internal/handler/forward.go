package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"edge-gateway/internal/metrics"
	"edge-gateway/internal/service"
)

// ForwardHandler answers every inbound request with the body of one GET to the target.
type ForwardHandler struct {
	service *service.ForwardService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewForwardHandler creates a ForwardHandler.
// The metrics parameter is optional; pass nil to disable abort counting.
func NewForwardHandler(svc *service.ForwardService, logger *slog.Logger, m *metrics.Metrics) *ForwardHandler {
	return &ForwardHandler{
		service: svc,
		logger:  logger.With("component", "forward_handler"),
		metrics: m,
	}
}

// Handle fetches the target and relays its body with status 200.
//
// The inbound method, path, headers and body are ignored. If the upstream call
// fails the exchange is aborted before any header is written, so the client
// sees the connection close with no status line.
func (h *ForwardHandler) Handle(c echo.Context) error {
	req := c.Request()

	// A client that goes away does not cancel the outbound call.
	ctx := context.WithoutCancel(req.Context())

	resp, err := h.service.Forward(ctx)
	if err != nil {
		h.logger.Error("forward failed",
			"err", err,
			"method", req.Method,
			"path", req.URL.Path,
		)
		if h.metrics != nil {
			h.metrics.ForwardAborts.Inc()
		}
		panic(http.ErrAbortHandler)
	}

	if resp.StatusCode != http.StatusOK {
		h.logger.Debug("upstream status replaced with 200", "upstream_status", resp.StatusCode)
	}

	if err := writeFixedLength(c, resp.Body); err != nil {
		h.logger.Warn("writing response body",
			"err", err,
			"path", req.URL.Path,
		)
	}
	return nil
}

// writeFixedLength writes status 200, a Content-Length equal to len(body), then body.
// Responses to HEAD carry the header only.
func writeFixedLength(c echo.Context, body []byte) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
	res.WriteHeader(http.StatusOK)

	if _, err := res.Write(body); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		return err
	}
	return nil
}
