// Package client provides the outbound HTTP client used to reach the target.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"edge-gateway/internal/config"
	"edge-gateway/internal/metrics"
	"edge-gateway/internal/model"
)

// UpstreamClient issues GET requests to the target and buffers the full body.
// It holds no per-request state and is shared by all inbound requests.
type UpstreamClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUpstreamClient creates an UpstreamClient whose only bound is the connect timeout.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewUpstreamClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *UpstreamClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.Upstream.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &UpstreamClient{
		// Timeout is left at zero: a connected upstream may take arbitrarily
		// long to answer and the request waits for it.
		httpClient: &http.Client{Transport: transport},
		logger:     logger.With("component", "upstream_client"),
		metrics:    m,
	}
}

// Get sends a GET to target and reads the whole response body.
// The request is built on every call; a target that does not parse fails here.
func (c *UpstreamClient) Get(ctx context.Context, target string) (*model.UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	c.logger.Debug("upstream request", "url", req.URL.Redacted())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeError(start)
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observeError(start)
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	if c.metrics != nil {
		c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
		c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *UpstreamClient) observeError(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	c.metrics.UpstreamErrors.Inc()
}
