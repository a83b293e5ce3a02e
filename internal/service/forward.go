// Package service implements the forwarding of one inbound request to the target.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"edge-gateway/internal/client"
	"edge-gateway/internal/config"
	"edge-gateway/internal/model"
)

// ErrUpstreamIO wraps every failure to obtain a complete upstream response.
var ErrUpstreamIO = errors.New("upstream i/o failure")

// Fetcher issues the outbound GET. *client.UpstreamClient implements it.
type Fetcher interface {
	Get(ctx context.Context, target string) (*model.UpstreamResponse, error)
}

var _ Fetcher = (*client.UpstreamClient)(nil)

// ForwardService sends exactly one GET to the configured target per call.
type ForwardService struct {
	fetcher Fetcher
	target  string
	logger  *slog.Logger
}

// NewForwardService creates a ForwardService for cfg.Target.
// The target is copied once here and never changes afterwards.
func NewForwardService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *ForwardService {
	return newForwardService(c, cfg.Target, logger)
}

func newForwardService(f Fetcher, target string, logger *slog.Logger) *ForwardService {
	return &ForwardService{
		fetcher: f,
		target:  target,
		logger:  logger.With("component", "forward_service"),
	}
}

// Target returns the upstream URI.
func (s *ForwardService) Target() string {
	return s.target
}

// Forward fetches the target and returns the buffered response.
// Any failure is returned wrapped in ErrUpstreamIO.
func (s *ForwardService) Forward(ctx context.Context) (*model.UpstreamResponse, error) {
	resp, err := s.fetcher.Get(ctx, s.target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamIO, err)
	}

	s.logger.Debug("upstream responded",
		"status", resp.StatusCode,
		"bytes", len(resp.Body),
	)
	return resp, nil
}
