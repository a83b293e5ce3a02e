package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-gateway/internal/client"
	"edge-gateway/internal/config"
	"edge-gateway/internal/model"
)

type stubFetcher struct {
	calls   atomic.Int32
	targets []string
	resp    *model.UpstreamResponse
	err     error
}

func (f *stubFetcher) Get(_ context.Context, target string) (*model.UpstreamResponse, error) {
	f.calls.Add(1)
	f.targets = append(f.targets, target)
	return f.resp, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForward_UsesFixedTarget(t *testing.T) {
	f := &stubFetcher{resp: &model.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte("ok")}}
	s := newForwardService(f, "http://upstream.internal/data", discardLogger())

	for range 3 {
		resp, err := s.Forward(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.Body))
	}

	assert.Equal(t, int32(3), f.calls.Load(), "one fetch per Forward")
	for _, target := range f.targets {
		assert.Equal(t, "http://upstream.internal/data", target)
	}
}

func TestForward_WrapsErrors(t *testing.T) {
	cause := errors.New("connection reset by peer")
	f := &stubFetcher{err: cause}
	s := newForwardService(f, "http://upstream.internal/", discardLogger())

	_, err := s.Forward(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamIO)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int32(1), f.calls.Load(), "no retry")
}

func TestForward_HappyPath(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/resource", r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("brewed"))
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.Target = upstream.URL + "/resource"
	logger := discardLogger()
	s := NewForwardService(client.NewUpstreamClient(cfg, logger, nil), cfg, logger)

	resp, err := s.Forward(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "brewed", string(resp.Body))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, cfg.Target, s.Target())
}

func TestForward_MalformedTargetFailsLazily(t *testing.T) {
	cfg := config.Default()
	cfg.Target = "http://[::1"
	logger := discardLogger()

	// Construction succeeds; the failure shows up on use.
	s := NewForwardService(client.NewUpstreamClient(cfg, logger, nil), cfg, logger)

	_, err := s.Forward(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamIO)
}
