// Package model defines shared types for the gateway.
package model

// UpstreamResponse is a fully buffered upstream reply.
//
// StatusCode is recorded for logs and metrics only; clients always receive 200.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}
