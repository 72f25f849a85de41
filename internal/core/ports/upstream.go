package ports

import (
	"context"
	"io"
	"net/url"
)

// UpstreamRequest is one outbound call to the backend REST API.
type UpstreamRequest struct {
	Method string
	// Path is relative to the configured API_URL and already interpolated.
	Path  string
	Query url.Values
	// Bearer is the session's upstream token.
	Bearer      string
	ContentType string
	Body        io.Reader
	RequestID   string
}

// UpstreamResponse is the raw upstream reply.
type UpstreamResponse struct {
	Status int
	Body   []byte
}

// Upstream performs calls against the backend REST API.
type Upstream interface {
	Do(ctx context.Context, req UpstreamRequest) (*UpstreamResponse, error)
}
