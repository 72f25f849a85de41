package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citylink/admin-gateway/internal/core/ports"
)

// maxBodyBytes bounds how much of an upstream reply is buffered.
const maxBodyBytes = 16 << 20

// Config captures the settings for reaching the backend REST API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues exactly one HTTP request per Do call. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Upstream = (*Client)(nil)

// NewClient returns a Client rooted at cfg.BaseURL. A zero Timeout means no
// client-side deadline beyond the request context.
func NewClient(cfg Config) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP lets tests and callers supply their own transport.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// URL returns the absolute upstream URL for req, query string included.
func (c *Client) URL(req ports.UpstreamRequest) string {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Do sends req and buffers the reply. Transport failures are returned as
// errors; any HTTP status, including 4xx/5xx, is a successful Do.
func (c *Client) Do(ctx context.Context, req ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.URL(req), req.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("upstream read body: %w", err)
	}

	return &ports.UpstreamResponse{Status: resp.StatusCode, Body: body}, nil
}

// Ping reports whether the upstream answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.Body.Close()
}
