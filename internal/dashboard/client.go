// Package dashboard drives the gateway's local HTTP surface the way the admin
// dashboard pages do: filtered paginated listing, create/edit forms, deletes
// and boolean toggles, each followed by a full re-fetch.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// APIError is a failure envelope returned by the gateway.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Reply is a decoded success envelope.
type Reply struct {
	Status     int
	Data       json.RawMessage
	Message    string
	Pagination *domain.Pagination
}

// Client talks to the gateway. Session cookies set by SignIn are kept in a
// cookie jar; a bearer token may be supplied instead.
type Client struct {
	base   string
	http   *http.Client
	bearer string
	log    zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is kept if set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearer authenticates every call with an existing session token.
func WithBearer(token string) Option {
	return func(c *Client) { c.bearer = token }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dashboard: invalid gateway url %q", baseURL)
	}

	c := &Client{base: u.String(), http: &http.Client{}, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("dashboard: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// SignIn exchanges a credential bundle for a session cookie.
func (c *Client) SignIn(ctx context.Context, creds domain.Credentials) error {
	_, err := c.Do(ctx, http.MethodPost, "/api/auth/session", nil, JSON(creds))
	return err
}

// SignOut ends the session.
func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodDelete, "/api/auth/session", nil, nil)
	return err
}

// Body is a request payload.
type Body interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct{ v any }

// JSON encodes v as the request body.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) encode() (io.Reader, string, error) {
	raw, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encode json body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

// Upload is a file attached to a form.
type Upload struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type multipartBody struct {
	fields map[string]string
	files  []Upload
}

// Multipart encodes fields and files as multipart/form-data.
func Multipart(fields map[string]string, files ...Upload) Body {
	return multipartBody{fields: fields, files: files}
}

func (b multipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	names := make([]string, 0, len(b.fields))
	for k := range b.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := mw.WriteField(k, b.fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range b.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// Do performs one call and decodes the envelope. A failure envelope is
// returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body Body) (*Reply, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rdr io.Reader
	var contentType string
	if body != nil {
		var err error
		if rdr, contentType, err = body.encode(); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("dashboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	c.log.Debug().Str("method", method).Str("url", target).Msg("dashboard call")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env domain.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return &Reply{
		Status:     resp.StatusCode,
		Data:       env.Data,
		Message:    env.Message,
		Pagination: env.Pagination,
	}, nil
}
