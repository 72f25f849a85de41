package proxy

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/api/metrics"
	"github.com/citylink/admin-gateway/internal/api/middleware"
	"github.com/citylink/admin-gateway/internal/core/domain"
	"github.com/citylink/admin-gateway/internal/core/ports"
)

// Registrar is satisfied by *echo.Echo and *echo.Group.
type Registrar interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// Handler builds echo handlers for Route values. It holds no per-request
// state.
type Handler struct {
	upstream ports.Upstream
	log      zerolog.Logger
	debug    bool
}

// NewHandler returns a Handler relaying to upstream. With debug set, the
// outbound URL and request/response bodies are logged at debug level.
func NewHandler(upstream ports.Upstream, log zerolog.Logger, debug bool) *Handler {
	return &Handler{upstream: upstream, log: log, debug: debug}
}

// Register mounts every route behind the session and role checks.
func (h *Handler) Register(reg Registrar, routes []Route) {
	for _, r := range routes {
		reg.Add(r.Method, r.Path, h.Serve(r), middleware.RequireSession(), middleware.RBAC(r.Roles...))
	}
}

// Serve returns the handler for r. It assumes the session and role checks
// already ran.
func (h *Handler) Serve(r Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := h.serve(c, r)
		if err == nil {
			return nil
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.ProxyRejectionsTotal.WithLabelValues(c.Path(), metrics.ReasonValidation).Inc()
		} else {
			metrics.ProxyRejectionsTotal.WithLabelValues(c.Path(), metrics.ReasonInternal).Inc()
		}
		return err
	}
}

func (h *Handler) serve(c echo.Context, r Route) error {
	sess := middleware.SessionFrom(c)
	if !sess.Authenticated() {
		return domain.ErrUnauthenticated
	}

	payload, cleanup, err := h.readPayload(c, r)
	if err != nil {
		return err
	}
	defer cleanup()

	params := pathParams(c)
	if r.IDField != "" {
		id := strings.TrimSpace(payload.String(r.IDField))
		if id == "" {
			id = strings.TrimSpace(c.QueryParam(r.IDField))
		}
		if id == "" {
			return domain.NewValidationError(r.IDField, r.IDMessage)
		}
		params[r.IDField] = id
		payload.Delete(r.IDField)
	}

	if err := runRules(r.Rules, payload); err != nil {
		return err
	}
	if err := checkFiles(r, payload); err != nil {
		return err
	}

	path, err := interpolate(r.upstreamTemplate(c), params)
	if err != nil {
		return err
	}

	req := ports.UpstreamRequest{
		Method:    r.Method,
		Path:      path,
		Query:     buildQuery(c, r.Query),
		Bearer:    sess.Token,
		RequestID: requestID(c),
	}
	if r.Body == BodyForm {
		body, contentType, err := encodeBody(r, payload)
		if err != nil {
			return err
		}
		req.Body = bytes.NewReader(body)
		req.ContentType = contentType
		h.logRequest(c, req, payload, body)
	} else {
		h.logRequest(c, req, nil, nil)
	}

	start := time.Now()
	resp, err := h.upstream.Do(c.Request().Context(), req)
	metrics.UpstreamRequestDuration.WithLabelValues(c.Path()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.Path(), r.Method, "error").Inc()
		return fmt.Errorf("proxy %s %s: %w", r.Method, path, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(c.Path(), r.Method, fmt.Sprint(resp.Status)).Inc()

	if h.debug {
		h.log.Debug().
			Str("path", path).
			Int("status", resp.Status).
			RawJSON("body", safeJSON(resp.Body)).
			Msg("upstream response")
	}

	out, _, err := normalize(r, resp.Status, resp.Body)
	if err != nil {
		return fmt.Errorf("proxy %s %s: %w", r.Method, path, err)
	}
	if out.envelope.Success && r.Transform != nil {
		data, err := r.Transform(c, out.envelope.Data)
		if err != nil {
			return fmt.Errorf("proxy %s %s: transform: %w", r.Method, path, err)
		}
		out.envelope.Data = data
	}

	return c.JSON(out.status, out.envelope)
}

// readPayload parses the request body according to r.Body. The returned
// cleanup releases multipart temp files. Parse failures are internal errors,
// not validation errors.
func (h *Handler) readPayload(c echo.Context, r Route) (*Payload, func(), error) {
	noop := func() {}
	if r.Body == BodyNone {
		return emptyPayload(), noop, nil
	}

	if isMultipart(c.Request().Header.Get(echo.HeaderContentType)) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, noop, fmt.Errorf("parse multipart body: %w", err)
		}
		return multipartPayload(form), func() { _ = form.RemoveAll() }, nil
	}

	p, err := decodeJSONPayload(c.Request().Body)
	if err != nil {
		return nil, noop, fmt.Errorf("parse json body: %w", err)
	}
	return p, noop, nil
}

func encodeBody(r Route, p *Payload) ([]byte, string, error) {
	if p.IsMultipart() {
		buf, contentType, err := encodeMultipart(r, p)
		if err != nil {
			return nil, "", err
		}
		return buf.Bytes(), contentType, nil
	}
	body, err := p.encodeJSON()
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return body, echo.MIMEApplicationJSON, nil
}

func isMultipart(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == echo.MIMEMultipartForm
}

func pathParams(c echo.Context) map[string]string {
	names := c.ParamNames()
	values := c.ParamValues()
	params := make(map[string]string, len(names)+1)
	for i, n := range names {
		if i < len(values) {
			params[n] = values[i]
		}
	}
	return params
}

// interpolate fills :name segments of tmpl from params, escaping values.
func interpolate(tmpl string, params map[string]string) (string, error) {
	segs := strings.Split(tmpl, "/")
	for i, s := range segs {
		if !strings.HasPrefix(s, ":") {
			continue
		}
		v, ok := params[s[1:]]
		if !ok || v == "" {
			return "", fmt.Errorf("upstream template %q: missing parameter %s", tmpl, s[1:])
		}
		segs[i] = url.PathEscape(v)
	}
	return strings.Join(segs, "/"), nil
}

// buildQuery forwards recognised parameters only, applying defaults and
// dropping empty values.
func buildQuery(c echo.Context, params []QueryParam) url.Values {
	q := make(url.Values, len(params))
	for _, p := range params {
		v := strings.TrimSpace(c.QueryParam(p.Name))
		if v == "" {
			v = p.Default
		}
		if v != "" {
			q.Set(p.Name, v)
		}
	}
	return q
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func (h *Handler) logRequest(c echo.Context, req ports.UpstreamRequest, p *Payload, body []byte) {
	if !h.debug {
		return
	}
	ev := h.log.Debug().
		Str("route", c.Path()).
		Str("method", req.Method).
		Str("upstream_path", req.Path).
		Str("query", req.Query.Encode())
	switch {
	case p != nil && p.IsMultipart():
		ev = ev.Strs("fields", p.fieldNames())
	case body != nil:
		ev = ev.RawJSON("body", safeJSON(body))
	}
	ev.Msg("upstream request")
}

// safeJSON guards zerolog's RawJSON against non-JSON bodies.
func safeJSON(b []byte) []byte {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return trimmed
	}
	quoted := fmt.Sprintf("%q", truncate(string(b), 512))
	return []byte(quoted)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
