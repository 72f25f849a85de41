package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/core/domain"
	"github.com/citylink/admin-gateway/internal/core/service"
	"github.com/citylink/admin-gateway/internal/infrastructure/upstream"
	"github.com/citylink/admin-gateway/internal/pkg/config"
)

const testSecret = "router-test-secret"

type upstreamCall struct {
	method, path, query, auth, requestID, body string
}

// fakeBackend is an upstream httptest.Server that records every call and
// answers with a fixed status and body.
type fakeBackend struct {
	*httptest.Server
	mu     sync.Mutex
	calls  []upstreamCall
	status int
	body   string
}

func newFakeBackend(t *testing.T, status int, body string) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{status: status, body: body}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, upstreamCall{
			method:    r.Method,
			path:      r.URL.Path,
			query:     r.URL.RawQuery,
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get("X-Request-ID"),
			body:      string(b),
		})
		fb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fb.status)
		_, _ = w.Write([]byte(fb.body))
	}))
	t.Cleanup(fb.Close)
	return fb
}

// apiCalls ignores readiness probes against the base URL.
func (fb *fakeBackend) apiCalls() []upstreamCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []upstreamCall
	for _, c := range fb.calls {
		if strings.HasPrefix(c.path, "/api/") {
			out = append(out, c)
		}
	}
	return out
}

type testGateway struct {
	server   http.Handler
	sessions *service.SessionService
	cfg      *config.Config
}

func newTestGateway(t *testing.T, baseURL string) *testGateway {
	t.Helper()
	cfg := &config.Config{
		Env: "production",
		Upstream: config.UpstreamConfig{
			BaseURL: baseURL,
		},
		Session: config.SessionConfig{
			Secret:     testSecret,
			CookieName: "next-auth.session-token",
		},
	}
	sessions := service.NewSessionService(testSecret, zerolog.Nop())
	e := NewRouter(Deps{
		Config:   cfg,
		Log:      zerolog.Nop(),
		Sessions: sessions,
		Upstream: upstream.NewClient(upstream.Config{BaseURL: baseURL}),
	})
	return &testGateway{server: e, sessions: sessions, cfg: cfg}
}

func (g *testGateway) token(t *testing.T, role string) string {
	t.Helper()
	_, tok, err := g.sessions.Issue(context.Background(), domain.Credentials{
		Email: "admin@example.com", Token: "upstream-" + strings.ToLower(role), UserID: "u1", Role: role,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func (g *testGateway) do(t *testing.T, method, target, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.AddCookie(&http.Cookie{Name: g.cfg.Session.CookieName, Value: g.token(t, role)})
	}
	rec := httptest.NewRecorder()
	g.server.ServeHTTP(rec, req)
	return rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestRouter_CategoriesListPassesThrough(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK,
		`{"success":true,"data":[{"id":"1","name":"Parks"}],"pagination":{"page":1,"totalPages":1}}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodGet, "/api/places/categories", "", domain.RoleSuperAdmin)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `{"success":true,"data":[{"id":"1","name":"Parks"}],"message":"Categories retrieved successfully","pagination":{"page":1,"totalPages":1}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("unexpected body\n got: %s\nwant: %s", got, want)
	}

	calls := fb.apiCalls()
	if len(calls) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(calls))
	}
	if calls[0].path != "/api/places/categories" || calls[0].query != "limit=50&page=1" {
		t.Fatalf("unexpected upstream call %+v", calls[0])
	}
	if calls[0].auth != "Bearer upstream-super_admin" {
		t.Fatalf("unexpected authorization %q", calls[0].auth)
	}
	if calls[0].requestID == "" || calls[0].requestID != rec.Header().Get("X-Request-ID") {
		t.Fatalf("request id not propagated: upstream %q, response %q", calls[0].requestID, rec.Header().Get("X-Request-ID"))
	}
	if _, err := uuid.Parse(calls[0].requestID); err != nil {
		t.Fatalf("generated request id is not a uuid: %q", calls[0].requestID)
	}
}

func TestRouter_CategoryNameRequired(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodPost, "/api/places/categories", `{"name":""}`, domain.RoleSuperAdmin)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := envelopeOf(t, rec)
	if env["success"] != false || env["error"] != "Category name is required" {
		t.Fatalf("unexpected envelope %v", env)
	}
	if n := len(fb.apiCalls()); n != 0 {
		t.Fatalf("expected zero upstream calls, got %d", n)
	}
}

func TestRouter_ServiceZoneIDRequired(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodPut, "/api/services/zones", `{}`, domain.RoleSuperAdmin)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := envelopeOf(t, rec); env["error"] != "Service zone ID is required" {
		t.Fatalf("unexpected envelope %v", env)
	}
	if n := len(fb.apiCalls()); n != 0 {
		t.Fatalf("expected zero upstream calls, got %d", n)
	}
}

func TestRouter_AdminUsersDriverRouting(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":[{"id":"d1"}]}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodGet, "/api/admin/users?type=DRIVER", "", domain.RoleCityAdmin)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	calls := fb.apiCalls()
	if len(calls) != 1 || calls[0].path != "/api/drivers/all" {
		t.Fatalf("expected a call to /api/drivers/all, got %+v", calls)
	}
	env := envelopeOf(t, rec)
	data := env["data"].(map[string]any)
	filters := data["filters"].(map[string]any)
	if filters["type"] != "DRIVER" {
		t.Fatalf("expected data.filters.type DRIVER, got %v", filters)
	}
}

func TestRouter_UpstreamFailureRelayed(t *testing.T) {
	fb := newFakeBackend(t, http.StatusNotFound, `{"success":false,"message":"Not found"}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodGet, "/api/drivers/abc", "", domain.RoleSuperAdmin)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":false,"error":"Not found"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestRouter_UpstreamUnreachable(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{}`)
	baseURL := fb.URL
	fb.Close()
	gw := newTestGateway(t, baseURL)

	rec := gw.do(t, http.MethodGet, "/api/bookings", "", domain.RoleCustomer)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":false,"error":"Internal server error"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestRouter_AuthorizationChecks(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true}`)
	gw := newTestGateway(t, fb.URL)

	rec := gw.do(t, http.MethodGet, "/api/stores", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
	if env := envelopeOf(t, rec); env["error"] != domain.MsgUnauthenticated {
		t.Fatalf("unexpected envelope %v", env)
	}

	rec = gw.do(t, http.MethodPost, "/api/services/types", `{"name":"Taxi"}`, domain.RoleCityAdmin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for CITY_ADMIN on a SUPER_ADMIN route, got %d", rec.Code)
	}
	if env := envelopeOf(t, rec); env["error"] != domain.MsgForbidden {
		t.Fatalf("unexpected envelope %v", env)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	forged := httptest.NewRecorder()
	gw.server.ServeHTTP(forged, req)
	if forged.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d", forged.Code)
	}

	if n := len(fb.apiCalls()); n != 0 {
		t.Fatalf("expected zero upstream calls, got %d", n)
	}
}

func TestRouter_SignInThenProxy(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{"success":true,"data":[]}`)
	gw := newTestGateway(t, fb.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/session",
		strings.NewReader(`{"email":"ana@example.com","token":"up-ana","userId":"u9","role":"CITY_ADMIN"}`))
	req.Header.Set("Content-Type", "application/json")
	signIn := httptest.NewRecorder()
	gw.server.ServeHTTP(signIn, req)
	if signIn.Code != http.StatusOK {
		t.Fatalf("sign-in: expected 200, got %d: %s", signIn.Code, signIn.Body.String())
	}
	cookies := signIn.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/drivers?search=ana", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	gw.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	calls := fb.apiCalls()
	if len(calls) != 1 || calls[0].auth != "Bearer up-ana" || calls[0].query != "limit=10&page=1&search=ana" {
		t.Fatalf("unexpected upstream call %+v", calls)
	}
}

func TestRouter_SignInRejectsIncompleteBundle(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{}`)
	gw := newTestGateway(t, fb.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", strings.NewReader(`{"email":"ana@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	gw.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := envelopeOf(t, rec); env["error"] != domain.MsgInvalidCredentials {
		t.Fatalf("unexpected envelope %v", env)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	fb := newFakeBackend(t, http.StatusOK, `{}`)
	gw := newTestGateway(t, fb.URL)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		gw.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
