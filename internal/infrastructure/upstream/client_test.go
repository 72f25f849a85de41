package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/citylink/admin-gateway/internal/core/ports"
)

func TestClient_Do_ForwardsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"})
	resp, err := c.Do(context.Background(), ports.UpstreamRequest{
		Method:      http.MethodPost,
		Path:        "/api/places/categories",
		Query:       url.Values{"page": {"1"}},
		Bearer:      "tok",
		ContentType: "application/json",
		Body:        strings.NewReader(`{"name":"Parks"}`),
		RequestID:   "req-1",
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if resp.Status != http.StatusCreated || string(resp.Body) != `{"success":true}` {
		t.Fatalf("unexpected response: %d %s", resp.Status, resp.Body)
	}
	if got.URL.Path != "/api/places/categories" || got.URL.RawQuery != "page=1" {
		t.Fatalf("unexpected upstream url: %s", got.URL.String())
	}
	if got.Header.Get("Authorization") != "Bearer tok" {
		t.Fatalf("missing bearer header")
	}
	if got.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("missing content type")
	}
	if got.Header.Get("X-Request-ID") != "req-1" {
		t.Fatalf("request id not forwarded")
	}
	if gotBody != `{"name":"Parks"}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestClient_Do_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Not found"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{BaseURL: srv.URL}).Do(context.Background(), ports.UpstreamRequest{Path: "x"})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Status)
	}
}

func TestClient_Do_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	if _, err := NewClient(Config{BaseURL: base}).Do(context.Background(), ports.UpstreamRequest{Path: "/api/x"}); err == nil {
		t.Fatalf("expected transport error")
	}
}
