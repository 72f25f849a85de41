package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type call struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

type gateway struct {
	mu    sync.Mutex
	calls []call
}

func newGateway(t *testing.T) (*gateway, *httptest.Server) {
	t.Helper()
	g := &gateway{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.calls = append(g.calls, call{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(body)})
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"p1","name":"Lake","isActive":true},{"_id":"p2","name":"Hill"}],"pagination":{"page":1,"totalPages":3,"total":25}}`)
		case strings.HasSuffix(r.URL.Path, "/bad"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"error":"Place not found"}`)
		default:
			_, _ = io.WriteString(w, `{"success":true}`)
		}
	}))
	t.Cleanup(srv.Close)
	return g, srv
}

func (g *gateway) snapshot() []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]call(nil), g.calls...)
}

func testEnv(url, stdin string) (*commandEnv, *bytes.Buffer) {
	var out bytes.Buffer
	vars := map[string]string{"ADMINCTL_URL": url, "ADMINCTL_TOKEN": "jwt-1"}
	return &commandEnv{
		stdout: &out,
		stderr: io.Discard,
		stdin:  bufio.NewReader(strings.NewReader(stdin)),
		getenv: func(k string) string { return vars[k] },
	}, &out
}

func TestRun_Usage(t *testing.T) {
	env, _ := testEnv("http://localhost:3000", "")
	for _, args := range [][]string{nil, {"frobnicate"}, {"list", "--resource", "nope"}, {"delete", "-r", "places"}} {
		if err := run(context.Background(), env, args); !errors.Is(err, errUsage) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}

func TestList(t *testing.T) {
	g, srv := newGateway(t)
	env, out := testEnv(srv.URL, "")

	err := run(context.Background(), env, []string{"list", "-r", "places", "--search", "lake", "--page", "2"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	calls := g.snapshot()
	if len(calls) != 1 || calls[0].path != "/api/places" || calls[0].query != "limit=10&page=2&search=lake" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if calls[0].auth != "Bearer jwt-1" {
		t.Fatalf("expected bearer auth, got %q", calls[0].auth)
	}
	text := out.String()
	for _, want := range []string{"ID", "ISACTIVE", "p1", "Lake", "true", "p2", "Hill", "page 1 of 3 (25 total)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestDelete_DeclinedMakesNoCall(t *testing.T) {
	g, srv := newGateway(t)
	env, out := testEnv(srv.URL, "n\n")

	if err := run(context.Background(), env, []string{"delete", "-r", "places", "--id", "p1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if calls := g.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no calls, got %+v", calls)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestDelete_IDInQueryForBodyIDResources(t *testing.T) {
	g, srv := newGateway(t)
	env, _ := testEnv(srv.URL, "y\n")

	if err := run(context.Background(), env, []string{"delete", "-r", "service-types", "--id", "t1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	calls := g.snapshot()
	if len(calls) != 2 || calls[0].method != http.MethodDelete || calls[0].path != "/api/services/types" || calls[0].query != "id=t1" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestDelete_BatchReportsFailures(t *testing.T) {
	g, srv := newGateway(t)
	env, out := testEnv(srv.URL, "")

	err := run(context.Background(), env, []string{"delete", "-r", "places", "--yes", "--id", "p1,bad", "--id", "p3"})
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("expected one failure, got %v", err)
	}
	if n := len(g.snapshot()); n != 3 {
		t.Fatalf("expected 3 deletes, got %d", n)
	}
	text := out.String()
	if !strings.Contains(text, "FAILED") || !strings.Contains(text, "Place not found") {
		t.Fatalf("unexpected output:\n%s", text)
	}
}

func TestToggle(t *testing.T) {
	g, srv := newGateway(t)
	env, out := testEnv(srv.URL, "")

	if err := run(context.Background(), env, []string{"toggle", "-r", "drivers", "--id", "d1"}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error without --value, got %v", err)
	}
	if err := run(context.Background(), env, []string{"toggle", "-r", "drivers", "--id", "d1", "--value=false"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	calls := g.snapshot()
	if len(calls) != 2 || calls[0].method != http.MethodPut || calls[0].path != "/api/drivers/d1" || calls[0].body != `{"isActive":false}` {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if !strings.Contains(out.String(), "d1 isActive=false") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
