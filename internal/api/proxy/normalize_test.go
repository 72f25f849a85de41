package proxy

import (
	"encoding/json"
	"testing"
)

func intPtrValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"canonical keys", `{"page":1,"totalPages":4,"total":40,"limit":10}`,
			map[string]any{"page": 1, "totalPages": 4, "total": 40, "limit": 10}},
		{"alternate keys", `{"currentPage":"2","totalPages":3,"totalItems":25,"itemsPerPage":10}`,
			map[string]any{"page": 2, "totalPages": 3, "total": 25, "limit": 10}},
		{"canonical wins", `{"page":1,"currentPage":9}`,
			map[string]any{"page": 1, "totalPages": nil, "total": nil, "limit": nil}},
		{"partial", `{"page":1,"totalPages":1}`,
			map[string]any{"page": 1, "totalPages": 1, "total": nil, "limit": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizePagination(json.RawMessage(tt.raw))
			if p == nil {
				t.Fatal("expected pagination")
			}
			got := map[string]any{
				"page":       intPtrValue(p.Page),
				"totalPages": intPtrValue(p.TotalPages),
				"total":      intPtrValue(p.Total),
				"limit":      intPtrValue(p.Limit),
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("%s: want %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestNormalizePagination_Absent(t *testing.T) {
	for _, raw := range []string{"", "null", `{}`, `{"count":3}`, `[1,2]`} {
		if p := NormalizePagination(json.RawMessage(raw)); p != nil {
			t.Fatalf("%q: expected nil, got %+v", raw, p)
		}
	}
}

func TestPaginationKeysOmittedWhenAbsent(t *testing.T) {
	b, err := json.Marshal(NormalizePagination(json.RawMessage(`{"page":1,"totalPages":1}`)))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"page":1,"totalPages":1}` {
		t.Fatalf("unexpected encoding %s", b)
	}
}

func TestInterpolate(t *testing.T) {
	got, err := interpolate("/api/stores/:storeId/products/:id", map[string]string{"storeId": "s 1", "id": "p/2"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "/api/stores/s%201/products/p%2F2" {
		t.Fatalf("unexpected path %q", got)
	}

	if _, err := interpolate("/api/things/:id", map[string]string{}); err == nil {
		t.Fatal("expected an error for a missing parameter")
	}
}
