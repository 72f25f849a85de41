package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// Result is the observable state of one fetch.
type Result[T any] struct {
	Data       T
	Pagination *domain.Pagination
	Err        error
	Loading    bool
}

// Fetcher repeatedly GETs one endpoint. The query is re-evaluated on every
// Refetch so callers can derive it from mutable filter state.
type Fetcher[T any] struct {
	client *Client
	path   string
	query  func() url.Values

	mu     sync.Mutex
	result Result[T]
}

func NewFetcher[T any](c *Client, path string, query func() url.Values) *Fetcher[T] {
	if query == nil {
		query = func() url.Values { return nil }
	}
	return &Fetcher[T]{client: c, path: path, query: query}
}

// Result returns a snapshot of the latest state.
func (f *Fetcher[T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Refetch performs the GET. On failure the data is reset to its zero value
// and Err is set.
func (f *Fetcher[T]) Refetch(ctx context.Context) Result[T] {
	f.mu.Lock()
	f.result.Loading = true
	f.mu.Unlock()

	var next Result[T]
	reply, err := f.client.Do(ctx, http.MethodGet, f.path, f.query(), nil)
	if err == nil {
		if len(reply.Data) > 0 && string(reply.Data) != "null" {
			if uerr := decodeData(reply.Data, &next.Data); uerr != nil {
				err = fmt.Errorf("decode %s data: %w", f.path, uerr)
			}
		}
		next.Pagination = reply.Pagination
	}
	if err != nil {
		var zero T
		next = Result[T]{Data: zero, Err: err}
	}

	f.mu.Lock()
	f.result = next
	f.mu.Unlock()
	return next
}

// decodeData keeps numbers as json.Number so large numeric ids survive
// formatting.
func decodeData(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// Fetch runs one GET and hands back the result together with a function
// that repeats it.
func Fetch[T any](ctx context.Context, c *Client, path string, query url.Values) (Result[T], func(context.Context) Result[T]) {
	f := NewFetcher[T](c, path, func() url.Values { return query })
	return f.Refetch(ctx), f.Refetch
}
