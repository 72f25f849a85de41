package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Item is one listed entity as the gateway returns it.
type Item map[string]any

// ID returns the entity id, accepting "id" or "_id".
func (it Item) ID() string {
	for _, k := range []string{"id", "_id"} {
		if v, ok := it[k]; ok && v != nil {
			return formatID(v)
		}
	}
	return ""
}

func formatID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Resource describes one gateway collection.
type Resource struct {
	// Path is the collection route, e.g. /api/places.
	Path string
	// IDInBody selects routes that take the id in the body (PUT) or query
	// string (DELETE) instead of the path.
	IDInBody bool
	Limit    int
	// Filter query parameter names. Empty disables the filter.
	SearchParam   string
	StatusParam   string
	CategoryParam string
}

func (r Resource) itemPath(id string) string {
	if r.IDInBody {
		return r.Path
	}
	return r.Path + "/" + url.PathEscape(id)
}

// Create posts a new entity.
func (r Resource) Create(ctx context.Context, c *Client, values map[string]any, file *Upload) error {
	_, err := c.Do(ctx, http.MethodPost, r.Path, nil, formBody(values, file))
	return err
}

// Update replaces the editable fields of id.
func (r Resource) Update(ctx context.Context, c *Client, id string, values map[string]any, file *Upload) error {
	if r.IDInBody {
		values = withID(values, id)
	}
	_, err := c.Do(ctx, http.MethodPut, r.itemPath(id), nil, formBody(values, file))
	return err
}

// Delete removes id.
func (r Resource) Delete(ctx context.Context, c *Client, id string) error {
	var q url.Values
	if r.IDInBody {
		q = url.Values{"id": {id}}
	}
	_, err := c.Do(ctx, http.MethodDelete, r.itemPath(id), q, nil)
	return err
}

// Toggle sends only the changed boolean field.
func (r Resource) Toggle(ctx context.Context, c *Client, id, field string, value bool) error {
	values := map[string]any{field: value}
	if r.IDInBody {
		values = withID(values, id)
	}
	_, err := c.Do(ctx, http.MethodPut, r.itemPath(id), nil, JSON(values))
	return err
}

func withID(values map[string]any, id string) map[string]any {
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out["id"] = id
	return out
}

// formBody picks JSON when no file is attached and multipart otherwise.
func formBody(values map[string]any, file *Upload) Body {
	if file == nil {
		if values == nil {
			values = map[string]any{}
		}
		return JSON(values)
	}
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			fields[k] = t
		case bool:
			fields[k] = strconv.FormatBool(t)
		default:
			fields[k] = fmt.Sprint(t)
		}
	}
	return Multipart(fields, *file)
}
