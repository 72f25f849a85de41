package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"
)

const maxJSONBody = 1 << 20

var errBodyNotObject = errors.New("request body must be a JSON object")

// Payload is the request body of a mutation route, read either from a JSON
// object or from multipart/form-data. Rules see both through the same
// accessors so equivalent inputs validate identically.
type Payload struct {
	multipart bool
	object    map[string]any
	values    map[string][]string
	files     map[string][]*multipart.FileHeader
}

func emptyPayload() *Payload {
	return &Payload{object: map[string]any{}}
}

// decodeJSONPayload reads a JSON object. An empty body is an empty object.
func decodeJSONPayload(r io.Reader) (*Payload, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxJSONBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > maxJSONBody {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxJSONBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return emptyPayload(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errBodyNotObject
	}
	return &Payload{object: obj}, nil
}

func multipartPayload(form *multipart.Form) *Payload {
	return &Payload{multipart: true, values: form.Value, files: form.File}
}

// IsMultipart reports whether the payload came from multipart/form-data.
func (p *Payload) IsMultipart() bool { return p.multipart }

// Value returns the raw field value: any JSON value for JSON bodies, the
// first string for multipart ones.
func (p *Payload) Value(field string) (any, bool) {
	if p.multipart {
		vs, ok := p.values[field]
		if !ok || len(vs) == 0 {
			return nil, false
		}
		return vs[0], true
	}
	v, ok := p.object[field]
	return v, ok
}

// String renders a field as text. Missing and null fields are "".
func (p *Payload) String(field string) string {
	v, ok := p.Value(field)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Has reports whether field is present with a non-blank value.
func (p *Payload) Has(field string) bool {
	return strings.TrimSpace(p.String(field)) != ""
}

// Files returns the uploaded files of a multipart field.
func (p *Payload) Files(field string) []*multipart.FileHeader {
	if !p.multipart {
		return nil
	}
	return p.files[field]
}

// Delete removes field from the payload.
func (p *Payload) Delete(field string) {
	if p.multipart {
		delete(p.values, field)
		return
	}
	delete(p.object, field)
}

// fieldNames returns the text field names in a stable order.
func (p *Payload) fieldNames() []string {
	var names []string
	if p.multipart {
		names = make([]string, 0, len(p.values))
		for k := range p.values {
			names = append(names, k)
		}
	} else {
		names = make([]string, 0, len(p.object))
		for k := range p.object {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// encodeJSON re-serialises a JSON payload. Keys are emitted in sorted
// order, so identical inputs produce identical bytes.
func (p *Payload) encodeJSON() ([]byte, error) {
	return json.Marshal(p.object)
}
