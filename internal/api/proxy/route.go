// Package proxy turns declarative Route values into echo handlers that
// relay one local request to one upstream call and normalise the reply into
// the envelope shape.
package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// BodyPolicy selects how a route reads its request body.
type BodyPolicy int

const (
	// BodyNone forwards no body.
	BodyNone BodyPolicy = iota
	// BodyForm accepts a JSON object or multipart/form-data and forwards it
	// in the same encoding.
	BodyForm
)

// QueryParam is a recognised list filter. Default applies when the caller
// omits the parameter; empty values are never forwarded.
type QueryParam struct {
	Name    string
	Default string
}

// Q is shorthand for an optional filter with no default.
func Q(name string) QueryParam { return QueryParam{Name: name} }

// FileField declares a multipart file input. MaxFiles of 0 means 1.
type FileField struct {
	Name     string
	MaxFiles int
	// Required rejects requests that carry no file for this field, whatever
	// their content type.
	Required bool
}

// Route is one local endpoint and its single upstream counterpart.
type Route struct {
	Method string
	// Path is the local echo path, e.g. /api/stores/:storeId/products.
	Path string
	// Upstream is the upstream path template. Segments of the form :name are
	// filled from path parameters or, for IDField, from the request.
	Upstream string
	// UpstreamFor, when set, picks the upstream template per request.
	UpstreamFor func(c echo.Context) string
	// Roles is the allow-list. Empty means any authenticated session.
	Roles []string
	Query []QueryParam
	Body  BodyPolicy
	// Fields restricts which multipart text fields are forwarded. Empty
	// forwards all of them.
	Fields []string
	Files  []FileField
	// IDField names a body or query field that carries the entity id. It is
	// required, interpolated into Upstream and stripped from the body.
	IDField   string
	IDMessage string
	Rules     []Rule

	SuccessStatus  int
	DefaultMessage string
	DefaultError   string
	// Transform reshapes the upstream data payload on success.
	Transform func(c echo.Context, data json.RawMessage) (json.RawMessage, error)
}

func (r Route) successStatus() int {
	if r.SuccessStatus != 0 {
		return r.SuccessStatus
	}
	if r.Method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (r Route) upstreamTemplate(c echo.Context) string {
	if r.UpstreamFor != nil {
		return r.UpstreamFor(c)
	}
	return r.Upstream
}

func (r Route) maxFiles(name string) (int, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			if f.MaxFiles <= 0 {
				return 1, true
			}
			return f.MaxFiles, true
		}
	}
	return 0, false
}
