package dashboard

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// ErrNoForm is returned by Submit when neither a create nor an edit is in
// progress.
var ErrNoForm = errors.New("dashboard: no form in progress")

// Form is the create/edit state of a page.
type Form struct {
	Values        map[string]any
	File          *Upload
	EditingID     string
	IsCreating    bool
	ActionLoading bool
}

// Active reports whether a create or an edit is in progress.
func (f Form) Active() bool { return f.IsCreating || f.EditingID != "" }

// State is a render snapshot of a Page.
type State struct {
	Search     string
	Status     string
	Category   string
	Page       int
	Items      []Item
	Pagination *domain.Pagination
	Loading    bool
	Err        error
	Form       Form
}

// Page is the list + form state machine of one dashboard page. Every
// successful mutation triggers a full reload of the current page.
type Page struct {
	res     Resource
	client  *Client
	fetcher *Fetcher[[]Item]

	mu    sync.Mutex
	state State
}

func NewPage(c *Client, res Resource) *Page {
	p := &Page{res: res, client: c, state: State{Page: 1}}
	p.fetcher = NewFetcher[[]Item](c, res.Path, p.query)
	return p
}

// State returns a copy of the current state.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Form.Values = cloneValues(p.state.Form.Values)
	return s
}

func (p *Page) query() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := url.Values{}
	q.Set("page", strconv.Itoa(p.state.Page))
	if p.res.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.res.Limit))
	}
	set := func(name, value string) {
		if name != "" && value != "" {
			q.Set(name, value)
		}
	}
	set(p.res.SearchParam, p.state.Search)
	set(p.res.StatusParam, p.state.Status)
	set(p.res.CategoryParam, p.state.Category)
	return q
}

// Load fetches the current page. A failure empties the list and sets Err.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	p.state.Loading = true
	p.mu.Unlock()

	res := p.fetcher.Refetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	p.state.Err = res.Err
	p.state.Items = res.Data
	p.state.Pagination = res.Pagination
	return res.Err
}

// SetSearch changes the search term, returns to page 1 and reloads.
func (p *Page) SetSearch(ctx context.Context, term string) error {
	return p.filter(ctx, func(s *State) { s.Search = term })
}

// SetStatus changes the status filter, returns to page 1 and reloads.
func (p *Page) SetStatus(ctx context.Context, status string) error {
	return p.filter(ctx, func(s *State) { s.Status = status })
}

// SetCategory changes the category filter, returns to page 1 and reloads.
func (p *Page) SetCategory(ctx context.Context, category string) error {
	return p.filter(ctx, func(s *State) { s.Category = category })
}

// SetPage moves to page n and reloads.
func (p *Page) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	p.state.Page = n
	p.mu.Unlock()
	return p.Load(ctx)
}

// Filters is the complete filter state of a page.
type Filters struct {
	Search   string
	Status   string
	Category string
	Page     int
}

// Apply replaces every filter at once and reloads a single time.
func (p *Page) Apply(ctx context.Context, f Filters) error {
	if f.Page < 1 {
		f.Page = 1
	}
	p.mu.Lock()
	p.state.Search = f.Search
	p.state.Status = f.Status
	p.state.Category = f.Category
	p.state.Page = f.Page
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *Page) filter(ctx context.Context, apply func(*State)) error {
	p.mu.Lock()
	apply(&p.state)
	p.state.Page = 1
	p.mu.Unlock()
	return p.Load(ctx)
}

// StartCreate opens an empty form.
func (p *Page) StartCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Form = Form{Values: map[string]any{}, IsCreating: true}
}

// StartEdit opens the form on a copy of item.
func (p *Page) StartEdit(item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Form = Form{Values: cloneValues(item), EditingID: item.ID()}
}

// SetField updates one form value.
func (p *Page) SetField(name string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Form.Values == nil {
		p.state.Form.Values = map[string]any{}
	}
	p.state.Form.Values[name] = value
}

// AttachFile sets the form's file; nil detaches it.
func (p *Page) AttachFile(f *Upload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Form.File = f
}

// Cancel discards the form.
func (p *Page) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Form = Form{}
}

// Submit posts a new entity or updates the one being edited. The body is
// multipart when a file is attached and JSON otherwise. On success the form
// is cleared and the list reloaded; on failure the form is kept and Err set.
func (p *Page) Submit(ctx context.Context) error {
	p.mu.Lock()
	form := p.state.Form
	if !form.Active() {
		p.mu.Unlock()
		return ErrNoForm
	}
	p.state.Form.ActionLoading = true
	values := cloneValues(form.Values)
	p.mu.Unlock()

	var err error
	if form.IsCreating {
		err = p.res.Create(ctx, p.client, values, form.File)
	} else {
		delete(values, "id")
		delete(values, "_id")
		err = p.res.Update(ctx, p.client, form.EditingID, values, form.File)
	}

	p.mu.Lock()
	p.state.Form.ActionLoading = false
	if err != nil {
		p.state.Err = err
		p.mu.Unlock()
		return err
	}
	p.state.Form = Form{}
	p.state.Err = nil
	p.mu.Unlock()

	return p.Load(ctx)
}

// Delete removes id after confirm approves it. A nil confirm approves
// unconditionally. The error is returned for the caller to alert; the list
// is reloaded only on success.
func (p *Page) Delete(ctx context.Context, id string, confirm func(id string) bool) error {
	if confirm != nil && !confirm(id) {
		return nil
	}
	if err := p.res.Delete(ctx, p.client, id); err != nil {
		return err
	}
	return p.Load(ctx)
}

// Toggle flips a boolean field of id and reloads on success.
func (p *Page) Toggle(ctx context.Context, id, field string, value bool) error {
	if err := p.res.Toggle(ctx, p.client, id, field, value); err != nil {
		p.mu.Lock()
		p.state.Err = err
		p.mu.Unlock()
		return err
	}
	return p.Load(ctx)
}

func cloneValues(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
