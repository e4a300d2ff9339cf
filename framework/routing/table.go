package routing

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/km-arc/go-force/framework/component"
)

// DefaultSecuredMessage is returned when a secured route rejects a token and
// the route does not set its own message.
const DefaultSecuredMessage = "Invalid token."

// ── Errors ────────────────────────────────────────────────────────────────────

// DuplicateRouteError is returned when two handlers claim the same method and
// template.
type DuplicateRouteError struct {
	Method   string
	Template string
	First    string
	Second   string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("routing: duplicate route %s %s (%s and %s)", e.Method, e.Template, e.First, e.Second)
}

// RouteNotFoundError is returned when no entry matches the request. A path
// that exists under another verb is reported the same way.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

func (e *RouteNotFoundError) StatusCode() int { return http.StatusNotFound }

// ── Entry ─────────────────────────────────────────────────────────────────────

// Entry is one resolved route: a handler bound to a canonical template.
type Entry struct {
	Method         string
	Template       string
	ControllerKey  component.Key
	HandlerName    string
	Params         []Param
	Invoke         Handler
	Status         int
	Secured        bool
	SecuredMessage string

	segments []string
}

// SuccessStatus returns the route status, 200 when unset.
func (e *Entry) SuccessStatus() int {
	if e.Status == 0 {
		return http.StatusOK
	}
	return e.Status
}

// Message returns the message reported when a secured route rejects a token.
func (e *Entry) Message() string {
	if e.SecuredMessage == "" {
		return DefaultSecuredMessage
	}
	return e.SecuredMessage
}

// Match reports whether path fits this entry's template.
func (e *Entry) Match(path string) (map[string]string, bool) {
	return matchSegments(e.segments, path)
}

func (e *Entry) String() string { return e.Method + " " + e.Template }

// ── Table ─────────────────────────────────────────────────────────────────────

// Table is the immutable route table built at startup.
type Table struct {
	entries []*Entry
	byVerb  map[string][]*Entry
}

// BuildTable collects the routes of every controller, in the order given.
func BuildTable(controllers ...Controller) (*Table, error) {
	t := &Table{byVerb: make(map[string][]*Entry)}
	seen := make(map[string]*Entry)

	for _, c := range controllers {
		key := component.KeyFor(c)
		for _, r := range c.Routes() {
			e, err := newEntry(key, c.Prefix(), r)
			if err != nil {
				return nil, err
			}
			id := e.Method + " " + shape(e.segments)
			if prev, dup := seen[id]; dup {
				return nil, &DuplicateRouteError{
					Method:   e.Method,
					Template: e.Template,
					First:    prev.HandlerName,
					Second:   e.HandlerName,
				}
			}
			seen[id] = e
			t.entries = append(t.entries, e)
			t.byVerb[e.Method] = append(t.byVerb[e.Method], e)
		}
	}
	return t, nil
}

func newEntry(key component.Key, prefix string, r Route) (*Entry, error) {
	if r.Handler == nil {
		return nil, fmt.Errorf("routing: %s %s%s has no handler", r.Method, prefix, r.Path)
	}
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	template := Canonical(prefix + "/" + r.Path)
	name := r.Name
	if name == "" {
		name = method + " " + template
	}
	return &Entry{
		Method:         method,
		Template:       template,
		ControllerKey:  key,
		HandlerName:    name,
		Params:         r.Params,
		Invoke:         r.Handler,
		Status:         r.Status,
		Secured:        r.Secured,
		SecuredMessage: r.SecuredMessage,
		segments:       segments(template),
	}, nil
}

// Lookup finds the entry for method and path. When several templates match,
// the one with the earliest literal segment wins.
func (t *Table) Lookup(method, path string) (*Entry, map[string]string, error) {
	var (
		best *Entry
		vars map[string]string
	)
	for _, e := range t.byVerb[strings.ToUpper(method)] {
		v, ok := e.Match(path)
		if !ok {
			continue
		}
		if best == nil || moreSpecific(e.segments, best.segments) {
			best, vars = e, v
		}
	}
	if best == nil {
		return nil, nil, &RouteNotFoundError{Method: method, Path: path}
	}
	return best, vars, nil
}

// Entries returns every entry in declaration order.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.entries) }
