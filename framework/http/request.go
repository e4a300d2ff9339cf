package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/km-arc/go-force/framework/routing"
)

var maxBody int64 = 32 << 20 // 32 MB

// ── Phases ───────────────────────────────────────────────────────────────────

// Phase is the dispatch state of a request.
type Phase int

const (
	Received Phase = iota
	RouteMatched
	Filtered
	Bound
	Invoked
	Responded
	Failed
)

var phaseNames = [...]string{"received", "route_matched", "filtered", "bound", "invoked", "responded", "failed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ── Request ──────────────────────────────────────────────────────────────────

// Request is the per-request context: the raw HTTP data, the matched route,
// the captured path variables and attributes set by filters. It lives for
// one dispatch and is never shared between goroutines.
type Request struct {
	raw      *http.Request
	body     []byte
	query    url.Values
	route    *routing.Entry
	pathVars map[string]string
	attrs    map[string]any
	phase    Phase
}

// NewRequest wraps r and reads its body in full. The returned Request is
// never nil, even when reading fails or the body exceeds the size limit.
func NewRequest(r *http.Request) (*Request, error) {
	req := &Request{raw: r, query: r.URL.Query()}
	if r.Body == nil {
		return req, nil
	}
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return req, fmt.Errorf("reading request body: %w", err)
	}
	if int64(len(body)) > maxBody {
		return req, &PayloadTooLargeError{Limit: maxBody}
	}
	req.body = body
	return req, nil
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Context returns the request's context.Context.
func (req *Request) Context() context.Context { return req.raw.Context() }

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path without the query string.
func (req *Request) Path() string { return req.raw.URL.Path }

// Body returns the raw request body.
func (req *Request) Body() []byte { return req.body }

// Phase returns the current dispatch phase.
func (req *Request) Phase() Phase { return req.phase }

// ── Route ────────────────────────────────────────────────────────────────────

// Route returns the matched entry, nil before matching.
func (req *Request) Route() *routing.Entry { return req.route }

// PathVar returns a captured path variable.
func (req *Request) PathVar(name string) (string, bool) {
	v, ok := req.pathVars[name]
	return v, ok
}

func (req *Request) match(e *routing.Entry, vars map[string]string) {
	req.route = e
	req.pathVars = vars
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.query.Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryValue returns a query-string value and whether the key was present.
func (req *Request) QueryValue(key string) (string, bool) {
	vs, ok := req.query[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Headers returns a copy of all request headers.
func (req *Request) Headers() http.Header { return req.raw.Header.Clone() }

// BearerToken returns the Authorization header with any "Bearer " prefix
// removed.
func (req *Request) BearerToken() string {
	auth := strings.TrimSpace(req.raw.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return auth
}

// IP returns the client IP without port (respects RealIP middleware).
func (req *Request) IP() string {
	if host, _, err := net.SplitHostPort(req.raw.RemoteAddr); err == nil {
		return host
	}
	return req.raw.RemoteAddr
}

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// ── Attributes ───────────────────────────────────────────────────────────────

// Attribute returns a value stored by a filter.
func (req *Request) Attribute(key string) (any, bool) {
	v, ok := req.attrs[key]
	return v, ok
}

// SetAttribute stores a value for later filters and the handler.
func (req *Request) SetAttribute(key string, v any) {
	if req.attrs == nil {
		req.attrs = make(map[string]any)
	}
	req.attrs[key] = v
}

// ── Context plumbing ─────────────────────────────────────────────────────────

type requestKey struct{}

// FromContext returns the Request a handler is running under.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey{}).(*Request)
	return req, ok
}

func withRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}
