package http

import (
	"net/http"
	"reflect"
)

// ── Exception handlers ───────────────────────────────────────────────────────

type handlerKind int

const (
	typeKind handlerKind = iota
	sentinelKind
	anyKind
)

// ExceptionHandler turns one kind of error into a response.
type ExceptionHandler struct {
	kind   handlerKind
	typ    reflect.Type
	target error
	handle func(err error) *ResponseView
}

// On handles errors of type E. A concrete E matches links of exactly that
// type; an interface E matches any link implementing it.
//
//	http.On(func(err *product.NotFoundError) *http.ResponseView {
//	    return http.NotFound(ErrorView{Message: err.Error()})
//	})
func On[E error](fn func(err E) *ResponseView) ExceptionHandler {
	return ExceptionHandler{
		kind:   typeKind,
		typ:    reflect.TypeOf((*E)(nil)).Elem(),
		handle: func(err error) *ResponseView { return fn(err.(E)) },
	}
}

// OnError handles links identical to target, or whose Is method reports
// target.
func OnError(target error, fn func(err error) *ResponseView) ExceptionHandler {
	return ExceptionHandler{kind: sentinelKind, target: target, handle: fn}
}

// OnAny handles every error not claimed by a more specific handler.
func OnAny(fn func(err error) *ResponseView) ExceptionHandler {
	return ExceptionHandler{kind: anyKind, handle: fn}
}

// exact reports whether link is precisely the kind h declares.
func (h ExceptionHandler) exact(link error) bool {
	switch h.kind {
	case typeKind:
		return h.typ.Kind() != reflect.Interface && reflect.TypeOf(link) == h.typ
	case sentinelKind:
		return reflect.TypeOf(link).Comparable() && link == h.target
	}
	return false
}

// broad reports whether link belongs to h's kind without being exactly it.
func (h ExceptionHandler) broad(link error) bool {
	switch h.kind {
	case typeKind:
		return h.typ.Kind() == reflect.Interface && reflect.TypeOf(link).Implements(h.typ)
	case sentinelKind:
		is, ok := link.(interface{ Is(error) bool })
		return ok && is.Is(h.target)
	}
	return false
}

// ExceptionAdvice is implemented by beans that contribute exception handlers.
type ExceptionAdvice interface {
	ExceptionHandlers() []ExceptionHandler
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Exceptions picks the handler for a failed request.
type Exceptions struct {
	handlers []ExceptionHandler
}

// NewExceptions collects the handlers of every advice, in the order given.
func NewExceptions(advice ...ExceptionAdvice) *Exceptions {
	x := &Exceptions{}
	for _, a := range advice {
		x.handlers = append(x.handlers, a.ExceptionHandlers()...)
	}
	return x
}

// Len returns the number of handlers.
func (x *Exceptions) Len() int { return len(x.handlers) }

// Resolve walks err's chain outermost first. At each link an exact handler
// wins over a broad one; a catch-all is used only when no link matched.
func (x *Exceptions) Resolve(err error) (*ResponseView, bool) {
	if x == nil {
		return nil, false
	}
	for _, link := range unwrapAll(err) {
		for _, matches := range []func(ExceptionHandler, error) bool{ExceptionHandler.exact, ExceptionHandler.broad} {
			for _, h := range x.handlers {
				if matches(h, link) {
					return h.handle(link), true
				}
			}
		}
	}
	for _, h := range x.handlers {
		if h.kind == anyKind {
			return h.handle(err), true
		}
	}
	return nil, false
}

// Handle returns the response for err: the resolved handler's view, or the
// default view when no handler claims it.
func (x *Exceptions) Handle(err error) (view *ResponseView) {
	defer func() {
		if r := recover(); r != nil {
			view = DefaultErrorView(&PanicError{Stage: "exception handler", Value: r})
		}
	}()
	if v, ok := x.Resolve(err); ok {
		if v == nil {
			return NoContent()
		}
		return v
	}
	return DefaultErrorView(err)
}

// DefaultErrorView renders {"message": ...} with the error's own status, or
// 409 Conflict when it carries none. Validation failures add their error bag.
func DefaultErrorView(err error) *ResponseView {
	body := envelope{"message": err.Error()}
	if bag, ok := err.(interface{ ErrorBag() map[string][]string }); ok {
		body["errors"] = bag.ErrorBag()
	}
	return Status(statusOf(err, http.StatusConflict), body)
}

// unwrapAll flattens err's chain depth first, outermost link first.
func unwrapAll(err error) []error {
	var links []error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		links = append(links, e)
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return links
}
