package routing

import (
	"context"
	"net/http"
	"reflect"
)

// ── Handler parameters ────────────────────────────────────────────────────────

// ParamKind says where a handler argument comes from.
type ParamKind int

const (
	PathVarParam ParamKind = iota
	QueryParam
	BodyParam
	HeadersParam
	RequestParam
	UnboundParam
)

func (k ParamKind) String() string {
	switch k {
	case PathVarParam:
		return "path"
	case QueryParam:
		return "query"
	case BodyParam:
		return "body"
	case HeadersParam:
		return "headers"
	case RequestParam:
		return "request"
	default:
		return "unbound"
	}
}

// Param describes one handler argument.
type Param struct {
	Kind        ParamKind
	Name        string
	Type        reflect.Type
	Mandatory   bool
	Fallback    string
	HasFallback bool
	Validate    bool
}

// PathVar binds the {name} segment of the matched template, converted to T.
func PathVar[T any](name string) Param {
	return Param{Kind: PathVarParam, Name: name, Type: typeOf[T](), Mandatory: true}
}

// Query binds a query-string parameter, converted to T. Optional by default;
// an absent optional parameter binds the zero value of T.
func Query[T any](name string) Param {
	return Param{Kind: QueryParam, Name: name, Type: typeOf[T]()}
}

// Payload parses the request body into a *T.
func Payload[T any]() Param {
	return Param{Kind: BodyParam, Type: typeOf[T]()}
}

// Headers binds the request headers as http.Header.
func Headers() Param {
	return Param{Kind: HeadersParam, Type: reflect.TypeOf(http.Header{})}
}

// RequestContext binds the per-request context object itself.
func RequestContext() Param {
	return Param{Kind: RequestParam}
}

// Unbound binds the zero value of T.
func Unbound[T any]() Param {
	return Param{Kind: UnboundParam, Type: typeOf[T]()}
}

// Required marks a query parameter as mandatory.
func (p Param) Required() Param {
	p.Mandatory = true
	return p
}

// Default sets the raw value used when the query parameter is absent.
func (p Param) Default(raw string) Param {
	p.Fallback = raw
	p.HasFallback = true
	return p
}

// Validated runs the payload through the validation rules after parsing.
func (p Param) Validated() Param {
	p.Validate = true
	return p
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ── Routes ────────────────────────────────────────────────────────────────────

// Handler receives the bound arguments in declaration order.
type Handler func(ctx context.Context, args []any) (any, error)

// Arg returns args[i] as T. A zero T is returned when the argument is nil.
func Arg[T any](args []any, i int) T {
	var zero T
	if args[i] == nil {
		return zero
	}
	return args[i].(T)
}

// Route is one handler method declared by a controller.
type Route struct {
	Method         string
	Path           string
	Name           string
	Params         []Param
	Handler        Handler
	Status         int
	Secured        bool
	SecuredMessage string
}

func newRoute(method, path string, h Handler, params []Param) Route {
	return Route{Method: method, Path: path, Handler: h, Params: params}
}

func Get(path string, h Handler, params ...Param) Route {
	return newRoute(http.MethodGet, path, h, params)
}

func Post(path string, h Handler, params ...Param) Route {
	return newRoute(http.MethodPost, path, h, params)
}

func Put(path string, h Handler, params ...Param) Route {
	return newRoute(http.MethodPut, path, h, params)
}

func Patch(path string, h Handler, params ...Param) Route {
	return newRoute(http.MethodPatch, path, h, params)
}

func Delete(path string, h Handler, params ...Param) Route {
	return newRoute(http.MethodDelete, path, h, params)
}

// WithStatus sets the success status used when the handler returns a plain value.
func (r Route) WithStatus(code int) Route {
	r.Status = code
	return r
}

// Secure requires a valid token for this route. An empty message keeps the
// default "Invalid token.".
func (r Route) Secure(message string) Route {
	r.Secured = true
	r.SecuredMessage = message
	return r
}

// Named sets the handler name reported in logs and errors.
func (r Route) Named(name string) Route {
	r.Name = name
	return r
}

// Controller is implemented by every controller bean.
type Controller interface {
	Prefix() string
	Routes() []Route
}
