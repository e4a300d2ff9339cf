package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-force/framework/routing"
)

// Observer is told about every finished request.
type Observer func(req *Request, status int, elapsed time.Duration)

// Dispatcher turns HTTP requests into handler invocations: match, filter,
// bind, invoke, respond. Every request gets exactly one response.
type Dispatcher struct {
	table      *routing.Table
	binder     *Binder
	chain      *FilterChain
	exceptions *Exceptions
	codec      Codec
	logger     *zap.Logger
	observers  []Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for phase transitions and failures.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithFilters installs the filter chain.
func WithFilters(chain *FilterChain) Option {
	return func(d *Dispatcher) { d.chain = chain }
}

// WithExceptions installs the exception handlers.
func WithExceptions(x *Exceptions) Option {
	return func(d *Dispatcher) { d.exceptions = x }
}

// WithCodec replaces the JSON codec for payloads and responses.
func WithCodec(c Codec) Option {
	return func(d *Dispatcher) { d.codec = c }
}

// WithObserver adds an observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// NewDispatcher creates a Dispatcher over table.
func NewDispatcher(table *routing.Table, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:  table,
		codec:  JSONCodec{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.binder = NewBinder(d.codec)
	return d
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := NewRequest(r)
	var view *ResponseView
	if err != nil {
		view = d.fail(req, err)
	} else {
		view = d.Dispatch(req)
	}
	write(w, d.codec, view)

	status := view.Status
	if status == 0 {
		status = http.StatusOK
	}
	for _, o := range d.observers {
		o(req, status, time.Since(start))
	}
}

// Dispatch runs req through the pipeline and returns the response to send.
func (d *Dispatcher) Dispatch(req *Request) *ResponseView {
	d.advance(req, Received)

	entry, vars, err := d.table.Lookup(req.Method(), req.Path())
	if err != nil {
		return d.fail(req, err)
	}
	req.match(entry, vars)
	d.advance(req, RouteMatched)

	if err := guard("filter chain", func() error { return d.chain.Do(req) }); err != nil {
		return d.fail(req, err)
	}
	d.advance(req, Filtered)

	var args []any
	err = guard("binder", func() (err error) {
		args, err = d.binder.Bind(req)
		return err
	})
	if err != nil {
		return d.fail(req, err)
	}
	d.advance(req, Bound)

	result, err := invoke(withRequest(req.Context(), req), entry, args)
	if err != nil {
		return d.fail(req, err)
	}
	d.advance(req, Invoked)

	view := success(entry, result)
	d.advance(req, Responded)
	return view
}

// invoke calls the handler, turning a panic into a *PanicError.
func invoke(ctx context.Context, e *routing.Entry, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &PanicError{Handler: e.HandlerName, Value: r}
		}
	}()
	return e.Invoke(ctx, args)
}

// guard runs one pipeline stage, turning a panic into a *PanicError.
func guard(stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: stage, Value: r}
		}
	}()
	return fn()
}

func success(e *routing.Entry, result any) *ResponseView {
	switch v := result.(type) {
	case nil:
		return NoContent()
	case *ResponseView:
		if v == nil {
			return NoContent()
		}
		return v
	case ResponseView:
		return &v
	default:
		return Status(e.SuccessStatus(), v)
	}
}

func (d *Dispatcher) fail(req *Request, err error) *ResponseView {
	from := req.phase
	req.phase = Failed
	view := d.exceptions.Handle(err)

	fields := []zap.Field{
		zap.Stringer("from", from),
		zap.Int("status", view.Status),
		zap.Error(err),
		zap.String("method", req.Method()),
		zap.String("path", req.Path()),
	}
	if view.Status >= http.StatusInternalServerError {
		d.logger.Error("request failed", fields...)
	} else {
		d.logger.Debug("request failed", fields...)
	}
	return view
}

func (d *Dispatcher) advance(req *Request, p Phase) {
	req.phase = p
	if ce := d.logger.Check(zap.DebugLevel, "dispatch"); ce != nil {
		ce.Write(zap.Stringer("phase", p), zap.String("method", req.Method()), zap.String("path", req.Path()))
	}
}
