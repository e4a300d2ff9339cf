package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/routing"
)

// ── controllers ───────────────────────────────────────────────────────────────

type productPayload struct {
	Name  string  `json:"name" rules:"required|min:2"`
	Price float64 `json:"price" rules:"gte:0"`
}

var errOutOfStock = errors.New("out of stock")

type productController struct{}

func (productController) Prefix() string { return "/product" }

func (productController) Routes() []routing.Route {
	return []routing.Route{
		routing.Get("/{id}", func(_ context.Context, args []any) (any, error) {
			return map[string]any{"id": routing.Arg[int64](args, 0), "name": "Widget"}, nil
		}, routing.PathVar[int64]("id")).Named("findByID"),

		routing.Post("", func(_ context.Context, args []any) (any, error) {
			return routing.Arg[*productPayload](args, 0), nil
		}, routing.Payload[productPayload]().Validated()).WithStatus(http.StatusCreated),

		routing.Get("/search", func(_ context.Context, args []any) (any, error) {
			return "Hello, " + routing.Arg[string](args, 0), nil
		}, routing.Query[string]("name").Default("Guest")),

		routing.Get("/page", func(_ context.Context, args []any) (any, error) {
			return map[string]int{"page": routing.Arg[int](args, 0)}, nil
		}, routing.Query[int]("n").Required()),

		routing.Delete("/{id}", func(context.Context, []any) (any, error) {
			return nil, nil
		}, routing.PathVar[int64]("id")).Secure(""),

		routing.Get("/boom", func(context.Context, []any) (any, error) {
			panic("kaboom")
		}),

		routing.Get("/io", func(context.Context, []any) (any, error) {
			return nil, fmt.Errorf("loading catalogue: %w", &fs.PathError{Op: "open", Path: "catalogue.csv", Err: fs.ErrNotExist})
		}),

		routing.Get("/sold-out", func(context.Context, []any) (any, error) {
			return nil, fmt.Errorf("reserve: %w", errOutOfStock)
		}),

		routing.Get("/echo", func(ctx context.Context, args []any) (any, error) {
			req := routing.Arg[*gohttp.Request](args, 1)
			fromCtx, _ := gohttp.FromContext(ctx)
			return gohttp.OK(map[string]any{
				"header":    routing.Arg[http.Header](args, 0).Get("X-Trace"),
				"path":      req.Path(),
				"same":      fromCtx == req,
				"unbound":   routing.Arg[int](args, 2),
				"attribute": func() any { v, _ := req.Attribute("user"); return v }(),
			}).WithHeader("X-Handled", "yes"), nil
		}, routing.Headers(), routing.RequestContext(), routing.Unbound[int]()),
	}
}

type stockController struct{}

func (stockController) Prefix() string { return "/stock" }

func (stockController) Routes() []routing.Route {
	return []routing.Route{
		routing.Get("", func(context.Context, []any) (any, error) {
			return []string{"chair", "table"}, nil
		}),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func newTable(t *testing.T) *routing.Table {
	t.Helper()
	table, err := routing.BuildTable(productController{}, stockController{})
	require.NoError(t, err)
	return table
}

func newDispatcher(t *testing.T, opts ...gohttp.Option) *gohttp.Dispatcher {
	t.Helper()
	return gohttp.NewDispatcher(newTable(t), opts...)
}

func serve(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// matched builds a Request that already went through route lookup, for
// binder and filter tests.
func matched(t *testing.T, method, target, body string) *gohttp.Request {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := gohttp.NewRequest(httptest.NewRequest(method, target, r))
	require.NoError(t, err)

	var seen *gohttp.Request
	d := gohttp.NewDispatcher(newTable(t), gohttp.WithFilters(gohttp.NewFilterChain(
		gohttp.FilterFunc(func(r *gohttp.Request) error {
			seen = r
			return errStop
		}),
	)))
	_ = d.Dispatch(req)
	require.NotNil(t, seen, "route %s %s did not match", method, target)
	return seen
}

var errStop = errors.New("stop")
