package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-force/framework/app"
	"github.com/km-arc/go-force/framework/component"
	"github.com/km-arc/go-force/framework/config"
	"github.com/km-arc/go-force/framework/container"
	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/persistence"
	"github.com/km-arc/go-force/framework/routing"
	"github.com/km-arc/go-force/framework/security"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type greeter struct{ greeting string }

type greetController struct{ g *greeter }

func (c *greetController) Prefix() string { return "/greet" }

func (c *greetController) Routes() []routing.Route {
	return []routing.Route{
		routing.Get("/{name}", func(_ context.Context, args []any) (any, error) {
			return c.g.greeting + ", " + routing.Arg[string](args, 0), nil
		}, routing.PathVar[string]("name")),
		routing.Get("/missing/{id}", func(context.Context, []any) (any, error) {
			return nil, persistence.ErrNotFound
		}),
		routing.Delete("/{name}", func(context.Context, []any) (any, error) {
			return nil, nil
		}).Secure("Who are you?"),
	}
}

type greetProvider struct {
	container.BaseProvider
	booted bool
}

func (p *greetProvider) Register(reg *component.Registry) error {
	return reg.RegisterAll(
		component.Of(component.Service, func(a component.Args) (*greeter, error) {
			return &greeter{greeting: a.String(0)}, nil
		}, component.Value("greeting.word")),
		component.Of(component.Controller, func(a component.Args) (*greetController, error) {
			return &greetController{g: component.Arg[*greeter](a, 0)}, nil
		}, component.Dep[*greeter]()),
	)
}

func (p *greetProvider) Boot(c *container.Container) error {
	_, err := container.Resolve[*greeter](c)
	p.booted = err == nil
	return err
}

func newApp(t *testing.T, props map[string]string, providers ...container.ServiceProvider) *app.Application {
	t.Helper()
	base := map[string]string{"greeting.word": "Hello", "jwt.secret": "s3cr3t", "app.port": "0"}
	for k, v := range props {
		base[k] = v
	}
	a, err := app.NewWithConfig(config.FromProperties(base), zap.NewNop())
	require.NoError(t, err)
	for _, p := range providers {
		require.NoError(t, a.Register(p))
	}
	return a
}

func get(t *testing.T, h http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	if auth != "" {
		r.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// ── Boot ──────────────────────────────────────────────────────────────────────

func TestApplication_BootWiresControllersFromBeans(t *testing.T) {
	p := &greetProvider{}
	a := newApp(t, nil, p)

	h, err := a.Handler()
	require.NoError(t, err)
	assert.True(t, p.booted)

	rec := get(t, h, http.MethodGet, "/greet/Ana", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, Ana", rec.Body.String())

	table, err := a.Table()
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len(), "three application routes plus /health and /health/info")
}

func TestApplication_TableBeforeBoot(t *testing.T) {
	_, err := newApp(t, nil).Table()
	assert.ErrorIs(t, err, app.ErrNotBooted)
}

func TestApplication_BootIsIdempotent(t *testing.T) {
	a := newApp(t, nil, &greetProvider{})
	require.NoError(t, a.Boot())
	require.NoError(t, a.Boot())
}

func TestApplication_FrameworkBeans(t *testing.T) {
	a := newApp(t, nil)
	require.NoError(t, a.Boot())

	_, err := container.Resolve[*security.JWT](a.Container)
	assert.NoError(t, err)
	_, err = container.Resolve[*zap.Logger](a.Container)
	assert.NoError(t, err)
	_, err = a.GetByName("config")
	assert.NoError(t, err)
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	a := newApp(t, nil, &greetProvider{})
	h, err := a.Handler()
	require.NoError(t, err)

	assert.Equal(t, "OK", get(t, h, http.MethodGet, "/health", "").Body.String())
	get(t, h, http.MethodGet, "/greet/Bo", "")

	rec := get(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `goforce_http_requests_total{method="GET",route="/greet/{name}",status="200"} 1`)
}

func TestApplication_SecuredRouteUsesJWT(t *testing.T) {
	a := newApp(t, nil, &greetProvider{})
	h, err := a.Handler()
	require.NoError(t, err)

	rec := get(t, h, http.MethodDelete, "/greet/Ana", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Who are you?", gjson.Get(rec.Body.String(), "message").String())

	token, err := container.MustResolve[*security.JWT](a.Container).Generate("ana")
	require.NoError(t, err)
	rec = get(t, h, http.MethodDelete, "/greet/Ana", "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestApplication_NotFoundAdvice(t *testing.T) {
	a := newApp(t, nil, &greetProvider{})
	h, err := a.Handler()
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/greet/missing/1", "").Code)
}

func TestApplication_RateLimitFromConfig(t *testing.T) {
	a := newApp(t, map[string]string{"ratelimit.rps": "0.001", "ratelimit.burst": "1"}, &greetProvider{})
	h, err := a.Handler()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, h, http.MethodGet, "/greet/Ana", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, http.MethodGet, "/greet/Ana", "").Code)
}

func TestApplication_CORSPreflight(t *testing.T) {
	a := newApp(t, map[string]string{"http.allowed_origins": "https://shop.example.com"}, &greetProvider{})
	h, err := a.Handler()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodOptions, "/greet/Ana", nil)
	r.Header.Set("Origin", "https://shop.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

// ── Boot failures ─────────────────────────────────────────────────────────────

func TestApplication_MissingValueFailsBoot(t *testing.T) {
	t.Setenv("GREETING_WORD", "")
	os.Unsetenv("GREETING_WORD")
	a, err := app.NewWithConfig(config.FromProperties(nil), nil)
	require.NoError(t, err)
	require.NoError(t, a.Register(&greetProvider{}))

	var unresolved *container.UnresolvedDependencyError
	assert.ErrorAs(t, a.Boot(), &unresolved)
}

type duplicateController struct{}

func (duplicateController) Prefix() string { return "/greet" }
func (duplicateController) Routes() []routing.Route {
	return []routing.Route{routing.Get("/{who}", func(context.Context, []any) (any, error) { return nil, nil })}
}

type duplicateProvider struct{ container.BaseProvider }

func (duplicateProvider) Register(reg *component.Registry) error {
	return reg.Register(component.Instance(component.Controller, duplicateController{}))
}

func TestApplication_DuplicateRouteFailsBoot(t *testing.T) {
	a := newApp(t, nil, &greetProvider{}, &duplicateProvider{})

	var dup *routing.DuplicateRouteError
	assert.ErrorAs(t, a.Boot(), &dup)
}

type notAController struct{}

type badCategoryProvider struct{ container.BaseProvider }

func (badCategoryProvider) Register(reg *component.Registry) error {
	return reg.Register(component.Instance(component.Controller, notAController{}))
}

func TestApplication_ControllerWithoutRoutesFailsBoot(t *testing.T) {
	err := newApp(t, nil, &badCategoryProvider{}).Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notAController")
}

// auditor has a DoFilter method but is not registered as a filter.
type auditor struct{}

func (auditor) DoFilter(*gohttp.Request) error { return errors.New("audit says no") }

type auditorProvider struct {
	container.BaseProvider
	category component.Category
}

func (p *auditorProvider) Register(reg *component.Registry) error {
	return reg.Register(component.Instance(p.category, auditor{}))
}

func TestApplication_OnlyFilterCategoryJoinsChain(t *testing.T) {
	h, err := newApp(t, nil, &greetProvider{}, &auditorProvider{category: component.Plain}).Handler()
	require.NoError(t, err)

	rec := get(t, h, http.MethodGet, "/greet/bob", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, bob", rec.Body.String())
}

func TestApplication_FilterCategoryBeanIsApplied(t *testing.T) {
	h, err := newApp(t, nil, &greetProvider{}, &auditorProvider{category: component.Filter}).Handler()
	require.NoError(t, err)

	rec := get(t, h, http.MethodGet, "/greet/bob", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "audit says no", gjson.Get(rec.Body.String(), "message").String())
}

type notAFilterProvider struct{ container.BaseProvider }

func (notAFilterProvider) Register(reg *component.Registry) error {
	return reg.Register(component.Instance(component.Filter, notAController{}))
}

func TestApplication_FilterWithoutDoFilterFailsBoot(t *testing.T) {
	err := newApp(t, nil, &notAFilterProvider{}).Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notAController")
}

type failingBoot struct{ container.BaseProvider }

func (failingBoot) Register(*component.Registry) error { return nil }
func (failingBoot) Boot(*container.Container) error    { return errors.New("no coffee") }

func TestApplication_ProviderBootErrorStopsBoot(t *testing.T) {
	err := newApp(t, nil, &failingBoot{}).Boot()
	assert.ErrorContains(t, err, "no coffee")
}

// ── Run ───────────────────────────────────────────────────────────────────────

func TestApplication_RunStopsOnCancel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a, err := app.NewWithConfig(config.FromProperties(map[string]string{
		"app.port":              "0",
		"http.shutdown_timeout": "1s",
	}), zap.New(core))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("server listening").Len() == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, logs.FilterMessage("application booted").Len())
}

func TestApplication_RunFailsOnBusyPort(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()
	port := busy.URL[strings.LastIndex(busy.URL, ":")+1:]

	a, err := app.NewWithConfig(config.FromProperties(map[string]string{"app.port": port}), nil)
	require.NoError(t, err)
	assert.Error(t, a.Run(context.Background()))
}

func TestApplication_Environment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	a, err := app.NewWithConfig(config.FromProperties(nil), nil)
	require.NoError(t, err)

	assert.True(t, a.IsProduction())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsTesting())
	assert.False(t, a.IsDebug())
}
