// Package app is the application kernel: it loads configuration, collects
// providers, builds the container and wires the HTTP stack from its beans.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-force/framework/component"
	"github.com/km-arc/go-force/framework/config"
	"github.com/km-arc/go-force/framework/container"
	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/logging"
	"github.com/km-arc/go-force/framework/metrics"
	"github.com/km-arc/go-force/framework/providers"
	"github.com/km-arc/go-force/framework/routing"
)

// Version of the framework.
const Version = "0.1.0"

// ErrNotBooted is returned by accessors that need a booted application.
var ErrNotBooted = errors.New("app: application not booted")

// Application is the top-level application container.
// It embeds the bean Container so user code can call app.Get(),
// app.GetByName() and container.Resolve[T](app.Container) directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Config    *config.Config
	Logger    *zap.Logger

	registry   *component.Registry
	contextual *container.Contextual

	table      *routing.Table
	dispatcher *gohttp.Dispatcher
	router     *routing.Router
}

// New loads the configuration (see config.Load) and creates the application
// with the framework providers registered.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("app: building logger: %w", err)
	}
	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates the application over an already loaded configuration.
// A nil logger disables logging.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := component.NewRegistry()
	contextual := container.NewContextual()

	a := &Application{
		Container: container.New(cfg,
			container.WithLogger(logger.Named("container")),
			container.WithContextual(contextual),
		),
		Providers:  container.NewProviderRegistry(reg),
		Config:     cfg,
		Logger:     logger,
		registry:   reg,
		contextual: contextual,
	}

	for _, p := range providers.Framework(cfg, logger) {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// When starts a contextual binding: when requester needs a key, give the bean
// with the given name.
//
//	app.When(component.KeyOf[*Report]()).Needs(component.KeyOf[Store]()).Give("archive")
func (a *Application) When(requester component.Key) *container.ContextualBuilder {
	return a.contextual.When(requester)
}

// ── Boot ──────────────────────────────────────────────────────────────────────

// Boot builds the container, boots every provider and assembles the route
// table, filter chain, exception handlers, dispatcher and host router from the
// beans. It runs once.
func (a *Application) Boot() error {
	if a.router != nil {
		return nil
	}
	if err := a.Providers.Boot(a.Container); err != nil {
		return err
	}

	controllers, err := a.controllers()
	if err != nil {
		return err
	}
	table, err := routing.BuildTable(controllers...)
	if err != nil {
		return err
	}

	filters, err := a.filters()
	if err != nil {
		return err
	}
	advice := container.Implementing[gohttp.ExceptionAdvice](a.Container)
	opts := []gohttp.Option{
		gohttp.WithLogger(a.Logger.Named("dispatcher")),
		gohttp.WithFilters(gohttp.NewFilterChain(filters...)),
		gohttp.WithExceptions(gohttp.NewExceptions(advice...)),
	}
	collector, err := container.Resolve[*metrics.Collector](a.Container)
	if err == nil {
		opts = append(opts, gohttp.WithObserver(collector.Observe))
	}
	dispatcher := gohttp.NewDispatcher(table, opts...)

	router := routing.NewRouter(routing.Options{
		Logger:         a.Logger.Named("http"),
		AllowedOrigins: a.Config.HTTP.AllowedOrigins,
	})
	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}
	router.Fallback(dispatcher)

	a.table, a.dispatcher, a.router = table, dispatcher, router

	a.Logger.Info("application booted",
		zap.Int("beans", a.Container.Len()),
		zap.Int("routes", table.Len()),
		zap.Int("filters", len(filters)),
		zap.Int("advice", len(advice)),
	)
	for _, e := range table.Entries() {
		a.Logger.Debug("route", zap.Stringer("entry", e), zap.String("handler", e.HandlerName))
	}
	return nil
}

// controllers returns the beans in the controller category, in discovery order.
func (a *Application) controllers() ([]routing.Controller, error) {
	var out []routing.Controller
	for _, bean := range a.GetByCategory(component.Controller) {
		c, ok := bean.(routing.Controller)
		if !ok {
			return nil, fmt.Errorf("app: controller bean %T has no Prefix/Routes", bean)
		}
		out = append(out, c)
	}
	return out, nil
}

// filters returns the beans in the filter category, in discovery order.
func (a *Application) filters() ([]gohttp.Filter, error) {
	var out []gohttp.Filter
	for _, bean := range a.GetByCategory(component.Filter) {
		f, ok := bean.(gohttp.Filter)
		if !ok {
			return nil, fmt.Errorf("app: filter bean %T has no DoFilter", bean)
		}
		out = append(out, f)
	}
	return out, nil
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

// Handler boots the application if needed and returns the host router.
func (a *Application) Handler() (http.Handler, error) {
	if err := a.Boot(); err != nil {
		return nil, err
	}
	return a.router, nil
}

// Table returns the route table built at boot.
func (a *Application) Table() (*routing.Table, error) {
	if a.table == nil {
		return nil, ErrNotBooted
	}
	return a.table, nil
}

// Run boots the application and serves HTTP on app.port until ctx is done,
// then shuts down gracefully within http.shutdown_timeout.
func (a *Application) Run(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: ":" + a.Config.App.Port, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", a.Config.App.Env),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer cancel()
	a.Logger.Info("shutting down", zap.Duration("timeout", a.Config.HTTP.ShutdownTimeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// ── Environment ───────────────────────────────────────────────────────────────

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
