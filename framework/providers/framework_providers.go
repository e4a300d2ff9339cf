// Package providers declares the framework's own components. The kernel
// registers them before any application provider.
package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/km-arc/go-force/framework/component"
	"github.com/km-arc/go-force/framework/config"
	"github.com/km-arc/go-force/framework/container"
	"github.com/km-arc/go-force/framework/health"
	"github.com/km-arc/go-force/framework/logging"
	"github.com/km-arc/go-force/framework/metrics"
	"github.com/km-arc/go-force/framework/persistence"
	"github.com/km-arc/go-force/framework/security"
)

// Framework returns the framework providers in registration order.
func Framework(cfg *config.Config, logger *zap.Logger) []container.ServiceProvider {
	return []container.ServiceProvider{
		&ConfigServiceProvider{Config: cfg},
		&LoggingServiceProvider{Logger: logger},
		&PersistenceServiceProvider{DB: cfg.DB},
		&SecurityServiceProvider{},
		&HealthServiceProvider{},
		&MetricsServiceProvider{},
	}
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider exposes the loaded configuration as a bean.
//
// Beans:
//   - *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(reg *component.Registry) error {
	if p.Config == nil {
		return fmt.Errorf("providers: no configuration loaded")
	}
	return reg.Register(component.Instance(component.Configuration, p.Config).Named("config"))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger. Without a Logger
// one is built from the configuration.
//
// Beans:
//   - *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(reg *component.Registry) error {
	if p.Logger != nil {
		return reg.Register(component.Instance(component.Plain, p.Logger).Named("logger"))
	}
	return reg.Register(component.Of(component.Plain, func(a component.Args) (*zap.Logger, error) {
		return logging.New(component.Arg[*config.Config](a, 0))
	}, component.Dep[*config.Config]()).Named("logger"))
}

// ── PersistenceServiceProvider ────────────────────────────────────────────────

// PersistenceServiceProvider registers the database pool for any driver other
// than "memory", and the advice mapping ErrNotFound to 404.
//
// Beans:
//   - *sqlx.DB (db.driver != memory)
//   - persistence.NotFoundAdvice
//
// Configuration keys: db.driver, db.dsn, db.max_pool_size.
type PersistenceServiceProvider struct {
	DB config.DBConfig
}

// PingTimeout bounds the connectivity check run at boot.
const PingTimeout = 5 * time.Second

func (p *PersistenceServiceProvider) Register(reg *component.Registry) error {
	if err := reg.Register(component.Instance(component.Configuration, persistence.NotFoundAdvice{})); err != nil {
		return err
	}
	if p.DB.Driver == "" || p.DB.Driver == "memory" {
		return nil
	}
	cfg := p.DB
	return reg.Register(component.Of(component.Configuration, func(component.Args) (*sqlx.DB, error) {
		return persistence.Open(cfg)
	}).Named("db"))
}

func (p *PersistenceServiceProvider) Boot(c *container.Container) error {
	if p.DB.Driver == "" || p.DB.Driver == "memory" {
		return nil
	}
	db, err := container.Resolve[*sqlx.DB](c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("providers: database unreachable: %w", err)
	}
	return nil
}

// ── SecurityServiceProvider ───────────────────────────────────────────────────

// SecurityServiceProvider registers the token service and the request filters.
//
// Beans:
//   - *security.JWT (also security.TokenValidator)
//   - *security.SecurityFilter
//   - *security.RateLimitFilter
//
// Configuration keys: jwt.secret, jwt.issuer, jwt.expiration,
// ratelimit.rps, ratelimit.burst.
type SecurityServiceProvider struct {
	container.BaseProvider
}

func (p *SecurityServiceProvider) Register(reg *component.Registry) error {
	return reg.RegisterAll(
		component.Of(component.Service, func(a component.Args) (*security.JWT, error) {
			return security.NewJWT(component.Arg[*config.Config](a, 0).JWT), nil
		}, component.Dep[*config.Config]()).As(component.KeyOf[security.TokenValidator]()),

		component.Of(component.Filter, func(a component.Args) (*security.SecurityFilter, error) {
			return security.NewSecurityFilter(
				component.Arg[security.TokenValidator](a, 0),
				component.Arg[*zap.Logger](a, 1),
			), nil
		}, component.Dep[security.TokenValidator](), component.Dep[*zap.Logger]()),

		component.Of(component.Filter, func(a component.Args) (*security.RateLimitFilter, error) {
			return security.NewRateLimitFilter(
				component.Arg[*config.Config](a, 0).RateLimit,
				component.Arg[*zap.Logger](a, 1),
			), nil
		}, component.Dep[*config.Config](), component.Dep[*zap.Logger]()),
	)
}

// ── HealthServiceProvider ─────────────────────────────────────────────────────

// HealthServiceProvider mounts GET /health and GET /health/info.
type HealthServiceProvider struct {
	container.BaseProvider
}

func (p *HealthServiceProvider) Register(reg *component.Registry) error {
	return reg.RegisterAll(
		component.Of(component.Service, func(component.Args) (*health.Service, error) {
			return health.NewService(), nil
		}),
		component.Of(component.Controller, func(a component.Args) (*health.Controller, error) {
			return health.NewController(component.Arg[*health.Service](a, 0)), nil
		}, component.Dep[*health.Service]()),
	)
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider registers the request metrics collector. The kernel
// mounts its handler on /metrics.
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(reg *component.Registry) error {
	return reg.Register(component.Of(component.Plain, func(component.Args) (*metrics.Collector, error) {
		return metrics.NewCollector(), nil
	}))
}
