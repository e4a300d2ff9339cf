// Package app is the sample catalogue application built on the framework.
package app

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/km-arc/go-force/app/exception"
	"github.com/km-arc/go-force/app/product"
	"github.com/km-arc/go-force/app/stock"
	"github.com/km-arc/go-force/app/token"
	"github.com/km-arc/go-force/framework/component"
	"github.com/km-arc/go-force/framework/config"
	"github.com/km-arc/go-force/framework/container"
	"github.com/km-arc/go-force/framework/security"
)

// CatalogueServiceProvider registers the sample application's components.
//
// Beans:
//   - *product.Settings (configuration component, value product.name)
//   - product.Repository (memory or SQL, by db.driver)
//   - *product.Service
//   - *product.Controller, *stock.Controller, *token.Controller
//   - exception.Advice
type CatalogueServiceProvider struct {
	container.BaseProvider
	DB config.DBConfig
}

func (p *CatalogueServiceProvider) Register(reg *component.Registry) error {
	return reg.RegisterAll(
		component.Of(component.Configuration, func(a component.Args) (*product.Settings, error) {
			return &product.Settings{Name: a.String(0)}, nil
		}, component.Value("product.name")),

		p.repository(),

		component.Of(component.Service, func(a component.Args) (*product.Service, error) {
			return product.NewService(component.Arg[product.Repository](a, 0)), nil
		}, component.Dep[product.Repository]()),

		component.Of(component.Controller, func(a component.Args) (*product.Controller, error) {
			return product.NewController(
				component.Arg[*product.Settings](a, 0),
				component.Arg[*product.Service](a, 1),
				component.Arg[*zap.Logger](a, 2).Named("product"),
			), nil
		}, component.Dep[*product.Settings](), component.Dep[*product.Service](), component.Dep[*zap.Logger]()),

		component.Of(component.Controller, func(component.Args) (*stock.Controller, error) {
			return stock.NewController(), nil
		}),

		component.Of(component.Controller, func(a component.Args) (*token.Controller, error) {
			return token.NewController(component.Arg[*security.JWT](a, 0)), nil
		}, component.Dep[*security.JWT]()),

		component.Instance(component.Configuration, exception.Advice{}),
	)
}

func (p *CatalogueServiceProvider) repository() *component.Descriptor {
	if p.DB.Driver == "" || p.DB.Driver == "memory" {
		return component.Of(component.Repository, func(component.Args) (product.Repository, error) {
			return product.NewMemoryRepository(product.Samples...)
		})
	}
	return component.Of(component.Repository, func(a component.Args) (product.Repository, error) {
		return product.NewSQLRepository(component.Arg[*sqlx.DB](a, 0)), nil
	}, component.Dep[*sqlx.DB]())
}
