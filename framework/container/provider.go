package container

import (
	"fmt"

	"github.com/km-arc/go-force/framework/component"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the component declarations of one module.
//
// Register is called for every provider before anything is built; it only
// adds descriptors. Boot is called after the container has been built, so it
// may resolve and use any bean.
//
//	type ProductProvider struct{ container.BaseProvider }
//
//	func (p *ProductProvider) Register(reg *component.Registry) error {
//	    return reg.RegisterAll(
//	        component.Of(component.Repository, newRepository),
//	        component.Of(component.Service, newService, component.Dep[*Repository]()),
//	    )
//	}
type ServiceProvider interface {
	Register(reg *component.Registry) error
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with a no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry runs the register phase of every provider, builds the
// container once and then boots the providers in registration order.
type ProviderRegistry struct {
	reg        *component.Registry
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry feeding reg.
func NewProviderRegistry(reg *component.Registry) *ProviderRegistry {
	return &ProviderRegistry{
		reg:        reg,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and runs its Register phase. Registering the same
// provider value twice is a no-op; registering after Boot is an error because
// the container can no longer change.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.booted {
		return fmt.Errorf("container: provider %T registered after boot", provider)
	}
	if r.registered[provider] {
		return nil
	}
	if err := provider.Register(r.reg); err != nil {
		return fmt.Errorf("container: registering %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	return nil
}

// Boot builds c from the collected descriptors and boots every provider.
// It runs once; later calls return nil.
func (r *ProviderRegistry) Boot(c *Container) error {
	if r.booted {
		return nil
	}
	if _, err := c.Load(r.reg); err != nil {
		return err
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(c); err != nil {
			return fmt.Errorf("container: booting %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has completed.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
