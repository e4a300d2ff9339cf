// Package container provides the IoC (Inversion of Control) container and
// the Service Provider system.
//
// # Overview
//
// Components are declared up front as component.Descriptor records (see the
// component package). At startup the container orders them so that every
// component follows its dependencies, instantiates each exactly once and keeps
// the singletons for the life of the process.
//
// Go has no runtime constructor scanning, so every dependency is declared
// explicitly on the descriptor.
//
// # Container Lifecycle
//
//  1. Create:   reg := component.NewRegistry(); c := container.New(cfg)
//  2. Register: providers.Register(&MyProvider{})
//  3. Boot:     providers.Boot(c)     resolve, build, then provider Boot
//  4. Serve requests; the container is read-only from here on
//
// # Declaring components
//
//	reg.Register(component.Of(component.Repository,
//	    func(component.Args) (*ProductRepository, error) { return NewProductRepository(), nil }))
//
//	reg.Register(component.Of(component.Service,
//	    func(a component.Args) (*ProductService, error) {
//	        return NewProductService(component.Arg[*ProductRepository](a, 0)), nil
//	    },
//	    component.Dep[*ProductRepository]()))
//
//	// Named configuration value, read from the config source
//	component.Value("product.name")
//
// # Resolution rules
//
//   - A dependency is satisfied by the component whose key or Provides list
//     contains the requested key.
//   - Several candidates: the dependency's Name wins, then a contextual rule,
//     then the candidate whose own key is the requested key. Otherwise the
//     build fails with AmbiguousDependencyError.
//   - Missing components or configuration keys fail with
//     UnresolvedDependencyError; cycles (including self-dependency) fail with
//     CyclicDependencyError.
//
// # Contextual Binding
//
//	ctx := container.NewContextual()
//	ctx.When(component.KeyOf[*PhotoController]()).
//	    Needs(component.KeyOf[Filesystem]()).
//	    Give("s3")
//	c := container.New(cfg, container.WithContextual(ctx))
//
// # Resolving
//
//	svc, err := container.Resolve[*ProductService](c)
//	controllers := c.GetByCategory(component.Controller)
package container
