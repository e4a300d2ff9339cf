package container

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/km-arc/go-force/framework/component"
)

// Container owns the singleton of every registered component.
//
// It is filled exactly once by Build (or Load) during startup. After that the
// maps are never written again, so concurrent request goroutines read them
// without locking.
type Container struct {
	values     ValueSource
	contextual *Contextual
	logger     *zap.Logger

	plan      *Plan
	instances map[component.Key]any
	named     map[string]component.Key
	// discovery order, used by GetByCategory
	descriptors []*component.Descriptor
	resolved    map[string]string
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used to trace bean creation.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithContextual installs contextual name bindings for dependency resolution.
func WithContextual(ctx *Contextual) Option {
	return func(c *Container) { c.contextual = ctx }
}

// New creates an empty container reading named values from values.
func New(values ValueSource, opts ...Option) *Container {
	c := &Container{
		values:    values,
		logger:    zap.NewNop(),
		instances: make(map[component.Key]any),
		named:     make(map[string]component.Key),
		resolved:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Startup ───────────────────────────────────────────────────────────────────

// Load resolves the registry and builds every bean.
//
//	reg := component.NewRegistry()
//	reg.Register(component.Of(component.Service, NewProductService, component.Dep[ProductRepository]()))
//	c := container.New(cfg)
//	if _, err := c.Load(reg); err != nil { log.Fatal(err) }
func (c *Container) Load(reg *component.Registry) (*Plan, error) {
	plan, err := ResolvePlan(reg.All(), c.values, c.contextual)
	if err != nil {
		return nil, err
	}
	if err := c.Build(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Build instantiates every step of plan in order: constructor injection,
// then field injection. The first failure aborts the build.
func (c *Container) Build(plan *Plan) error {
	if c.plan != nil {
		return ErrAlreadyBuilt
	}

	instances := make(map[component.Key]any, len(plan.Steps))
	named := make(map[string]component.Key)
	resolved := make(map[string]string)

	for _, step := range plan.Steps {
		d := step.Descriptor

		args, err := c.arguments(instances, resolved, step.Params)
		if err != nil {
			return &BuildError{Key: d.Key, Err: err}
		}
		instance, err := construct(d, args)
		if err != nil {
			return &BuildError{Key: d.Key, Err: err}
		}

		if len(step.Fields) > 0 {
			fields, err := c.arguments(instances, resolved, step.Fields)
			if err != nil {
				return &BuildError{Key: d.Key, Err: err}
			}
			if err := inject(d, instance, fields); err != nil {
				return &BuildError{Key: d.Key, Err: err}
			}
		}

		instances[d.Key] = instance
		if d.Name != "" {
			named[d.Name] = d.Key
		}
		c.logger.Debug("bean created",
			zap.String("key", string(d.Key)),
			zap.Stringer("category", d.Category),
			zap.String("name", d.Name),
		)
	}

	c.instances = instances
	c.named = named
	c.resolved = resolved
	c.descriptors = byDiscovery(plan)
	c.plan = plan
	return nil
}

func (c *Container) arguments(instances map[component.Key]any, resolved map[string]string, bindings []Binding) (component.Args, error) {
	args := make(component.Args, len(bindings))
	for i, b := range bindings {
		if b.Dependency.IsValue() {
			v, ok := c.values.GetString(b.Dependency.Value)
			if !ok {
				return nil, fmt.Errorf("value %q disappeared from configuration", b.Dependency.Value)
			}
			resolved[b.Dependency.Value] = v
			args[i] = v
			continue
		}
		inst, ok := instances[b.Provider]
		if !ok {
			return nil, fmt.Errorf("%s is not built yet", b.Provider)
		}
		args[i] = inst
	}
	return args, nil
}

// construct runs user code; a panic is reported as the bean's build error.
func construct(d *component.Descriptor, args component.Args) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.New(args)
}

func inject(d *component.Descriptor, instance any, args component.Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.Inject(instance, args)
}

// byDiscovery keeps category listings in registration order rather than
// instantiation order.
func byDiscovery(plan *Plan) []*component.Descriptor {
	steps := make([]Step, len(plan.Steps))
	copy(steps, plan.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Index < steps[j].Index })

	out := make([]*component.Descriptor, len(steps))
	for i, s := range steps {
		out[i] = s.Descriptor
	}
	return out
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Get returns the bean registered under key, or the single bean providing it.
func (c *Container) Get(key component.Key) (any, error) {
	if inst, ok := c.instances[key]; ok {
		return inst, nil
	}
	var found []component.Key
	for _, d := range c.descriptors {
		if d.Satisfies(key) {
			found = append(found, d.Key)
		}
	}
	switch len(found) {
	case 0:
		return nil, &NotFoundError{Key: key}
	case 1:
		return c.instances[found[0]], nil
	default:
		return nil, &AmbiguousDependencyError{Missing: component.Dependency{Key: key}, Candidates: found}
	}
}

// GetByName returns the bean registered under a bean name.
func (c *Container) GetByName(name string) (any, error) {
	key, ok := c.named[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return c.instances[key], nil
}

// GetByCategory returns every bean of a category.
func (c *Container) GetByCategory(category component.Category) []any {
	var out []any
	for _, d := range c.descriptors {
		if d.Category == category {
			out = append(out, c.instances[d.Key])
		}
	}
	return out
}

// Instances returns every bean.
func (c *Container) Instances() []any {
	out := make([]any, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		out = append(out, c.instances[d.Key])
	}
	return out
}

// Value returns a named value resolved during Build.
func (c *Container) Value(key string) (string, bool) {
	v, ok := c.resolved[key]
	return v, ok
}

// Order returns the keys in the order beans were instantiated.
func (c *Container) Order() []component.Key {
	if c.plan == nil {
		return nil
	}
	return c.plan.Order()
}

// Built reports whether Build has completed.
func (c *Container) Built() bool { return c.plan != nil }

// Len returns the number of beans.
func (c *Container) Len() int { return len(c.instances) }

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Get and type-asserts the result.
//
//	svc, err := container.Resolve[*product.Service](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	inst, err := c.Get(component.KeyOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: bean is %T", component.KeyOf[T](), inst)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics; use it only after a successful build.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// Implementing returns every bean that implements T, in discovery order.
func Implementing[T any](c *Container) []T {
	var out []T
	for _, inst := range c.Instances() {
		if v, ok := inst.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
