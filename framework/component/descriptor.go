package component

import (
	"fmt"
	"reflect"
)

// ── Keys ──────────────────────────────────────────────────────────────────────

// Key is the stable identity of a component type.
type Key string

// KeyOf returns the package-qualified key for T.
//
//	component.KeyOf[*product.Service]()  // "*github.com/acme/app/product.Service"
//	component.KeyOf[product.Repository]() // "github.com/acme/app/product.Repository"
func KeyOf[T any]() Key {
	return typeKey(reflect.TypeOf((*T)(nil)).Elem())
}

// KeyFor returns the key of v's dynamic type.
func KeyFor(v any) Key {
	if v == nil {
		return ""
	}
	return typeKey(reflect.TypeOf(v))
}

func typeKey(t reflect.Type) Key {
	prefix := ""
	for t.Kind() == reflect.Ptr {
		prefix += "*"
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return Key(prefix + t.String())
	}
	return Key(prefix + t.PkgPath() + "." + t.Name())
}

// ── Categories ────────────────────────────────────────────────────────────────

// Category tags what role a component plays in the application.
type Category int

const (
	Plain Category = iota
	Service
	Repository
	Controller
	Configuration
	Filter
)

func (c Category) String() string {
	switch c {
	case Plain:
		return "component"
	case Service:
		return "service"
	case Repository:
		return "repository"
	case Controller:
		return "controller"
	case Configuration:
		return "configuration"
	case Filter:
		return "filter"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ── Dependencies ──────────────────────────────────────────────────────────────

// Dependency describes one constructor parameter or injected field.
//
// Either Key is set (a component of that type is injected) or Value is set
// (the named configuration value is injected as a string). Name narrows Key
// to the component registered under that bean name.
type Dependency struct {
	Key   Key
	Name  string
	Value string
}

// IsValue reports whether the dependency is a named configuration value.
func (d Dependency) IsValue() bool { return d.Value != "" }

func (d Dependency) String() string {
	switch {
	case d.IsValue():
		return "value(" + d.Value + ")"
	case d.Name != "":
		return string(d.Key) + "#" + d.Name
	default:
		return string(d.Key)
	}
}

// Dep declares a dependency on the component providing T.
func Dep[T any]() Dependency {
	return Dependency{Key: KeyOf[T]()}
}

// Named declares a dependency on the component providing T registered as name.
func Named[T any](name string) Dependency {
	return Dependency{Key: KeyOf[T](), Name: name}
}

// Value declares a dependency on a dot-separated configuration key.
func Value(key string) Dependency {
	return Dependency{Value: key}
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// Descriptor is the registration record of one component: its identity,
// category, dependencies and how to build it.
type Descriptor struct {
	Key      Key
	Name     string
	Category Category

	// Provides lists further keys (usually interfaces) this component satisfies.
	Provides []Key

	// Params are resolved positionally and handed to New.
	Params []Dependency
	// Fields are resolved after construction and handed to Inject.
	Fields []Dependency

	New    func(args Args) (any, error)
	Inject func(instance any, args Args) error
}

// Satisfies reports whether the component can be injected where key is required.
func (d *Descriptor) Satisfies(key Key) bool {
	if d.Key == key {
		return true
	}
	for _, k := range d.Provides {
		if k == key {
			return true
		}
	}
	return false
}

// Dependencies returns constructor parameters followed by fields.
func (d *Descriptor) Dependencies() []Dependency {
	out := make([]Dependency, 0, len(d.Params)+len(d.Fields))
	out = append(out, d.Params...)
	return append(out, d.Fields...)
}

func (d *Descriptor) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s %s (%s)", d.Category, d.Key, d.Name)
	}
	return fmt.Sprintf("%s %s", d.Category, d.Key)
}

// Of starts a descriptor for T built by ctor from the given parameters.
//
//	component.Of(component.Service, func(a component.Args) (*product.Service, error) {
//	    return product.NewService(component.Arg[product.Repository](a, 0)), nil
//	}, component.Dep[product.Repository]())
func Of[T any](category Category, ctor func(a Args) (T, error), params ...Dependency) *Descriptor {
	return &Descriptor{
		Key:      KeyOf[T](),
		Category: category,
		Params:   params,
		New: func(a Args) (any, error) {
			return ctor(a)
		},
	}
}

// Instance wraps an already built value as a descriptor with no dependencies.
func Instance[T any](category Category, v T) *Descriptor {
	return Of(category, func(Args) (T, error) { return v, nil })
}

// Named sets the bean name used for disambiguation and GetByName.
func (d *Descriptor) Named(name string) *Descriptor {
	d.Name = name
	return d
}

// As records additional keys the component satisfies.
func (d *Descriptor) As(keys ...Key) *Descriptor {
	d.Provides = append(d.Provides, keys...)
	return d
}

// WithFields attaches field injection. inject receives the instance built by
// New together with the resolved field dependencies.
func WithFields[T any](d *Descriptor, inject func(instance T, a Args) error, fields ...Dependency) *Descriptor {
	d.Fields = append(d.Fields, fields...)
	d.Inject = func(instance any, a Args) error {
		typed, ok := instance.(T)
		if !ok {
			return fmt.Errorf("component: %s built %T, field injector expects %s", d.Key, instance, KeyOf[T]())
		}
		return inject(typed, a)
	}
	return d
}

// ── Args ──────────────────────────────────────────────────────────────────────

// Args carries resolved dependencies in declaration order.
type Args []any

// String returns the named value at i.
func (a Args) String(i int) string {
	s, _ := a[i].(string)
	return s
}

// Arg returns the dependency at i as T. It panics when the resolved value has
// a different type, which means the descriptor and its constructor disagree.
func Arg[T any](a Args, i int) T {
	v, ok := a[i].(T)
	if !ok {
		panic(fmt.Sprintf("component: argument %d is %T, not %s", i, a[i], KeyOf[T]()))
	}
	return v
}
