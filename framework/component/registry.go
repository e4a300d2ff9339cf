package component

import (
	"errors"
	"fmt"
)

// DuplicateComponentError is returned when two descriptors share an identity.
type DuplicateComponentError struct {
	Key Key
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component: %s registered more than once", e.Key)
}

// Registry holds descriptors in discovery order.
type Registry struct {
	descriptors []*Descriptor
	index       map[Key]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Key]int)}
}

// Register adds d. Descriptors must carry a key and a constructor.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Key == "" {
		return errors.New("component: descriptor without key")
	}
	if d.New == nil {
		return fmt.Errorf("component: %s has no constructor", d.Key)
	}
	if len(d.Fields) > 0 && d.Inject == nil {
		return fmt.Errorf("component: %s declares fields but no injector", d.Key)
	}
	if _, exists := r.index[d.Key]; exists {
		return &DuplicateComponentError{Key: d.Key}
	}
	r.index[d.Key] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(ds ...*Descriptor) {
	if err := r.RegisterAll(ds...); err != nil {
		panic(err)
	}
}

// RegisterAll registers each descriptor in order, stopping at the first error.
func (r *Registry) RegisterAll(ds ...*Descriptor) error {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// All returns the descriptors in discovery order. The slice is a copy.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Lookup returns the descriptor registered under key.
func (r *Registry) Lookup(key Key) (*Descriptor, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.descriptors[i], true
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int { return len(r.descriptors) }
