package container

import (
	"sort"

	"github.com/km-arc/go-force/framework/component"
)

// ValueSource supplies named configuration values.
type ValueSource interface {
	GetString(key string) (string, bool)
}

// Binding records what satisfies one dependency.
type Binding struct {
	Dependency component.Dependency
	// Provider is the key of the chosen component; empty for named values.
	Provider component.Key
}

// Step is one component to instantiate, with its dependencies already chosen.
type Step struct {
	Descriptor *component.Descriptor
	// Index is the descriptor's discovery position.
	Index  int
	Params []Binding
	Fields []Binding
}

// Plan is an instantiation order in which every component follows all of
// its dependencies.
type Plan struct {
	Steps []Step
}

// Order returns the component keys in instantiation order.
func (p *Plan) Order() []component.Key {
	out := make([]component.Key, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Descriptor.Key
	}
	return out
}

const (
	white = iota // unvisited
	grey         // in progress
	black        // done
)

type resolver struct {
	descriptors []*component.Descriptor
	index       map[component.Key]int
	values      ValueSource
	contextual  *Contextual

	steps []Step
	color []int
	stack []int
	order []int
}

// ResolvePlan orders descriptors for instantiation. It has no side effects:
// the same input always yields the same plan.
//
// Disambiguation when several components satisfy a key: the dependency's own
// Name, then a contextual rule for the requester, then the component whose
// identity is exactly the requested key. Anything else is ambiguous.
func ResolvePlan(descriptors []*component.Descriptor, values ValueSource, contextual *Contextual) (*Plan, error) {
	r := &resolver{
		descriptors: descriptors,
		index:       make(map[component.Key]int, len(descriptors)),
		values:      values,
		contextual:  contextual,
		steps:       make([]Step, len(descriptors)),
		color:       make([]int, len(descriptors)),
	}
	for i, d := range descriptors {
		r.index[d.Key] = i
	}

	for i, d := range descriptors {
		params, err := r.bindAll(d, d.Params)
		if err != nil {
			return nil, err
		}
		fields, err := r.bindAll(d, d.Fields)
		if err != nil {
			return nil, err
		}
		r.steps[i] = Step{Descriptor: d, Index: i, Params: params, Fields: fields}
	}

	for i := range descriptors {
		if r.color[i] == white {
			if err := r.visit(i); err != nil {
				return nil, err
			}
		}
	}

	plan := &Plan{Steps: make([]Step, len(r.order))}
	for i, idx := range r.order {
		plan.Steps[i] = r.steps[idx]
	}
	return plan, nil
}

func (r *resolver) bindAll(requester *component.Descriptor, deps []component.Dependency) ([]Binding, error) {
	out := make([]Binding, len(deps))
	for i, dep := range deps {
		b, err := r.bind(requester, dep)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (r *resolver) bind(requester *component.Descriptor, dep component.Dependency) (Binding, error) {
	if dep.IsValue() {
		if r.values == nil {
			return Binding{}, &UnresolvedDependencyError{Requester: requester.Key, Missing: dep}
		}
		if _, ok := r.values.GetString(dep.Value); !ok {
			return Binding{}, &UnresolvedDependencyError{Requester: requester.Key, Missing: dep}
		}
		return Binding{Dependency: dep}, nil
	}

	var candidates []*component.Descriptor
	for _, d := range r.descriptors {
		if d.Satisfies(dep.Key) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return Binding{}, &UnresolvedDependencyError{Requester: requester.Key, Missing: dep}
	}

	name := dep.Name
	if name == "" {
		name, _ = r.contextual.lookup(requester.Key, dep.Key)
	}
	if name != "" {
		var named []*component.Descriptor
		for _, d := range candidates {
			if d.Name == name {
				named = append(named, d)
			}
		}
		switch len(named) {
		case 0:
			return Binding{}, &UnresolvedDependencyError{Requester: requester.Key, Missing: component.Dependency{Key: dep.Key, Name: name}}
		case 1:
			return Binding{Dependency: dep, Provider: named[0].Key}, nil
		default:
			return Binding{}, ambiguous(requester, dep, named)
		}
	}

	if len(candidates) == 1 {
		return Binding{Dependency: dep, Provider: candidates[0].Key}, nil
	}
	if i, ok := r.index[dep.Key]; ok {
		return Binding{Dependency: dep, Provider: r.descriptors[i].Key}, nil
	}
	return Binding{}, ambiguous(requester, dep, candidates)
}

func ambiguous(requester *component.Descriptor, dep component.Dependency, candidates []*component.Descriptor) error {
	keys := make([]component.Key, len(candidates))
	for i, d := range candidates {
		keys[i] = d.Key
	}
	return &AmbiguousDependencyError{Requester: requester.Key, Missing: dep, Candidates: keys}
}

// visit is the three-colour depth-first walk; post-order yields the plan.
func (r *resolver) visit(i int) error {
	r.color[i] = grey
	r.stack = append(r.stack, i)

	step := r.steps[i]
	for _, bindings := range [][]Binding{step.Params, step.Fields} {
		for _, b := range bindings {
			if b.Provider == "" {
				continue
			}
			j := r.index[b.Provider]
			switch r.color[j] {
			case grey:
				return r.cycle(j)
			case white:
				if err := r.visit(j); err != nil {
					return err
				}
			}
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.color[i] = black
	r.order = append(r.order, i)
	return nil
}

// cycle reports the stack segment starting at start, in discovery order.
func (r *resolver) cycle(start int) error {
	var members []int
	for k := len(r.stack) - 1; k >= 0; k-- {
		members = append(members, r.stack[k])
		if r.stack[k] == start {
			break
		}
	}
	sort.Ints(members)

	keys := make([]component.Key, len(members))
	for k, idx := range members {
		keys[k] = r.descriptors[idx].Key
	}
	return &CyclicDependencyError{Members: keys}
}
