package container

import "github.com/km-arc/go-force/framework/component"

// Contextual holds "when A needs B, give it the bean named C" rules used to
// pick one of several components satisfying the same key.
//
//	ctx := container.NewContextual()
//	ctx.When(component.KeyOf[*PhotoController]()).
//	    Needs(component.KeyOf[Filesystem]()).
//	    Give("s3")
type Contextual struct {
	rules map[component.Key]map[component.Key]string
}

// NewContextual creates an empty rule set.
func NewContextual() *Contextual {
	return &Contextual{rules: make(map[component.Key]map[component.Key]string)}
}

// When starts a contextual binding chain for the requesting component.
func (c *Contextual) When(requester component.Key) *ContextualBuilder {
	return &ContextualBuilder{contextual: c, requester: requester}
}

// lookup returns the bean name bound for (requester, needs), if any.
func (c *Contextual) lookup(requester, needs component.Key) (string, bool) {
	if c == nil {
		return "", false
	}
	m, ok := c.rules[requester]
	if !ok {
		return "", false
	}
	name, ok := m[needs]
	return name, ok
}

// ContextualBuilder implements the fluent contextual binding API.
type ContextualBuilder struct {
	contextual *Contextual
	requester  component.Key
	needs      component.Key
}

// Needs specifies which key the requesting component depends on.
func (b *ContextualBuilder) Needs(key component.Key) *ContextualBuilder {
	b.needs = key
	return b
}

// Give names the bean that satisfies the dependency for this requester.
func (b *ContextualBuilder) Give(name string) {
	if _, ok := b.contextual.rules[b.requester]; !ok {
		b.contextual.rules[b.requester] = make(map[component.Key]string)
	}
	b.contextual.rules[b.requester][b.needs] = name
}
