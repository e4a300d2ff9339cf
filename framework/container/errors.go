package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/km-arc/go-force/framework/component"
)

// ErrAlreadyBuilt is returned when Build runs on a container that already holds beans.
var ErrAlreadyBuilt = errors.New("container: already built")

// CyclicDependencyError names the components that depend on each other,
// in discovery order. A self-dependency is a cycle of one.
type CyclicDependencyError struct {
	Members []component.Key
}

func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Members))
	for i, k := range e.Members {
		names[i] = string(k)
	}
	return "container: cyclic dependency between [" + strings.Join(names, ", ") + "]"
}

// UnresolvedDependencyError is returned when nothing satisfies a dependency.
type UnresolvedDependencyError struct {
	Requester component.Key
	Missing   component.Dependency
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("container: %s requires %s, which is not registered", e.Requester, e.Missing)
}

// AmbiguousDependencyError is returned when several components satisfy a
// dependency and no name selects one of them.
type AmbiguousDependencyError struct {
	Requester  component.Key
	Missing    component.Dependency
	Candidates []component.Key
}

func (e *AmbiguousDependencyError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, k := range e.Candidates {
		names[i] = string(k)
	}
	return fmt.Sprintf("container: %s requires %s, satisfied by [%s]; add a name to choose one",
		e.Requester, e.Missing, strings.Join(names, ", "))
}

// NotFoundError is returned by lookups for unknown keys or names.
type NotFoundError struct {
	Key  component.Key
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("container: no bean named %q", e.Name)
	}
	return fmt.Sprintf("container: no bean for %s", e.Key)
}

// BuildError wraps the error raised while constructing or injecting a bean.
type BuildError struct {
	Key component.Key
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("container: building %s: %v", e.Key, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
