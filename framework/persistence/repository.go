// Package persistence provides the generic repository contract used by
// application services, with an in-memory and an SQL implementation.
package persistence

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by every lookup, update or delete of a missing id.
var ErrNotFound = errors.New("record not found")

// Repository stores entities E identified by K.
type Repository[E any, K comparable] interface {
	FindByID(ctx context.Context, id K) (E, error)
	FindAll(ctx context.Context) ([]E, error)
	// Save inserts e and returns it with its assigned id.
	Save(ctx context.Context, e E) (E, error)
	// Update replaces the entity stored under id.
	Update(ctx context.Context, id K, e E) (E, error)
	Delete(ctx context.Context, id K) error
	Count(ctx context.Context) (int, error)
}

// Identity tells a repository how to read and assign the id of an entity.
type Identity[E any, K comparable] struct {
	Get func(e E) K
	Set func(e E, id K) E
}
