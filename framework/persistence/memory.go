package persistence

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a mutex-guarded in-memory Repository. Entities are returned in
// insertion order.
type Memory[E any, K comparable] struct {
	mu       sync.RWMutex
	identity Identity[E, K]
	next     func() K
	rows     map[K]E
	order    []K
}

// NewMemory creates an empty repository. next generates ids for entities
// saved without one.
func NewMemory[E any, K comparable](identity Identity[E, K], next func() K) *Memory[E, K] {
	return &Memory[E, K]{identity: identity, next: next, rows: make(map[K]E)}
}

// Sequence returns an id generator counting up from 1.
func Sequence() func() int64 {
	var mu sync.Mutex
	var n int64
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		n++
		return n
	}
}

func (m *Memory[E, K]) FindByID(_ context.Context, id K) (E, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.rows[id]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: id %v", ErrNotFound, id)
	}
	return e, nil
}

func (m *Memory[E, K]) FindAll(_ context.Context) ([]E, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]E, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *Memory[E, K]) Save(_ context.Context, e E) (E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero K
	id := m.identity.Get(e)
	if id == zero {
		id = m.next()
		e = m.identity.Set(e, id)
	}
	if _, exists := m.rows[id]; !exists {
		m.order = append(m.order, id)
	}
	m.rows[id] = e
	return e, nil
}

func (m *Memory[E, K]) Update(_ context.Context, id K, e E) (E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		var zero E
		return zero, fmt.Errorf("%w: id %v", ErrNotFound, id)
	}
	e = m.identity.Set(e, id)
	m.rows[id] = e
	return e, nil
}

func (m *Memory[E, K]) Delete(_ context.Context, id K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("%w: id %v", ErrNotFound, id)
	}
	delete(m.rows, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory[E, K]) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}
