// Package lock serializes work that must not interleave, such as assigning
// the next sequence id of a product category.
package lock

import (
	"context"
	"sync"
)

// Locker runs fn while holding the lock named key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Local is an in-process Locker with one mutex per key. It is enough when a
// single instance of the service owns the database.
type Local struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocal creates a new instance of Local.
func NewLocal() *Local {
	return &Local{locks: make(map[string]chan struct{})}
}

// WithLock waits for key, or returns ctx.Err() if the context ends first.
func (l *Local) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	sem := l.sem(key)
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sem }()

	return fn(ctx)
}

func (l *Local) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[key] = sem
	}
	return sem
}
