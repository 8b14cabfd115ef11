package graph

import (
	"context"
	"fmt"
	"sync"
)

// Future is a value that is unknown at composition time and resolved exactly
// once by the engine while applying the graph. Composition threads futures
// through declarations without blocking on them.
type Future[T any] struct {
	ref string

	mu   sync.Mutex
	done chan struct{}
	val  T
	set  bool
}

// NewFuture returns an unresolved future. The ref names the value it stands
// for, e.g. "storage-bucket.name", and appears in plan output placeholders.
func NewFuture[T any](ref string) *Future[T] {
	return &Future[T]{
		ref:  ref,
		done: make(chan struct{}),
	}
}

// Ref returns the reference the future was created with.
func (f *Future[T]) Ref() string {
	return f.ref
}

// Resolve sets the value. A future resolves at most once.
func (f *Future[T]) Resolve(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set {
		return fmt.Errorf("future %q is already resolved", f.ref)
	}
	f.val = v
	f.set = true
	close(f.done)
	return nil
}

// Peek returns the value without blocking. The second return reports whether
// the future has been resolved.
func (f *Future[T]) Peek() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val, f.set
}

// Wait blocks until the future is resolved or the context is cancelled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.val, nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("waiting for %q: %w", f.ref, ctx.Err())
	}
}

// Value is a string that is either known at composition time or deferred
// behind a Future. Declarations hold Values so that literals and
// engine-resolved outputs travel through the same fields.
type Value struct {
	lit string
	fut *Future[string]
}

// Literal returns a Value known at composition time.
func Literal(s string) Value {
	return Value{lit: s}
}

// Deferred returns a Value backed by a future.
func Deferred(f *Future[string]) Value {
	return Value{fut: f}
}

// Resolved returns the value and whether it is available yet. Literals are
// always available.
func (v Value) Resolved() (string, bool) {
	if v.fut == nil {
		return v.lit, true
	}
	return v.fut.Peek()
}

// Wait returns the value, blocking on the underlying future if needed.
func (v Value) Wait(ctx context.Context) (string, error) {
	if v.fut == nil {
		return v.lit, nil
	}
	return v.fut.Wait(ctx)
}

// String renders the value for plan output: the value itself when available,
// otherwise a "${ref}" placeholder.
func (v Value) String() string {
	if s, ok := v.Resolved(); ok {
		return s
	}
	return "${" + v.fut.Ref() + "}"
}
