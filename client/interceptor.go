package client

import (
	"context"
	"sync"
)

// RequestInterceptor transforms the fully merged request options before
// dispatch. It receives the options produced by the previous interceptor
// (or the pipeline's merge step) and returns the replacement options.
// Returning nil keeps the current options. An error aborts the request.
type RequestInterceptor func(ctx context.Context, opts *Options) (*Options, error)

// ResponseInterceptor observes a response view whose JSON method resolves
// to the current payload, and returns a replacement payload. Returning
// Unchanged keeps the previous payload. An error aborts the request.
type ResponseInterceptor func(ctx context.Context, resp *Response) (any, error)

type unchanged struct{}

// Unchanged is the absence marker for response interceptors: return it to
// leave the payload as the previous interceptor produced it. It is distinct
// from returning nil, which replaces the payload with null.
var Unchanged any = unchanged{}

// Chain is an append-only, order-preserving list of interceptors.
// Registration order is execution order. Safe for concurrent use; readers
// always observe a snapshot.
type Chain[T any] struct {
	mu  sync.RWMutex
	fns []T
}

// Use appends fn to the chain.
func (c *Chain[T]) Use(fn T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

// Clear removes all registered interceptors atomically.
func (c *Chain[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = nil
}

// List returns a snapshot copy in registration order. Mutating the returned
// slice does not affect the chain.
func (c *Chain[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]T, len(c.fns))
	copy(snapshot, c.fns)
	return snapshot
}

// Len reports the number of registered interceptors.
func (c *Chain[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fns)
}
