// Package registry maps service names to configured clients. An application
// constructs one Registry at startup and passes it wherever services are
// needed; there is deliberately no package-level singleton.
package registry

import (
	"sync"

	"github.com/kochabx/apikit/client"
)

// Registry is the façade surface: register, unregister and look up named
// services. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*client.Service

	baseOptions []client.ServiceOption
}

// Option configures a Registry.
type Option func(*Registry)

// WithServiceOptions sets options applied to every service the registry
// constructs, before per-registration options. Useful for a shared
// transport, logger or metrics collector.
func WithServiceOptions(opts ...client.ServiceOption) Option {
	return func(r *Registry) {
		r.baseOptions = opts
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		services: make(map[string]*client.Service),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register constructs a new Service with fresh, empty interceptor chains and
// stores it under name. A prior service of the same name is replaced, not
// merged: its interceptors are discarded.
func (r *Registry) Register(name, baseURL string, opts ...client.ServiceOption) *client.Service {
	merged := make([]client.ServiceOption, 0, len(r.baseOptions)+len(opts))
	merged = append(merged, r.baseOptions...)
	merged = append(merged, opts...)

	svc := client.NewService(name, baseURL, merged...)

	r.mu.Lock()
	r.services[name] = svc
	r.mu.Unlock()

	return svc
}

// Unregister removes the named service. Unregistering an absent name is a
// no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.services, name)
	r.mu.Unlock()
}

// Service returns the named service, or nil when the name is not
// registered. A nil result means "service not configured", not an error.
func (r *Registry) Service(name string) *client.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.services[name]
}

// Names returns the currently registered service names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	return names
}

// Len reports the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}
