package resilience

import (
	"sort"
	"sync"
)

// Registry holds one circuit breaker per resource name. Breakers are
// created lazily on first use with the caller's config and then reused
// with their accumulated state for all later calls using that name.
// Entries are never removed.
//
// A Registry is an explicit dependency, not a package singleton: the
// component owning outbound calls constructs one and passes it down, so
// tests can build isolated registries per case.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty breaker registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// Get returns the breaker for name, creating it with config on first
// access. The config of an existing breaker is not modified.
func (r *Registry) Get(name string, config CircuitBreakerConfig) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	cb := NewCircuitBreaker(config)
	cb.name = name
	r.breakers[name] = cb
	return cb
}

// Lookup returns the breaker for name without creating one.
func (r *Registry) Lookup(name string) (*CircuitBreaker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[name]
	return cb, ok
}

// Names returns the registered resource names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns metrics for every registered breaker, keyed by name.
func (r *Registry) Snapshot() map[string]CircuitBreakerMetrics {
	r.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		breakers = append(breakers, cb)
	}
	r.mu.Unlock()

	// Collect outside the registry lock; each breaker locks itself.
	snap := make(map[string]CircuitBreakerMetrics, len(breakers))
	for _, cb := range breakers {
		snap[cb.name] = cb.Metrics()
	}
	return snap
}
