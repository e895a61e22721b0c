package multiauth

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// PolicyFactory creates a policy from flat string configuration.
type PolicyFactory func(cfg map[string]string) (Policy, error)

// Registry maps factory and group finder references to implementations.
// Settings refer to factories by name; registration is how a backend makes
// itself addressable from configuration.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]PolicyFactory
	finders   map[string]GroupFinder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]PolicyFactory),
		finders:   make(map[string]GroupFinder),
	}
}

// RegisterPolicy adds a policy factory under the given reference.
func (r *Registry) RegisterPolicy(name string, factory PolicyFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return ErrInvalidFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("multiauth: policy factory %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// RegisterGroupFinder adds a group finder under the given reference.
func (r *Registry) RegisterGroupFinder(name string, finder GroupFinder) error {
	name = strings.TrimSpace(name)
	if name == "" || finder == nil {
		return ErrInvalidFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.finders[name]; exists {
		return fmt.Errorf("multiauth: group finder %q already registered", name)
	}
	r.finders[name] = finder
	return nil
}

// Factory looks up a policy factory by reference.
func (r *Registry) Factory(name string) (PolicyFactory, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
	}
	return factory, nil
}

// GroupFinder looks up a group finder by reference.
func (r *Registry) GroupFinder(name string) (GroupFinder, error) {
	r.mu.RLock()
	finder, ok := r.finders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: group finder %q", ErrFactoryNotFound, name)
	}
	return finder, nil
}

// CreatePolicy instantiates a policy by factory reference.
func (r *Registry) CreatePolicy(name string, cfg map[string]string) (Policy, error) {
	factory, err := r.Factory(name)
	if err != nil {
		return nil, err
	}
	return factory(cfg)
}

// ListPolicies returns registered factory references.
func (r *Registry) ListPolicies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global registry. Built-in policies register here
// from their package init functions.
var DefaultRegistry = NewRegistry()
