package service

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps service names to service units so workflow definitions can
// reference services declaratively (e.g. from YAML files).
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]Service),
	}
}

// Register adds a named service. Registering the same name twice is an
// error; use Replace to override deliberately.
func (r *Registry) Register(name string, svc Service) error {
	if name == "" {
		return fmt.Errorf("service name is required")
	}
	if svc == nil {
		return fmt.Errorf("service %s is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}
	r.services[name] = svc

	return nil
}

// Replace registers a service, overriding any existing registration.
func (r *Registry) Replace(name string, svc Service) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[name] = svc
}

// Get returns the service registered under name.
func (r *Registry) Get(name string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("unknown service: %s", name)
	}

	return svc, nil
}

// Names returns the registered service names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
