// Package registry keeps the bootstrapped tour instances of the process,
// addressed by name, and loads them from their configured network files.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/merrydance/logistics/tour"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrNotFound no active instance with the requested name.
var ErrNotFound = errors.New("instance not found")

var instancesActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "tour_instances_active",
		Help: "Number of instances available for requests",
	},
)

// Registry concurrency-safe name to instance mapping. Instances are only
// published fully loaded and are read-only afterwards.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]tour.Instance
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{instances: make(map[string]tour.Instance)}
}

// Register publishes an instance under name, replacing any previous one.
func (r *Registry) Register(name string, instance tour.Instance) {
	r.mu.Lock()
	r.instances[name] = instance
	count := len(r.instances)
	r.mu.Unlock()

	instancesActive.Set(float64(count))
}

// IsActive reports whether an instance is registered under name.
func (r *Registry) IsActive(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instances[name]
	return ok
}

// Get returns the instance registered under name.
func (r *Registry) Get(name string) (tour.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.instances[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return instance, nil
}

// Names lists the registered instance names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}
