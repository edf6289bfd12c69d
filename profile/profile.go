// Package profile is the process-wide registry of travel profiles: a named
// vehicle plus a cost function over edge attributes.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/merrydance/logistics/geo"
)

// Metric selects what a profile minimizes.
type Metric string

const (
	MetricFastest  Metric = "fastest"
	MetricShortest Metric = "shortest"
)

// Direction of travel allowed on an edge, relative to its from->to orientation.
type Direction uint8

const (
	DirectionBoth Direction = iota
	DirectionForward
	DirectionBackward
)

// Factor cost per meter of an edge for a profile plus the allowed direction.
// A zero Value means the edge cannot be traversed.
type Factor struct {
	Value     float64
	Direction Direction
}

// CanTraverse reports whether the edge is usable at all.
func (f Factor) CanTraverse() bool {
	return f.Value > 0
}

// Allows reports whether the edge can be traversed in the given orientation.
func (f Factor) Allows(forward bool) bool {
	if !f.CanTraverse() {
		return false
	}
	switch f.Direction {
	case DirectionForward:
		return forward
	case DirectionBackward:
		return !forward
	default:
		return true
	}
}

// Profile a named travel mode and its cost function.
type Profile struct {
	Name    string
	Vehicle *Vehicle
	Metric  Metric
}

// Factor computes the edge factor for the given edge attributes.
func (p *Profile) Factor(attributes geo.Attributes) Factor {
	speed, direction := p.Vehicle.speedAndDirection(attributes)
	if speed <= 0 {
		return Factor{}
	}
	switch p.Metric {
	case MetricShortest:
		return Factor{Value: 1, Direction: direction}
	default:
		// seconds per meter
		return Factor{Value: 3.6 / speed, Direction: direction}
	}
}

// Speed returns the travel speed in m/s on an edge, 0 when not traversable.
func (p *Profile) Speed(attributes geo.Attributes) float64 {
	speed, _ := p.Vehicle.speedAndDirection(attributes)
	return speed / 3.6
}

// String returns the profile name.
func (p *Profile) String() string {
	return p.Name
}

// Registry maps profile names to profiles; safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// Register adds or replaces a profile.
func (r *Registry) Register(p *Profile) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.Vehicle == nil {
		return fmt.Errorf("profile %q has no vehicle", p.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
	return nil
}

// TryGet resolves a profile by name.
func (r *Registry) TryGet(name string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	return p, ok
}

// Names returns all registered profile names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtins() {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// TryGet resolves a profile from the default registry.
func TryGet(name string) (*Profile, bool) {
	return defaultRegistry.TryGet(name)
}

// Register adds a profile to the default registry.
func Register(p *Profile) error {
	return defaultRegistry.Register(p)
}

// Names lists the profiles of the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

func builtins() []*Profile {
	return []*Profile{
		{Name: "car", Vehicle: Car, Metric: MetricFastest},
		{Name: "car.fastest", Vehicle: Car, Metric: MetricFastest},
		{Name: "car.shortest", Vehicle: Car, Metric: MetricShortest},
		{Name: "bicycle", Vehicle: Bicycle, Metric: MetricFastest},
		{Name: "bicycle.fastest", Vehicle: Bicycle, Metric: MetricFastest},
		{Name: "pedestrian", Vehicle: Pedestrian, Metric: MetricShortest},
		{Name: "pedestrian.shortest", Vehicle: Pedestrian, Metric: MetricShortest},
	}
}
