package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/merrydance/logistics/profile"
)

// FactorCache per-profile edge factors. Warmed at bootstrap, read by requests.
type FactorCache struct {
	network *Network

	mu      sync.RWMutex
	factors map[string][]profile.Factor
}

// NewFactorCache creates an empty cache for the network.
func NewFactorCache(n *Network) *FactorCache {
	return &FactorCache{
		network: n,
		factors: make(map[string][]profile.Factor),
	}
}

// CalculateFor precomputes the factors of every edge for the profile.
func (c *FactorCache) CalculateFor(p *profile.Profile) error {
	if !c.network.Supports(p.Vehicle.Name) {
		return fmt.Errorf("%w: %s", ErrUnsupported, p.Name)
	}
	factors := c.compute(p)

	c.mu.Lock()
	c.factors[p.Name] = factors
	c.mu.Unlock()
	return nil
}

// WarmAll precomputes factors for every registered profile the network
// supports and returns their names. Called before the instance is published
// so requests only ever read the cache.
func (c *FactorCache) WarmAll() []string {
	var warmed []string
	for _, name := range profile.Names() {
		p, ok := profile.TryGet(name)
		if !ok || !c.network.Supports(p.Vehicle.Name) {
			continue
		}
		if err := c.CalculateFor(p); err != nil {
			continue
		}
		warmed = append(warmed, name)
	}
	return warmed
}

// Get returns the edge factors for the profile. Profiles that were not
// warmed are computed per call and never stored.
func (c *FactorCache) Get(p *profile.Profile) []profile.Factor {
	c.mu.RLock()
	factors, ok := c.factors[p.Name]
	c.mu.RUnlock()
	if ok {
		return factors
	}
	return c.compute(p)
}

// Contains reports whether the profile was warmed.
func (c *FactorCache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factors[name]
	return ok
}

// Profiles names of cached profiles, sorted.
func (c *FactorCache) Profiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factors))
	for name := range c.factors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *FactorCache) compute(p *profile.Profile) []profile.Factor {
	factors := make([]profile.Factor, len(c.network.Edges))
	for i, e := range c.network.Edges {
		factors[i] = p.Factor(e.Attributes)
	}
	return factors
}
