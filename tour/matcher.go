package tour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/profile"
)

const (
	// DefaultSearchRadius meters around an input coordinate searched for edges.
	DefaultSearchRadius = 200.0
	// DefaultNameThreshold similarity a tied edge name must exceed.
	DefaultNameThreshold = 0.90
	// candidates closer than this to the best one tie with it
	tieTolerance = 1.0
)

var (
	ErrNoMatch        = errors.New("no network location within search radius")
	ErrAmbiguousMatch = errors.New("ambiguous network location")
)

// Matcher resolves input coordinates to network candidates.
type Matcher struct {
	router    Router
	radius    float64
	threshold float64
}

// NewMatcher creates a matcher with the default radius and name threshold.
func NewMatcher(router Router) *Matcher {
	return &Matcher{
		router:    router,
		radius:    DefaultSearchRadius,
		threshold: DefaultNameThreshold,
	}
}

// Match returns one candidate per matched coordinate, in input order, and
// the errors of the coordinates that could not be matched keyed by index.
// attributes may be nil or hold one set per coordinate.
func (m *Matcher) Match(p *profile.Profile, coordinates []geo.Coordinate, attributes []geo.Attributes) ([]network.Candidate, map[int]error) {
	candidates := make([]network.Candidate, 0, len(coordinates))
	errs := make(map[int]error)
	for i, c := range coordinates {
		var name string
		if i < len(attributes) {
			name = strings.TrimSpace(attributes[i].Get("name"))
		}
		candidate, err := m.matchOne(p, c, name)
		if err != nil {
			errs[i] = fmt.Errorf("location %d (%s): %w", i, c, err)
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, errs
}

func (m *Matcher) matchOne(p *profile.Profile, c geo.Coordinate, name string) (network.Candidate, error) {
	found, err := m.router.FindCandidates(p, c, m.radius)
	if err != nil {
		return network.Candidate{}, err
	}
	if len(found) == 0 {
		return network.Candidate{}, ErrNoMatch
	}

	best := found[0]
	ties := []network.Candidate{best}
	for _, candidate := range found[1:] {
		if candidate.Distance-best.Distance <= tieTolerance {
			ties = append(ties, candidate)
		}
	}
	if len(ties) == 1 || name == "" {
		return best, nil
	}

	named := false
	for _, candidate := range ties {
		edgeName := strings.TrimSpace(m.router.EdgeAttributes(candidate.EdgeID).Get("name"))
		if edgeName == "" {
			continue
		}
		named = true
		if Similarity(name, edgeName) > m.threshold {
			return candidate, nil
		}
	}
	if !named {
		return best, nil
	}
	return network.Candidate{}, fmt.Errorf("%w: %d edges tie and none is named like %q", ErrAmbiguousMatch, len(ties), name)
}
