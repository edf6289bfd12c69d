package network

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
	"golang.org/x/sync/errgroup"
)

// Candidate an input coordinate projected on a network edge.
type Candidate struct {
	EdgeID int `json:"edge"`
	// Offset fraction along the edge from its From vertex.
	Offset     float64        `json:"offset"`
	Location   geo.Coordinate `json:"location"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Distance   float64        `json:"distance"`
}

// Path the vertices and edges between two candidates.
// A Direct path stays on the shared edge and has no vertices.
type Path struct {
	Source   Candidate
	Target   Candidate
	Vertices []int
	Edges    []int
	Weight   float64
	Direct   bool
}

// Router routing primitives over one network.
type Router struct {
	Network     *Network
	Factors     *FactorCache
	Builder     RouteBuilder
	Parallelism int
}

// NewRouter creates a router. A nil builder defaults to FastRouteBuilder.
func NewRouter(n *Network, factors *FactorCache, builder RouteBuilder) *Router {
	if factors == nil {
		factors = NewFactorCache(n)
	}
	if builder == nil {
		builder = FastRouteBuilder{}
	}
	return &Router{
		Network:     n,
		Factors:     factors,
		Builder:     builder,
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// SupportsAll reports whether the network carries data for every profile.
func (r *Router) SupportsAll(profiles ...*profile.Profile) bool {
	for _, p := range profiles {
		if p == nil || p.Vehicle == nil || !r.Network.Supports(p.Vehicle.Name) {
			return false
		}
	}
	return true
}

// FindCandidates returns projections of c on edges traversable by the
// profile within radius meters, closest first.
func (r *Router) FindCandidates(p *profile.Profile, c geo.Coordinate, radius float64) ([]Candidate, error) {
	if !r.SupportsAll(p) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.Name)
	}
	factors := r.Factors.Get(p)

	var candidates []Candidate
	for _, id := range r.Network.index.Query(geo.BoxAround(c, radius)) {
		if !factors[id].CanTraverse() {
			continue
		}
		from, to := r.Network.Segment(id)
		offset, location := geo.ProjectOnSegment(c, from, to)
		d := geo.Distance(c, location)
		if d > radius {
			continue
		}
		candidates = append(candidates, Candidate{
			EdgeID:     id,
			Offset:     offset,
			Location:   location,
			Coordinate: c,
			Distance:   d,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance == candidates[j].Distance {
			return candidates[i].EdgeID < candidates[j].EdgeID
		}
		return candidates[i].Distance < candidates[j].Distance
	})
	return candidates, nil
}

// EdgeAttributes returns the attributes of an edge.
func (r *Router) EdgeAttributes(edgeID int) geo.Attributes {
	if edgeID < 0 || edgeID >= len(r.Network.Edges) {
		return geo.Attributes{}
	}
	return r.Network.Edges[edgeID].Attributes
}

// Matrix all-pairs weights between the candidates that could be routed.
// Indices maps each refined candidate back to its input position; Errors
// holds the input positions that were dropped.
type Matrix struct {
	Weights    [][]float64
	Candidates []Candidate
	Indices    []int
	Errors     map[int]error
}

// CalculateMatrix computes the weights between all candidates with one
// search per source, run in parallel. Candidates that cannot reach or be
// reached from the others are removed and reported in Errors.
func (r *Router) CalculateMatrix(ctx context.Context, p *profile.Profile, candidates []Candidate) (*Matrix, error) {
	if !r.SupportsAll(p) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.Name)
	}
	factors := r.Factors.Get(p)

	targets := make(map[int]struct{}, len(candidates)*2)
	for _, c := range candidates {
		e := r.Network.Edges[c.EdgeID]
		targets[e.From] = struct{}{}
		targets[e.To] = struct{}{}
	}

	weights := make([][]float64, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Parallelism, 1))
	for i := range candidates {
		g.Go(func() error {
			t, err := search(gctx, r.Network, factors, candidates[i], targets)
			if err != nil {
				return err
			}
			row := make([]float64, len(candidates))
			for j := range candidates {
				if i == j {
					continue
				}
				row[j], _ = t.costTo(r.Network, factors, candidates[j])
			}
			weights[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calculate matrix: %w", err)
	}
	return refine(weights, candidates), nil
}

// refine drops the candidate with the most unreachable pairs until the
// matrix is fully connected.
func refine(weights [][]float64, candidates []Candidate) *Matrix {
	alive := make([]bool, len(candidates))
	for i := range alive {
		alive[i] = true
	}
	errs := make(map[int]error)
	for {
		worst, worstCount := -1, 0
		for i := range candidates {
			if !alive[i] {
				continue
			}
			count := 0
			for j := range candidates {
				if i == j || !alive[j] {
					continue
				}
				if math.IsInf(weights[i][j], 1) {
					count++
				}
				if math.IsInf(weights[j][i], 1) {
					count++
				}
			}
			if count > 0 && count >= worstCount {
				worst, worstCount = i, count
			}
		}
		if worst < 0 {
			break
		}
		alive[worst] = false
		errs[worst] = fmt.Errorf("location %d is not reachable", worst)
	}

	m := &Matrix{Errors: errs}
	for i := range candidates {
		if alive[i] {
			m.Indices = append(m.Indices, i)
			m.Candidates = append(m.Candidates, candidates[i])
		}
	}
	m.Weights = make([][]float64, len(m.Indices))
	for x, i := range m.Indices {
		m.Weights[x] = make([]float64, len(m.Indices))
		for y, j := range m.Indices {
			m.Weights[x][y] = weights[i][j]
		}
	}
	return m
}

// Path finds the cheapest path between two candidates.
func (r *Router) Path(ctx context.Context, p *profile.Profile, source, target Candidate) (Path, error) {
	factors := r.Factors.Get(p)
	e := r.Network.Edges[target.EdgeID]
	targets := map[int]struct{}{e.From: {}, e.To: {}}

	t, err := search(ctx, r.Network, factors, source, targets)
	if err != nil {
		return Path{}, err
	}
	path, ok := t.path(r.Network, factors, target)
	if !ok {
		return Path{}, fmt.Errorf("no path from edge %d to edge %d", source.EdgeID, target.EdgeID)
	}
	return path, nil
}

// BuildRoute computes the path between two candidates and assembles it with
// the configured route builder.
func (r *Router) BuildRoute(ctx context.Context, p *profile.Profile, source, target Candidate) result.Result[*route.Route] {
	path, err := r.Path(ctx, p, source, target)
	if err != nil {
		return result.Fail[*route.Route](err)
	}
	factors := r.Factors.Get(p)
	return r.Builder.Build(r.Network, p, func(edgeID int) profile.Factor {
		return factors[edgeID]
	}, source, target, path)
}
