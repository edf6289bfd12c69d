package tour

import (
	"context"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
	"github.com/merrydance/logistics/tsp"
)

// Router routing capability of an instance.
type Router interface {
	SupportsAll(profiles ...*profile.Profile) bool
	FindCandidates(p *profile.Profile, c geo.Coordinate, radius float64) ([]network.Candidate, error)
	EdgeAttributes(edgeID int) geo.Attributes
	CalculateMatrix(ctx context.Context, p *profile.Profile, candidates []network.Candidate) (*network.Matrix, error)
	BuildRoute(ctx context.Context, p *profile.Profile, source, target network.Candidate) result.Result[*route.Route]
}

// Solver tour solver.
type Solver interface {
	Solve(ctx context.Context, problem tsp.Problem, weights [][]float64, settings tsp.Settings) (tsp.Tour, error)
}

var (
	_ Router = (*network.Router)(nil)
	_ Solver = tsp.GASolver{}
)
