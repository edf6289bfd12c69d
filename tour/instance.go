// Package tour builds tours over the network of one instance: it matches
// the input locations, computes the weight matrix, solves the tour and
// assembles the final route.
package tour

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
	"github.com/merrydance/logistics/tsp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/merrydance/logistics/tour"

// Parameters optional solver parameters; "seed" fixes the random source.
type Parameters map[string]any

// Seed returns the "seed" parameter when set to a number.
func (p Parameters) Seed() (int64, bool) {
	switch v := p["seed"].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		seed, err := strconv.ParseInt(v, 10, 64)
		return seed, err == nil
	}
	return 0, false
}

// Instance a named, loaded network that can calculate tours.
type Instance interface {
	Name() string
	Supports(p *profile.Profile) bool
	Calculate(ctx context.Context, p *profile.Profile, locations []geo.Coordinate, attributes []geo.Attributes, closed *bool, params Parameters) result.Result[*route.Route]
}

// DefaultInstance Instance over a Router and a Solver.
type DefaultInstance struct {
	name     string
	router   Router
	solver   Solver
	matcher  *Matcher
	settings tsp.Settings
}

// NewInstance creates an instance with the default solver settings.
func NewInstance(name string, router Router, solver Solver) *DefaultInstance {
	return &DefaultInstance{
		name:     name,
		router:   router,
		solver:   solver,
		matcher:  NewMatcher(router),
		settings: tsp.DefaultSettings(),
	}
}

// Name the instance name.
func (i *DefaultInstance) Name() string {
	return i.name
}

// Supports reports whether the network carries data for the profile.
func (i *DefaultInstance) Supports(p *profile.Profile) bool {
	return p != nil && i.router.SupportsAll(p)
}

// Calculate builds a tour visiting all locations. Each step fails the whole
// calculation; no partial tours are returned.
func (i *DefaultInstance) Calculate(ctx context.Context, p *profile.Profile, locations []geo.Coordinate, attributes []geo.Attributes, closed *bool, params Parameters) result.Result[*route.Route] {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "tour.Calculate", trace.WithAttributes(
		attribute.String("instance", i.name),
		attribute.String("profile", p.Name),
		attribute.Int("locations", len(locations)),
		attribute.String("topology", TopologyOf(closed).String()),
	))
	defer span.End()

	res := i.calculate(ctx, p, locations, attributes, closed, params)

	outcome := "success"
	if res.IsError() {
		outcome = KindOf(res.Err()).String()
		span.RecordError(res.Err())
		span.SetStatus(codes.Error, res.ErrorMessage())
	}
	calculationsTotal.WithLabelValues(i.name, outcome).Inc()
	calculationDuration.WithLabelValues(i.name).Observe(time.Since(start).Seconds())
	return res
}

func (i *DefaultInstance) calculate(ctx context.Context, p *profile.Profile, locations []geo.Coordinate, attributes []geo.Attributes, closed *bool, params Parameters) result.Result[*route.Route] {
	if len(locations) < 2 {
		return result.Fail[*route.Route](NewError(KindValidation, "At least two locations are required.", nil))
	}
	if attributes != nil && len(attributes) != len(locations) {
		return result.Fail[*route.Route](NewError(KindValidation, "Tags do not match locations.", nil))
	}
	tracer := otel.Tracer(tracerName)

	// match
	_, span := tracer.Start(ctx, "tour.match")
	candidates, errs := i.matcher.Match(p, locations, attributes)
	span.SetAttributes(attribute.Int("unmatched", len(errs)))
	span.End()
	if len(errs) > 0 || len(candidates) < len(locations) {
		return result.Fail[*route.Route](NewError(KindMatch, MessageMatrixFailed, joinIndexed(errs)))
	}

	// weights
	matrixCtx, span := tracer.Start(ctx, "tour.matrix")
	matrix, err := i.router.CalculateMatrix(matrixCtx, p, candidates)
	span.End()
	if err != nil {
		if ctx.Err() != nil {
			return result.Fail[*route.Route](NewError(KindSolverNonConvergence, MessageRouteFailed, err))
		}
		return result.Fail[*route.Route](NewError(KindMatch, MessageMatrixFailed, err))
	}
	if len(matrix.Errors) > 0 || len(matrix.Candidates) < len(locations) {
		return result.Fail[*route.Route](NewError(KindMatch, MessageMatrixFailed, joinIndexed(matrix.Errors)))
	}

	// solve
	problem := BuildProblem(len(matrix.Candidates), closed)
	settings := i.settings
	if seed, ok := params.Seed(); ok {
		settings.Seed = seed
	}
	solveCtx, span := tracer.Start(ctx, "tour.solve", trace.WithAttributes(attribute.Int("size", problem.Size)))
	solution, err := i.solver.Solve(solveCtx, problem, matrix.Weights, settings)
	span.End()
	if err != nil {
		return result.Fail[*route.Route](NewError(KindSolverNonConvergence, MessageRouteFailed, err))
	}
	if err := checkTour(solution, problem); err != nil {
		return result.Fail[*route.Route](NewError(KindSolverNonConvergence, MessageRouteFailed, err))
	}

	// assemble
	assembleCtx, span := tracer.Start(ctx, "tour.assemble")
	defer span.End()
	return i.assemble(assembleCtx, p, matrix.Candidates, attributes, solution.Order, problem.Closed())
}

func (i *DefaultInstance) assemble(ctx context.Context, p *profile.Profile, candidates []network.Candidate, attributes []geo.Attributes, order []int, closed bool) result.Result[*route.Route] {
	if closed {
		order = append(append([]int(nil), order...), order[0])
	}

	var full *route.Route
	for k := 1; k < len(order); k++ {
		leg := i.router.BuildRoute(ctx, p, candidates[order[k-1]], candidates[order[k]])
		if leg.IsError() {
			return result.Fail[*route.Route](NewError(KindAssembly, MessageRouteFailed, leg.Err()))
		}
		joined, err := route.Concatenate(full, leg.Value())
		if err != nil {
			return result.Fail[*route.Route](NewError(KindAssembly, MessageRouteFailed, err))
		}
		full = joined
	}
	if full == nil || len(full.Stops) != len(order) {
		return result.Fail[*route.Route](NewError(KindAssembly, MessageRouteFailed, fmt.Errorf("route has unexpected stops")))
	}

	for k, index := range order {
		stop := &full.Stops[k]
		if index < len(attributes) {
			for _, a := range attributes[index].Items() {
				stop.Attributes.AddOrReplace(a.Key, a.Value)
			}
		}
		stop.Attributes.AddOrReplace("index", strconv.Itoa(index))
	}
	return result.Ok(full)
}

// checkTour verifies the solver honoured the problem.
func checkTour(t tsp.Tour, problem tsp.Problem) error {
	if len(t.Order) != problem.Size {
		return fmt.Errorf("tour visits %d of %d locations", len(t.Order), problem.Size)
	}
	seen := make([]bool, problem.Size)
	for _, index := range t.Order {
		if index < 0 || index >= problem.Size || seen[index] {
			return fmt.Errorf("tour is not a permutation: %v", t.Order)
		}
		seen[index] = true
	}
	if t.Order[0] != problem.First {
		return fmt.Errorf("tour starts at %d, want %d", t.Order[0], problem.First)
	}
	if problem.Last != nil && !problem.Closed() && t.Order[len(t.Order)-1] != *problem.Last {
		return fmt.Errorf("tour ends at %d, want %d", t.Order[len(t.Order)-1], *problem.Last)
	}
	return nil
}

func joinIndexed(errs map[int]error) error {
	indices := make([]int, 0, len(errs))
	for index := range errs {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	joined := make([]error, 0, len(indices))
	for _, index := range indices {
		joined = append(joined, errs[index])
	}
	return errors.Join(joined...)
}
