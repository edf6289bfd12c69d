package network

import (
	"fmt"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
)

// FactorFunc edge factor lookup for one profile.
type FactorFunc func(edgeID int) profile.Factor

// RouteBuilder turns a path into a route.
type RouteBuilder interface {
	Build(n *Network, p *profile.Profile, factor FactorFunc, source, target Candidate, path Path) result.Result[*route.Route]
}

// RouteBuilderFunc adapts a function to RouteBuilder.
type RouteBuilderFunc func(n *Network, p *profile.Profile, factor FactorFunc, source, target Candidate, path Path) result.Result[*route.Route]

// Build calls f.
func (f RouteBuilderFunc) Build(n *Network, p *profile.Profile, factor FactorFunc, source, target Candidate, path Path) result.Result[*route.Route] {
	return f(n, p, factor, source, target, path)
}

// FastRouteBuilder builds a route with straight segments between the
// projected candidates and the path vertices.
type FastRouteBuilder struct{}

// Build assembles the route.
func (FastRouteBuilder) Build(n *Network, p *profile.Profile, factor FactorFunc, source, target Candidate, path Path) result.Result[*route.Route] {
	if !path.Direct && len(path.Vertices) == 0 {
		return result.Failf[*route.Route](fmt.Sprintf("empty path between edge %d and edge %d", source.EdgeID, target.EdgeID))
	}

	shape := []geo.Coordinate{source.Location}
	edges := []int{}
	if !path.Direct {
		for i, v := range path.Vertices {
			shape = append(shape, n.Vertices[v])
			if i == 0 {
				edges = append(edges, source.EdgeID)
			} else {
				edges = append(edges, path.Edges[i-1])
			}
		}
	}
	shape = append(shape, target.Location)
	edges = append(edges, target.EdgeID)

	r := &route.Route{
		Profile:   p.Name,
		Shape:     shape,
		ShapeMeta: []route.Meta{{Shape: 0, Attributes: geo.NewAttributes("profile", p.Name)}},
	}
	for i := 1; i < len(shape); i++ {
		edgeID := edges[i-1]
		attributes := n.Edges[edgeID].Attributes
		distance := geo.Distance(shape[i-1], shape[i])
		var seconds float64
		if speed := p.Speed(attributes); speed > 0 {
			seconds = distance / speed
		}
		meta := route.Meta{Shape: i, Distance: distance, Time: seconds}
		meta.Attributes = geo.NewAttributes("profile", p.Name)
		for _, a := range attributes.Items() {
			meta.Attributes.AddOrReplace(a.Key, a.Value)
		}
		r.ShapeMeta = append(r.ShapeMeta, meta)
		r.TotalDistance += distance
		r.TotalTime += seconds
	}
	r.Stops = []route.Stop{
		{Shape: 0, Coordinate: source.Location},
		{Shape: len(shape) - 1, Coordinate: target.Location, Distance: r.TotalDistance, Time: r.TotalTime},
	}
	return result.Ok(r)
}
