// Package route holds assembled routes and the modal aggregation applied to
// simplified responses.
package route

import (
	"errors"
	"fmt"

	"github.com/merrydance/logistics/geo"
)

// ErrEmptyRoute route without shape points.
var ErrEmptyRoute = errors.New("route has no shape")

// Meta describes the part of the shape ending at index Shape.
type Meta struct {
	Shape      int            `json:"shape"`
	Attributes geo.Attributes `json:"attributes"`
	Distance   float64        `json:"distance"`
	Time       float64        `json:"time"`
}

// Stop a visited location on the shape.
type Stop struct {
	Shape      int            `json:"shape"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Attributes geo.Attributes `json:"attributes"`
	Distance   float64        `json:"distance"`
	Time       float64        `json:"time"`
}

// Route an ordered polyline with per-segment metadata and stops.
type Route struct {
	Profile       string           `json:"profile"`
	Shape         []geo.Coordinate `json:"shape"`
	ShapeMeta     []Meta           `json:"shapeMeta"`
	Stops         []Stop           `json:"stops"`
	TotalDistance float64          `json:"distance"`
	TotalTime     float64          `json:"time"`
}

// Start first shape point.
func (r *Route) Start() geo.Coordinate {
	return r.Shape[0]
}

// End last shape point.
func (r *Route) End() geo.Coordinate {
	return r.Shape[len(r.Shape)-1]
}

// Concatenate appends b to a. The first point of b must coincide with the
// last point of a; it is not duplicated.
func Concatenate(a, b *Route) (*Route, error) {
	if a == nil || len(a.Shape) == 0 {
		return clone(b), nil
	}
	if b == nil || len(b.Shape) == 0 {
		return clone(a), nil
	}
	if a.Profile != b.Profile {
		return nil, fmt.Errorf("cannot concatenate %s route with %s route", a.Profile, b.Profile)
	}
	if geo.Distance(a.End(), b.Start()) > 0.1 {
		return nil, fmt.Errorf("routes do not share an endpoint: %s != %s", a.End(), b.Start())
	}

	out := clone(a)
	offset := len(a.Shape) - 1
	out.Shape = append(out.Shape, b.Shape[1:]...)
	for _, m := range b.ShapeMeta {
		if m.Shape == 0 {
			continue
		}
		m.Shape += offset
		out.ShapeMeta = append(out.ShapeMeta, m)
	}
	for i, s := range b.Stops {
		s.Shape += offset
		s.Distance += a.TotalDistance
		s.Time += a.TotalTime
		// shared endpoint stop already present
		if i == 0 && len(out.Stops) > 0 && out.Stops[len(out.Stops)-1].Shape == s.Shape {
			continue
		}
		out.Stops = append(out.Stops, s)
	}
	out.TotalDistance += b.TotalDistance
	out.TotalTime += b.TotalTime
	return out, nil
}

func clone(r *Route) *Route {
	if r == nil {
		return nil
	}
	out := *r
	out.Shape = append([]geo.Coordinate(nil), r.Shape...)
	out.ShapeMeta = append([]Meta(nil), r.ShapeMeta...)
	out.Stops = append([]Stop(nil), r.Stops...)
	return &out
}
