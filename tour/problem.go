package tour

import "github.com/merrydance/logistics/tsp"

// Topology shape of the requested tour.
type Topology int

const (
	// TopologyOpenFixedEnd ends at the last input location.
	TopologyOpenFixedEnd Topology = iota
	// TopologyClosed returns to the first location.
	TopologyClosed
	// TopologyOpenFree ends wherever is cheapest.
	TopologyOpenFree
)

func (t Topology) String() string {
	switch t {
	case TopologyClosed:
		return "closed"
	case TopologyOpenFree:
		return "open"
	default:
		return "fixed-end"
	}
}

// TopologyOf derives the topology from the optional closed flag. An absent
// flag pins the end to the last location.
func TopologyOf(closed *bool) Topology {
	switch {
	case closed == nil:
		return TopologyOpenFixedEnd
	case *closed:
		return TopologyClosed
	default:
		return TopologyOpenFree
	}
}

// BuildProblem the solver problem for count matched locations. count must be
// at least 2.
func BuildProblem(count int, closed *bool) tsp.Problem {
	problem := tsp.Problem{Size: count, First: 0}
	switch TopologyOf(closed) {
	case TopologyClosed:
		last := 0
		problem.Last = &last
	case TopologyOpenFixedEnd:
		last := count - 1
		problem.Last = &last
	}
	return problem
}
