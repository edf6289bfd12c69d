package network

import (
	"github.com/merrydance/logistics/geo"
	"github.com/tidwall/rtree"
)

// edgeIndex r-tree over edge bounding boxes, points as [lon, lat].
type edgeIndex struct {
	tree rtree.RTreeG[int]
}

func newEdgeIndex(n *Network) *edgeIndex {
	idx := &edgeIndex{}
	for _, e := range n.Edges {
		box := geo.BoxOf(n.Vertices[e.From], n.Vertices[e.To])
		idx.tree.Insert(
			[2]float64{box.MinLon, box.MinLat},
			[2]float64{box.MaxLon, box.MaxLat},
			e.ID,
		)
	}
	return idx
}

// Query returns the ids of edges whose box intersects the given box.
func (idx *edgeIndex) Query(box geo.BoundingBox) []int {
	var edges []int
	idx.tree.Search(
		[2]float64{box.MinLon, box.MinLat},
		[2]float64{box.MaxLon, box.MaxLat},
		func(_, _ [2]float64, id int) bool {
			edges = append(edges, id)
			return true
		},
	)
	return edges
}

// Len number of indexed edges.
func (idx *edgeIndex) Len() int {
	return idx.tree.Len()
}
