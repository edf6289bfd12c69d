package network

import (
	"container/heap"
	"context"
	"math"

	"github.com/merrydance/logistics/profile"
)

// hop how a vertex was reached: over edge from vertex prev. edge -1 marks a
// vertex seeded directly from the source candidate.
type hop struct {
	edge int
	prev int
}

// tree shortest-path tree from one source candidate.
type tree struct {
	source Candidate
	dist   map[int]float64
	prev   map[int]hop
}

func (t *tree) distance(vertex int) float64 {
	if d, ok := t.dist[vertex]; ok {
		return d
	}
	return math.Inf(1)
}

// search runs a lazy decrease-key Dijkstra from the source candidate until
// all targets vertices are settled or the queue is empty.
func search(ctx context.Context, n *Network, factors []profile.Factor, source Candidate, targets map[int]struct{}) (*tree, error) {
	t := &tree{
		source: source,
		dist:   make(map[int]float64),
		prev:   make(map[int]hop),
	}
	settled := make(map[int]bool)
	pq := &vertexPQ{}
	heap.Init(pq)

	e := n.Edges[source.EdgeID]
	f := factors[source.EdgeID]
	if f.Allows(false) {
		t.seed(pq, e.From, source.Offset*e.Distance*f.Value)
	}
	if f.Allows(true) {
		t.seed(pq, e.To, (1-source.Offset)*e.Distance*f.Value)
	}

	remaining := len(targets)
	pops := 0
	for pq.Len() > 0 {
		pops++
		if pops%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := heap.Pop(pq).(*vertexItem)
		u := item.vertex
		if settled[u] || item.dist > t.dist[u] {
			continue
		}
		settled[u] = true
		if _, ok := targets[u]; ok {
			remaining--
			if remaining == 0 {
				break
			}
		}

		for _, adj := range n.adjacency[u] {
			f := factors[adj.edge]
			if !f.Allows(adj.forward) {
				continue
			}
			edge := n.Edges[adj.edge]
			v := edge.To
			if !adj.forward {
				v = edge.From
			}
			if settled[v] {
				continue
			}
			d := t.dist[u] + edge.Distance*f.Value
			if d < t.distance(v) {
				t.dist[v] = d
				t.prev[v] = hop{edge: adj.edge, prev: u}
				heap.Push(pq, &vertexItem{vertex: v, dist: d})
			}
		}
	}
	return t, nil
}

func (t *tree) seed(pq *vertexPQ, vertex int, d float64) {
	if d >= t.distance(vertex) {
		return
	}
	t.dist[vertex] = d
	t.prev[vertex] = hop{edge: -1, prev: -1}
	heap.Push(pq, &vertexItem{vertex: vertex, dist: d})
}

// entry how the target candidate is reached from the tree.
type entry int

const (
	entryNone entry = iota
	entryDirect
	entryFrom
	entryTo
)

// costTo returns the cost from the tree source to the target candidate.
func (t *tree) costTo(n *Network, factors []profile.Factor, target Candidate) (float64, entry) {
	best, how := math.Inf(1), entryNone
	e := n.Edges[target.EdgeID]
	f := factors[target.EdgeID]

	if t.source.EdgeID == target.EdgeID {
		delta := target.Offset - t.source.Offset
		if delta >= 0 && f.Allows(true) {
			best, how = delta*e.Distance*f.Value, entryDirect
		} else if delta <= 0 && f.Allows(false) {
			best, how = -delta*e.Distance*f.Value, entryDirect
		}
	}
	if f.Allows(true) {
		if d := t.distance(e.From) + target.Offset*e.Distance*f.Value; d < best {
			best, how = d, entryFrom
		}
	}
	if f.Allows(false) {
		if d := t.distance(e.To) + (1-target.Offset)*e.Distance*f.Value; d < best {
			best, how = d, entryTo
		}
	}
	return best, how
}

// path reconstructs the vertex sequence leading to the target.
func (t *tree) path(n *Network, factors []profile.Factor, target Candidate) (Path, bool) {
	weight, how := t.costTo(n, factors, target)
	p := Path{Source: t.source, Target: target, Weight: weight}
	switch how {
	case entryNone:
		return p, false
	case entryDirect:
		p.Direct = true
		return p, true
	}

	last := n.Edges[target.EdgeID].From
	if how == entryTo {
		last = n.Edges[target.EdgeID].To
	}
	vertices := []int{last}
	var edges []int
	for v := last; ; {
		h := t.prev[v]
		if h.edge < 0 {
			break
		}
		edges = append(edges, h.edge)
		vertices = append(vertices, h.prev)
		v = h.prev
	}
	reverse(vertices)
	reverse(edges)
	p.Vertices = vertices
	p.Edges = edges
	return p, true
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

type vertexItem struct {
	vertex int
	dist   float64
}

// vertexPQ min-heap on dist; stale entries are skipped when popped.
type vertexPQ []*vertexItem

func (pq vertexPQ) Len() int            { return len(pq) }
func (pq vertexPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq vertexPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *vertexPQ) Push(x interface{}) { *pq = append(*pq, x.(*vertexItem)) }
func (pq *vertexPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
