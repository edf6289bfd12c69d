package network

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/profile"
	"github.com/stretchr/testify/require"
)

var origin = geo.NewCoordinate(51.0, 4.0)

func newTestGrid(t *testing.T) *Network {
	n, err := NewGrid("test", origin, 3, 3, 100)
	require.NoError(t, err)
	return n
}

func mustProfile(t *testing.T, name string) *profile.Profile {
	p, ok := profile.TryGet(name)
	require.True(t, ok)
	return p
}

// midpoint returns a coordinate a few meters north of the middle of edge a-b.
func midpoint(n *Network, a, b int) geo.Coordinate {
	c := geo.Interpolate(n.Vertices[a], n.Vertices[b], 0.5)
	c.Latitude += 0.00003
	return c
}

func candidateAt(t *testing.T, r *Router, p *profile.Profile, c geo.Coordinate) Candidate {
	candidates, err := r.FindCandidates(p, c, 200)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	return candidates[0]
}

func TestNewValidates(t *testing.T) {
	vertices := []geo.Coordinate{origin, geo.NewCoordinate(51.001, 4.0)}

	_, err := New("bad", nil, vertices, []Edge{{From: 0, To: 5}})
	require.ErrorIs(t, err, ErrInvalidNetwork)

	_, err = New("bad", nil, vertices, []Edge{{From: 1, To: 1}})
	require.ErrorIs(t, err, ErrInvalidNetwork)

	_, err = New("bad", nil, []geo.Coordinate{geo.NewCoordinate(91, 0)}, nil)
	require.ErrorIs(t, err, ErrInvalidNetwork)

	n, err := New("ok", []string{"car"}, vertices, []Edge{{From: 0, To: 1}})
	require.NoError(t, err)
	require.InDelta(t, 111.2, n.Edges[0].Distance, 0.5)
	require.True(t, n.Supports("car"))
	require.False(t, n.Supports("bicycle"))
}

func TestSaveLoad(t *testing.T) {
	n := newTestGrid(t)
	dir := t.TempDir()

	for _, name := range []string{"grid.json", "grid.json.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, n))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, n.Name, loaded.Name)
		require.Equal(t, n.Vehicles, loaded.Vehicles)
		require.Len(t, loaded.Vertices, 9)
		require.Len(t, loaded.Edges, 12)
		require.Equal(t, "Row 0", loaded.Edges[0].Attributes.Get("name"))
		require.InDelta(t, n.Edges[3].Distance, loaded.Edges[3].Distance, 1e-9)
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestFindCandidates(t *testing.T) {
	n := newTestGrid(t)
	r := NewRouter(n, nil, nil)
	car := mustProfile(t, "car")

	c := midpoint(n, 0, 1)
	candidates, err := r.FindCandidates(car, c, 200)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	best := candidates[0]
	require.Equal(t, "Row 0", r.EdgeAttributes(best.EdgeID).Get("name"))
	require.InDelta(t, 0.5, best.Offset, 0.01)
	require.InDelta(t, 3.3, best.Distance, 0.5)
	for i := 1; i < len(candidates); i++ {
		require.LessOrEqual(t, candidates[i-1].Distance, candidates[i].Distance)
	}

	far := geo.NewCoordinate(51.05, 4.0)
	candidates, err = r.FindCandidates(car, far, 200)
	require.NoError(t, err)
	require.Empty(t, candidates)

	boat := &profile.Profile{Name: "boat", Vehicle: &profile.Vehicle{Name: "boat"}}
	_, err = r.FindCandidates(boat, c, 200)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestCalculateMatrix(t *testing.T) {
	n := newTestGrid(t)
	r := NewRouter(n, nil, nil)
	shortest := mustProfile(t, "car.shortest")

	candidates := []Candidate{
		candidateAt(t, r, shortest, midpoint(n, 0, 1)),
		candidateAt(t, r, shortest, midpoint(n, 6, 7)),
		candidateAt(t, r, shortest, midpoint(n, 4, 5)),
	}
	m, err := r.CalculateMatrix(context.Background(), shortest, candidates)
	require.NoError(t, err)
	require.Empty(t, m.Errors)
	require.Equal(t, []int{0, 1, 2}, m.Indices)

	for i := range m.Weights {
		require.Zero(t, m.Weights[i][i])
		for j := range m.Weights {
			require.InDelta(t, m.Weights[i][j], m.Weights[j][i], 1e-6)
		}
	}
	require.InDelta(t, 300.5, m.Weights[0][1], 2)
	require.InDelta(t, 200.4, m.Weights[0][2], 2)

	fastest := mustProfile(t, "car.fastest")
	m, err = r.CalculateMatrix(context.Background(), fastest, candidates)
	require.NoError(t, err)
	require.InDelta(t, 300.5*3.6/30, m.Weights[0][1], 0.5)
}

func TestCalculateMatrixUnreachable(t *testing.T) {
	vertices := []geo.Coordinate{
		origin,
		geo.NewCoordinate(51.0, 4.002),
		geo.NewCoordinate(51.0, 4.02),
		geo.NewCoordinate(51.0, 4.022),
	}
	edges := []Edge{
		{From: 0, To: 1, Attributes: geo.NewAttributes("highway", "residential")},
		{From: 2, To: 3, Attributes: geo.NewAttributes("highway", "residential")},
	}
	n, err := New("islands", []string{"car"}, vertices, edges)
	require.NoError(t, err)
	r := NewRouter(n, nil, nil)
	car := mustProfile(t, "car")

	candidates := []Candidate{
		candidateAt(t, r, car, geo.NewCoordinate(51.0, 4.0005)),
		candidateAt(t, r, car, geo.NewCoordinate(51.0, 4.0015)),
		candidateAt(t, r, car, geo.NewCoordinate(51.0, 4.021)),
	}
	m, err := r.CalculateMatrix(context.Background(), car, candidates)
	require.NoError(t, err)
	require.Contains(t, m.Errors, 2)
	require.Equal(t, []int{0, 1}, m.Indices)
	require.Len(t, m.Weights, 2)
	require.False(t, math.IsInf(m.Weights[0][1], 1))
}

func TestCalculateMatrixOneway(t *testing.T) {
	vertices := []geo.Coordinate{origin, geo.NewCoordinate(51.0, 4.002)}
	edges := []Edge{{From: 0, To: 1, Attributes: geo.NewAttributes("highway", "residential", "oneway", "yes")}}
	n, err := New("oneway", []string{"car", "pedestrian"}, vertices, edges)
	require.NoError(t, err)
	r := NewRouter(n, nil, nil)
	car := mustProfile(t, "car")

	a := candidateAt(t, r, car, geo.NewCoordinate(51.0, 4.0005))
	b := candidateAt(t, r, car, geo.NewCoordinate(51.0, 4.0015))

	m, err := r.CalculateMatrix(context.Background(), car, []Candidate{a, b})
	require.NoError(t, err)
	require.Contains(t, m.Errors, 1)
	require.Equal(t, []int{0}, m.Indices)

	walk := mustProfile(t, "pedestrian")
	m, err = r.CalculateMatrix(context.Background(), walk, []Candidate{a, b})
	require.NoError(t, err)
	require.Empty(t, m.Errors)
}

func TestCalculateMatrixCancelled(t *testing.T) {
	n, err := NewGrid("big", origin, 60, 60, 50)
	require.NoError(t, err)
	r := NewRouter(n, nil, nil)
	car := mustProfile(t, "car")

	candidates := []Candidate{
		candidateAt(t, r, car, midpoint(n, 0, 1)),
		candidateAt(t, r, car, midpoint(n, 3598, 3599)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.CalculateMatrix(ctx, car, candidates)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildRoute(t *testing.T) {
	n := newTestGrid(t)
	factors := NewFactorCache(n)
	shortest := mustProfile(t, "car.shortest")
	require.NoError(t, factors.CalculateFor(shortest))
	require.True(t, factors.Contains("car.shortest"))
	require.Equal(t, []string{"car.shortest"}, factors.Profiles())

	r := NewRouter(n, factors, nil)
	source := candidateAt(t, r, shortest, midpoint(n, 0, 1))
	target := candidateAt(t, r, shortest, midpoint(n, 6, 7))

	res := r.BuildRoute(context.Background(), shortest, source, target)
	require.False(t, res.IsError(), res.ErrorMessage())
	rt := res.Value()
	require.Equal(t, "car.shortest", rt.Profile)
	require.Equal(t, source.Location, rt.Start())
	require.Equal(t, target.Location, rt.End())
	require.Len(t, rt.Stops, 2)
	require.Len(t, rt.ShapeMeta, len(rt.Shape))
	require.InDelta(t, 300.5, rt.TotalDistance, 2)
	require.Greater(t, rt.TotalTime, 0.0)

	// same edge
	direct := candidateAt(t, r, shortest, geo.Interpolate(n.Vertices[0], n.Vertices[1], 0.9))
	res = r.BuildRoute(context.Background(), shortest, source, direct)
	require.False(t, res.IsError())
	require.Len(t, res.Value().Shape, 2)
	require.InDelta(t, 40, res.Value().TotalDistance, 1)
}

func TestFactorCacheUnsupported(t *testing.T) {
	n := newTestGrid(t)
	boat := &profile.Profile{Name: "boat", Vehicle: &profile.Vehicle{Name: "boat"}}
	require.ErrorIs(t, NewFactorCache(n).CalculateFor(boat), ErrUnsupported)
}

func TestFactorCacheWarmAll(t *testing.T) {
	vertices := []geo.Coordinate{origin, geo.NewCoordinate(51.001, 4.0)}
	n, err := New("cars", []string{"car"}, vertices, []Edge{{From: 0, To: 1, Attributes: geo.NewAttributes("highway", "primary")}})
	require.NoError(t, err)

	factors := NewFactorCache(n)
	warmed := factors.WarmAll()
	require.Equal(t, warmed, factors.Profiles())
	require.Subset(t, warmed, []string{"car", "car.fastest", "car.shortest"})
	for _, name := range warmed {
		require.Equal(t, "car", mustProfile(t, name).Vehicle.Name)
	}
	require.False(t, factors.Contains("pedestrian"))
}

func TestFactorCacheGetDoesNotStore(t *testing.T) {
	n := newTestGrid(t)
	factors := NewFactorCache(n)
	car := mustProfile(t, "car")
	pedestrian := mustProfile(t, "pedestrian")
	require.NoError(t, factors.CalculateFor(car))

	got := factors.Get(pedestrian)
	require.Len(t, got, len(n.Edges))
	require.Equal(t, []string{"car"}, factors.Profiles())
	require.False(t, factors.Contains("pedestrian"))

	// concurrent reads of warmed and cold profiles leave the cache untouched
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			factors.Get(car)
			factors.Get(pedestrian)
		}()
	}
	wg.Wait()
	require.Equal(t, []string{"car"}, factors.Profiles())
}

func TestEdgeIndex(t *testing.T) {
	n := newTestGrid(t)
	require.Equal(t, len(n.Edges), n.index.Len())

	all := n.index.Query(geo.BoxOf(n.Vertices...))
	require.ElementsMatch(t, edgeIDs(n), all)

	near := n.index.Query(geo.BoxAround(midpoint(n, 0, 1), 10))
	require.NotEmpty(t, near)
	found := false
	for _, id := range near {
		e := n.Edges[id]
		if (e.From == 0 && e.To == 1) || (e.From == 1 && e.To == 0) {
			found = true
		}
	}
	require.True(t, found)

	require.Empty(t, n.index.Query(geo.BoxAround(geo.NewCoordinate(51.05, 4.0), 100)))
}

func edgeIDs(n *Network) []int {
	ids := make([]int, len(n.Edges))
	for i, e := range n.Edges {
		ids[i] = e.ID
	}
	return ids
}
