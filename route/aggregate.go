package route

// modeKey attribute naming the travel mode of a meta; metas without it
// travel in the route's profile.
const modeKey = "profile"

// Aggregate merges consecutive shape metas travelled in the same mode into
// one, summing distance and time. The start meta at shape 0 is kept on its
// own; shape and stops are kept as is.
func Aggregate(r *Route) (*Route, error) {
	if r == nil || len(r.Shape) == 0 {
		return nil, ErrEmptyRoute
	}

	out := clone(r)
	out.ShapeMeta = out.ShapeMeta[:0:0]
	for _, m := range r.ShapeMeta {
		n := len(out.ShapeMeta)
		if n > 0 && out.ShapeMeta[n-1].Shape > 0 && mode(out.ShapeMeta[n-1], r.Profile) == mode(m, r.Profile) {
			last := &out.ShapeMeta[n-1]
			last.Shape = m.Shape
			last.Distance += m.Distance
			last.Time += m.Time
			continue
		}
		out.ShapeMeta = append(out.ShapeMeta, m)
	}
	return out, nil
}

func mode(m Meta, profile string) string {
	if v, ok := m.Attributes.TryGetValue(modeKey); ok {
		return v
	}
	return profile
}
