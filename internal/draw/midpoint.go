package draw

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Midpoint averages a and b in web mercator and unprojects the result, so
// insertion points sit where the edge is drawn rather than at the naive
// lon/lat average.
func Midpoint(a, b orb.Point) orb.Point {
	ma := project.WGS84.ToMercator(a)
	mb := project.WGS84.ToMercator(b)
	return project.Mercator.ToWGS84(orb.Point{(ma[0] + mb[0]) / 2, (ma[1] + mb[1]) / 2})
}

// midpoints returns the insertion points between consecutive vertices, plus
// the closing edge when closed and there are at least 3 vertices. The i-th
// result belongs after vertex i.
func midpoints(vertices []orb.Point, closed bool) []orb.Point {
	n := len(vertices)
	if n < 2 {
		return nil
	}
	out := make([]orb.Point, 0, n)
	for i := 0; i < n-1; i++ {
		out = append(out, Midpoint(vertices[i], vertices[i+1]))
	}
	if closed && n > 2 {
		out = append(out, Midpoint(vertices[n-1], vertices[0]))
	}
	return out
}
