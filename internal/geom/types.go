package geom

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrEmpty is returned when a source holds no usable geometry.
var ErrEmpty = errors.New("no geometry found")

// Data is what a loader found: the features in source order and their
// bounds.
type Data struct {
	Features *geojson.FeatureCollection
	Bound    orb.Bound
}

// Counts returns how many points, lines and polygons the data holds, multi
// geometries counted by part.
func (d Data) Counts() (points, lines, polygons int) {
	for _, f := range d.Features.Features {
		p, l, g := count(f.Geometry)
		points += p
		lines += l
		polygons += g
	}
	return points, lines, polygons
}

func count(g orb.Geometry) (points, lines, polygons int) {
	switch g := g.(type) {
	case orb.Point:
		return 1, 0, 0
	case orb.MultiPoint:
		return len(g), 0, 0
	case orb.LineString:
		return 0, 1, 0
	case orb.MultiLineString:
		return 0, len(g), 0
	case orb.Polygon, orb.Ring, orb.Bound:
		return 0, 0, 1
	case orb.MultiPolygon:
		return 0, 0, len(g)
	case orb.Collection:
		for _, part := range g {
			p, l, pg := count(part)
			points += p
			lines += l
			polygons += pg
		}
	}
	return points, lines, polygons
}

// newData wraps fc and computes its bounds. Features without geometry are
// dropped.
func newData(fc *geojson.FeatureCollection) (Data, error) {
	out := geojson.NewFeatureCollection()
	var (
		bound orb.Bound
		seen  bool
	)
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		out.Append(f)
		if !seen {
			bound, seen = f.Geometry.Bound(), true
		} else {
			bound = bound.Union(f.Geometry.Bound())
		}
	}
	if !seen {
		return Data{}, ErrEmpty
	}
	return Data{Features: out, Bound: bound}, nil
}

// FromGeometry wraps a single geometry.
func FromGeometry(g orb.Geometry) (Data, error) {
	fc := geojson.NewFeatureCollection()
	if g != nil {
		fc.Append(geojson.NewFeature(g))
	}
	return newData(fc)
}
