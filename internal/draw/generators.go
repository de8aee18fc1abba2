package draw

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Built-in generator names.
const (
	GeneratorPoint     = "point"
	GeneratorLine      = "line"
	GeneratorPolygon   = "polygon"
	GeneratorCircle    = "circle"
	GeneratorRectangle = "rectangle"
)

// DefaultCircleSteps is the number of vertices used to approximate a circle.
const DefaultCircleSteps = 64

// ErrVertexCount is returned by generators given a vertex count the
// shape cannot be built from.
var ErrVertexCount = errors.New("draw: bad vertex count")

// GeneratorOptions tunes a generator. It is stored on the feature so that
// regenerating from handles gives the same shape.
type GeneratorOptions struct {
	// Steps is the circle resolution; 0 means DefaultCircleSteps.
	Steps int
}

// Generator maps an ordered vertex list to a geometry. Generators must be
// pure.
type Generator func(vertices []orb.Point, opts GeneratorOptions) (orb.Geometry, error)

// DefaultGenerators returns a fresh registry of the built-in generators.
// "rect" is kept as an alias of "rectangle".
func DefaultGenerators() map[string]Generator {
	return map[string]Generator{
		GeneratorPoint:     PointGenerator,
		GeneratorLine:      LineGenerator,
		GeneratorPolygon:   PolygonGenerator,
		GeneratorCircle:    CircleGenerator,
		GeneratorRectangle: RectangleGenerator,
		"rect":             RectangleGenerator,
	}
}

// mergeGenerators overlays custom on top of the built-ins.
func mergeGenerators(custom map[string]Generator) map[string]Generator {
	out := DefaultGenerators()
	maps.Copy(out, custom)
	return out
}

// PointGenerator uses the first vertex.
func PointGenerator(vertices []orb.Point, _ GeneratorOptions) (orb.Geometry, error) {
	if len(vertices) < 1 {
		return nil, fmt.Errorf("%w: point needs 1, got 0", ErrVertexCount)
	}
	return vertices[0], nil
}

// LineGenerator returns the vertices verbatim. A single vertex is accepted so
// that a line being drawn can be previewed.
func LineGenerator(vertices []orb.Point, _ GeneratorOptions) (orb.Geometry, error) {
	if len(vertices) < 1 {
		return nil, fmt.Errorf("%w: line needs at least 1, got 0", ErrVertexCount)
	}
	return orb.LineString(slices.Clone(vertices)), nil
}

// PolygonGenerator closes the vertices into a single ring.
func PolygonGenerator(vertices []orb.Point, _ GeneratorOptions) (orb.Geometry, error) {
	if len(vertices) < 1 {
		return nil, fmt.Errorf("%w: polygon needs at least 1, got 0", ErrVertexCount)
	}
	return closedRing(vertices), nil
}

// CircleGenerator builds a regular polygon around vertices[0] whose radius is
// the geodesic distance to vertices[1].
func CircleGenerator(vertices []orb.Point, opts GeneratorOptions) (orb.Geometry, error) {
	if len(vertices) != 2 {
		return nil, fmt.Errorf("%w: circle needs 2, got %d", ErrVertexCount, len(vertices))
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultCircleSteps
	}
	center := vertices[0]
	radius := geo.DistanceHaversine(center, vertices[1])

	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		bearing := float64(i) * -360 / float64(steps)
		ring = append(ring, geo.PointAtBearingAndDistance(center, bearing, radius))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}, nil
}

// RectangleGenerator builds the axis-aligned ring spanned by two corners.
func RectangleGenerator(vertices []orb.Point, _ GeneratorOptions) (orb.Geometry, error) {
	if len(vertices) != 2 {
		return nil, fmt.Errorf("%w: rectangle needs 2, got %d", ErrVertexCount, len(vertices))
	}
	a, b := vertices[0], vertices[1]
	return orb.Polygon{orb.Ring{
		{a[0], a[1]},
		{b[0], a[1]},
		{b[0], b[1]},
		{a[0], b[1]},
		{a[0], a[1]},
	}}, nil
}
