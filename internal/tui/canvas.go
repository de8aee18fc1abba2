package tui

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"

	"geodraw/internal/draw"
)

// Pickable layers.
const (
	LayerFeatures = "features"
	LayerHandles  = "handles"
)

const defaultScale = 0.01

// canvas is the terminal map surface. Screen coordinates are braille
// micro-pixels, 2x4 per cell, with the origin at the top left of the map
// area.
type canvas struct {
	w, h   int
	center orb.Point
	// scale is degrees per micro-pixel on both axes.
	scale float64

	features []draw.Feature
	points   *quadtree.Quadtree

	pan      bool
	dblZoom  bool
	cursor   draw.CursorPolicy
	listener func(draw.PointerEvent)
}

func newCanvas() *canvas {
	return &canvas{w: 40, h: 10, scale: defaultScale, pan: true, dblZoom: true}
}

func (c *canvas) resize(w, h int) {
	c.w, c.h = max(1, w), max(1, h)
}

func (c *canvas) microSize() (float64, float64) {
	return float64(c.w * 2), float64(c.h * 4)
}

// Project implements draw.Surface.
func (c *canvas) Project(p orb.Point) (x, y float64) {
	mw, mh := c.microSize()
	return (p[0]-c.center[0])/c.scale + mw/2, (c.center[1]-p[1])/c.scale + mh/2
}

// Unproject implements draw.Surface.
func (c *canvas) Unproject(x, y float64) orb.Point {
	mw, mh := c.microSize()
	return orb.Point{c.center[0] + (x-mw/2)*c.scale, c.center[1] - (y-mh/2)*c.scale}
}

func (c *canvas) SetPanGestures(enabled bool)     { c.pan = enabled }
func (c *canvas) SetDoubleClickZoom(enabled bool) { c.dblZoom = enabled }
func (c *canvas) SetCursor(p draw.CursorPolicy)   { c.cursor = p }

// Listen implements draw.EventSource. There is a single listener.
func (c *canvas) Listen(fn func(draw.PointerEvent)) func() {
	c.listener = fn
	return func() { c.listener = nil }
}

func (c *canvas) emit(typ draw.EventType, x, y float64) {
	if c.listener == nil {
		return
	}
	c.listener(draw.PointerEvent{Type: typ, X: x, Y: y, LngLat: c.Unproject(x, y)})
}

// panBy moves the camera so the map follows a drag of (dx, dy) micro-pixels.
func (c *canvas) panBy(dx, dy float64) {
	c.center = orb.Point{c.center[0] - dx*c.scale, c.center[1] + dy*c.scale}
}

// zoomAt scales by factor keeping the coordinate under (x, y) in place.
func (c *canvas) zoomAt(x, y, factor float64) {
	if factor <= 0 {
		return
	}
	before := c.Unproject(x, y)
	c.scale /= factor
	after := c.Unproject(x, y)
	c.center = orb.Point{c.center[0] + before[0] - after[0], c.center[1] + before[1] - after[1]}
}

// fit centers b and picks a scale that shows all of it with a margin.
func (c *canvas) fit(b orb.Bound) {
	c.center = b.Center()
	mw, mh := c.microSize()
	s := math.Max((b.Max[0]-b.Min[0])/mw, (b.Max[1]-b.Min[1])/mh) * 1.1
	if s > 0 {
		c.scale = s
	}
}

type pickPoint struct {
	id       draw.ID
	p        orb.Point
	layer    string
	priority int
}

func (p pickPoint) Point() orb.Point { return p.p }

// pick priorities, highest wins
const (
	prioPoint = iota
	prioMidpoint
	prioHandle
)

// setFeatures replaces the rendered snapshot and reindexes point-like
// features for picking.
func (c *canvas) setFeatures(fs []draw.Feature) {
	c.features = fs
	c.points = nil

	var (
		items []pickPoint
		bound orb.Bound
	)
	for _, f := range fs {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		it := pickPoint{id: f.ID, p: p, layer: LayerFeatures, priority: prioPoint}
		switch {
		case f.Properties.Handle:
			it.layer, it.priority = LayerHandles, prioHandle
		case f.Properties.Midpoint:
			it.layer, it.priority = LayerHandles, prioMidpoint
		}
		if len(items) == 0 {
			bound = p.Bound()
		} else {
			bound = bound.Extend(p)
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return
	}
	c.points = quadtree.New(bound.Pad(1))
	for _, it := range items {
		c.points.Add(it)
	}
}

// Pick implements draw.Surface: handles first, then point features, then
// lines and polygons from the top of the draw order down.
func (c *canvas) Pick(x, y, radius float64, layerIDs []string) (draw.ID, bool) {
	allowed := func(layer string) bool {
		return len(layerIDs) == 0 || slices.Contains(layerIDs, layer)
	}
	at := c.Unproject(x, y)
	maxDist := radius * c.scale

	if c.points != nil {
		near := c.points.KNearestMatching(nil, at, 16, func(p orb.Pointer) bool {
			return allowed(p.(pickPoint).layer)
		}, maxDist)
		var (
			best  pickPoint
			found bool
		)
		for _, n := range near {
			it := n.(pickPoint)
			if !found || it.priority > best.priority ||
				it.priority == best.priority && planar.DistanceSquared(it.p, at) < planar.DistanceSquared(best.p, at) {
				best, found = it, true
			}
		}
		if found {
			return best.id, true
		}
	}

	if !allowed(LayerFeatures) {
		return "", false
	}
	for i := len(c.features) - 1; i >= 0; i-- {
		f := c.features[i]
		switch g := f.Geometry.(type) {
		case orb.LineString:
			if len(g) > 0 && planar.DistanceFrom(g, at) <= maxDist {
				return f.ID, true
			}
		case orb.Polygon:
			if len(g) == 0 || len(g[0]) == 0 {
				continue
			}
			if planar.PolygonContains(g, at) || planar.DistanceFrom(g, at) <= maxDist {
				return f.ID, true
			}
		}
	}
	return "", false
}
