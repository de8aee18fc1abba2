package draw

import (
	"slices"

	"github.com/paulmach/orb"
)

type handleDisplay int

const (
	showLast handleDisplay = iota
	showFirstAndLast
	showFirst
)

// ShapeMode draws a shape vertex by vertex. Open-ended shapes (lines and
// polygons) take any number of clicks and finish on a double click or a
// click on one of their own handles; fixed shapes (circles and rectangles)
// finish on the second click.
type ShapeMode struct {
	generator   string
	minVertices int
	// points is the exact vertex count of fixed shapes, 0 when open-ended.
	points  int
	display handleDisplay
	props   Patch
	options GeneratorOptions

	featureID ID
	vertices  []orb.Point
}

// NewDrawLineMode draws line strings of at least 2 vertices.
func NewDrawLineMode() *ShapeMode {
	return &ShapeMode{generator: GeneratorLine, minVertices: 2, display: showLast}
}

// NewDrawPolygonMode draws polygons of at least 3 vertices.
func NewDrawPolygonMode() *ShapeMode {
	return &ShapeMode{generator: GeneratorPolygon, minVertices: 3, display: showFirstAndLast}
}

// NewDrawCircleMode draws circles from a center and an edge point.
func NewDrawCircleMode() *ShapeMode {
	return &ShapeMode{
		generator:   GeneratorCircle,
		minVertices: 2,
		points:      2,
		display:     showFirst,
		props:       Patch{Insertable: Bool(false), Editor: String(EditorCircle)},
	}
}

// NewDrawRectangleMode draws axis-aligned rectangles from two corners.
func NewDrawRectangleMode() *ShapeMode {
	return &ShapeMode{
		generator:   GeneratorRectangle,
		minVertices: 2,
		points:      2,
		display:     showFirst,
		props:       Patch{Insertable: Bool(false)},
	}
}

// Generator returns the name of the generator the mode draws with.
func (m *ShapeMode) Generator() string { return m.generator }

// Drawing returns the id of the shape in progress, or "".
func (m *ShapeMode) Drawing() ID { return m.featureID }

func (m *ShapeMode) openEnded() bool { return m.points == 0 }

// Enter shows the crosshair cursor. Open-ended shapes turn off double-click
// zoom.
func (m *ShapeMode) Enter(c *Controller) {
	c.SetCursor(CursorPolicy{Default: CursorCrosshair, Pan: CursorGrabbing})
	if m.openEnded() {
		c.SetDoubleClickZoom(false)
	}
}

// Exit commits a shape in progress that has enough vertices and discards
// one that does not.
func (m *ShapeMode) Exit(c *Controller) {
	if m.featureID == "" {
		return
	}
	if len(m.vertices) >= m.minVertices {
		m.commit(c)
		return
	}
	c.store.RemoveFeature(m.featureID)
	m.reset()
}

func (m *ShapeMode) reset() {
	m.featureID = ""
	m.vertices = nil
}

func (m *ShapeMode) OnClick(c *Controller, info Info) {
	if m.featureID != "" {
		if _, ok := c.store.Feature(m.featureID); !ok {
			// removed behind our back
			m.reset()
		}
	}
	if m.featureID != "" && m.openEnded() && m.ownsHandle(info.Feature) {
		m.finish(c)
		return
	}

	m.vertices = append(m.vertices, info.LngLat)
	if m.featureID == "" {
		m.begin(c)
		return
	}
	if !c.store.Regenerate(m.featureID, m.draft(), Patch{}) {
		m.vertices = m.vertices[:len(m.vertices)-1]
		return
	}
	if !m.openEnded() && len(m.vertices) == m.points {
		m.commit(c)
		return
	}
	m.showHandles(c)
}

func (m *ShapeMode) OnDoubleClick(c *Controller, info Info) {
	if m.featureID != "" && m.openEnded() {
		m.finish(c)
	}
}

func (m *ShapeMode) OnMouseMove(c *Controller, info Info) {
	if m.featureID == "" {
		return
	}
	preview := append(slices.Clone(m.vertices), info.LngLat)
	if !m.openEnded() {
		preview = []orb.Point{m.vertices[0], info.LngLat}
	}
	c.store.Regenerate(m.featureID, preview, Patch{})
}

// draft is the vertex list stored on the feature: fixed shapes always carry
// their full count, padded with the anchor.
func (m *ShapeMode) draft() []orb.Point {
	if m.openEnded() || len(m.vertices) >= m.points {
		return slices.Clone(m.vertices)
	}
	out := slices.Clone(m.vertices)
	for len(out) < m.points {
		out = append(out, m.vertices[0])
	}
	return out
}

func (m *ShapeMode) begin(c *Controller) {
	opts := GenerateOptions{
		Props:   m.props.merge(Patch{Active: Bool(true)}),
		Options: m.options,
	}
	f := c.Generate(m.generator, m.draft(), opts)
	if f == nil {
		m.reset()
		return
	}
	id, err := c.store.AddFeature(*f)
	if err != nil {
		c.log.WithError(err).Warn("draw shape")
		m.reset()
		return
	}
	m.featureID = id
	m.showHandles(c)
}

// finish commits the shape when it has enough vertices and otherwise keeps
// accumulating.
func (m *ShapeMode) finish(c *Controller) {
	if len(m.vertices) < m.minVertices {
		return
	}
	m.commit(c)
}

func (m *ShapeMode) commit(c *Controller) {
	c.store.ClearHandles(m.featureID)
	if !c.store.Regenerate(m.featureID, slices.Clone(m.vertices), Patch{Active: Bool(false)}) {
		c.store.RemoveFeature(m.featureID)
	}
	c.log.WithField("feature", m.featureID).Debug("shape committed")
	m.reset()
}

func (m *ShapeMode) ownsHandle(f *Feature) bool {
	return f != nil && f.Properties.Handle && f.Properties.Parent == m.featureID
}

func (m *ShapeMode) showHandles(c *Controller) {
	n := len(m.vertices)
	if n == 0 {
		c.store.ClearHandles(m.featureID)
		return
	}
	first, last := 0, n-1
	var specs []HandleSpec
	switch m.display {
	case showFirst:
		specs = append(specs, HandleSpec{Coord: m.vertices[first], Index: first})
	case showLast:
		specs = append(specs, HandleSpec{Coord: m.vertices[last], Index: last})
	case showFirstAndLast:
		specs = append(specs, HandleSpec{Coord: m.vertices[first], Index: first})
		if last != first {
			specs = append(specs, HandleSpec{Coord: m.vertices[last], Index: last})
		}
	}
	c.store.replaceHandles(m.featureID, specs)
}
