package tui

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodraw/internal/draw"
)

func testCanvas() *canvas {
	c := newCanvas()
	c.resize(50, 25) // 100x100 micro-pixels
	c.scale = 0.1
	return c
}

func TestCanvasProjectRoundTrip(t *testing.T) {
	c := testCanvas()
	c.center = orb.Point{10, 20}

	x, y := c.Project(orb.Point{10, 20})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	p := orb.Point{12.5, 17.25}
	x, y = c.Project(p)
	got := c.Unproject(x, y)
	assert.InDelta(t, p[0], got[0], 1e-9)
	assert.InDelta(t, p[1], got[1], 1e-9)

	// north is up
	_, yn := c.Project(orb.Point{10, 21})
	assert.Less(t, yn, 50.0)
}

func TestCanvasZoomKeepsAnchor(t *testing.T) {
	c := testCanvas()
	before := c.Unproject(20, 70)
	c.zoomAt(20, 70, 2)
	after := c.Unproject(20, 70)

	assert.InDelta(t, 0.05, c.scale, 1e-12)
	assert.InDelta(t, before[0], after[0], 1e-9)
	assert.InDelta(t, before[1], after[1], 1e-9)
}

func TestCanvasPanFollowsDrag(t *testing.T) {
	c := testCanvas()
	at := c.Unproject(30, 30)
	c.panBy(10, -4)
	x, y := c.Project(at)
	assert.InDelta(t, 40, x, 1e-9)
	assert.InDelta(t, 26, y, 1e-9)
}

func TestCanvasFit(t *testing.T) {
	c := testCanvas()
	c.fit(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}})
	assert.Equal(t, orb.Point{10, 5}, c.center)
	assert.InDelta(t, 0.22, c.scale, 1e-9)

	// a single point keeps the zoom level
	c.fit(orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{3, 3}})
	assert.Equal(t, orb.Point{3, 3}, c.center)
	assert.InDelta(t, 0.22, c.scale, 1e-9)
}

func pickFixture() []draw.Feature {
	return []draw.Feature{
		{ID: "poly", Geometry: orb.Polygon{{{-2, -2}, {2, -2}, {2, 2}, {-2, 2}, {-2, -2}}}},
		{ID: "line", Geometry: orb.LineString{{-4, 3}, {4, 3}}},
		{ID: "pt", Geometry: orb.Point{3, -3}},
		{ID: "h0", Geometry: orb.Point{2, 2}, Properties: draw.Properties{Handle: true, Parent: "poly"}},
		{ID: "m0", Geometry: orb.Point{2.05, 2}, Properties: draw.Properties{Midpoint: true, Parent: "poly"}},
	}
}

func TestCanvasPick(t *testing.T) {
	c := testCanvas()
	c.setFeatures(pickFixture())

	at := func(p orb.Point) (float64, float64) { return c.Project(p) }

	tests := []struct {
		name   string
		p      orb.Point
		layers []string
		want   draw.ID
		ok     bool
	}{
		{name: "polygon interior", p: orb.Point{0, 0}, want: "poly", ok: true},
		{name: "near line", p: orb.Point{0, 3.2}, want: "line", ok: true},
		{name: "point", p: orb.Point{3.1, -3}, want: "pt", ok: true},
		{name: "handle beats midpoint and polygon", p: orb.Point{2.02, 2}, want: "h0", ok: true},
		{name: "features layer only", p: orb.Point{2.02, 2}, layers: []string{LayerFeatures}, want: "poly", ok: true},
		{name: "handles layer misses polygon", p: orb.Point{0, 0}, layers: []string{LayerHandles}},
		{name: "empty space", p: orb.Point{-4, -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := at(tt.p)
			id, ok := c.Pick(x, y, 5, tt.layers)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestCanvasPickEmpty(t *testing.T) {
	c := testCanvas()
	c.setFeatures(nil)
	_, ok := c.Pick(50, 50, 5, nil)
	assert.False(t, ok)
}

func TestClipSegment(t *testing.T) {
	x0, y0, x1, y1, ok := clipSegment(-10, 5, 110, 5, 99, 99)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5, 99, 5}, []float64{x0, y0, x1, y1})

	_, _, _, _, ok = clipSegment(-10, -10, -1, -5, 99, 99)
	assert.False(t, ok)
}

func TestRenderMarksHandlesAndSelection(t *testing.T) {
	c := testCanvas()
	fs := pickFixture()
	fs[1].Properties.Selected = true
	c.setFeatures(fs)

	out := c.render("pt")
	assert.Contains(t, out, string(glyphHandle))
	assert.Contains(t, out, string(glyphHover))
	assert.NotContains(t, out, string(glyphPoint), "hovered point is ringed instead")
}
