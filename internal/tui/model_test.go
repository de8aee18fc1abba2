package tui

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodraw/internal/draw"
)

func sequentialIDs() func() draw.ID {
	n := 0
	return func() draw.ID {
		n++
		return draw.ID(fmt.Sprintf("f%d", n))
	}
}

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	m, err := New(draw.Config{NewID: sequentialIDs()}, opts...)
	require.NoError(t, err)
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keys(t *testing.T, m Model, ks ...string) Model {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func mouse(t *testing.T, m Model, action tea.MouseAction, x, y int) Model {
	t.Helper()
	return update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: action})
}

func clickCell(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	m = mouse(t, m, tea.MouseActionPress, x, y)
	return mouse(t, m, tea.MouseActionRelease, x, y)
}

func dragCells(t *testing.T, m Model, x0, y0, x1, y1 int) Model {
	t.Helper()
	m = mouse(t, m, tea.MouseActionPress, x0, y0)
	m = mouse(t, m, tea.MouseActionMotion, x1, y1)
	return mouse(t, m, tea.MouseActionRelease, x1, y1)
}

// cellOf returns the terminal cell showing p.
func cellOf(m Model, p orb.Point) (int, int) {
	x, y := m.canvas.Project(p)
	r := m.mapRect()
	return r.x + int(math.Floor(x/2)), r.y + int(math.Floor(y/4))
}

// lngLatOf is the coordinate a click on cell (x, y) reports.
func lngLatOf(m Model, x, y int) orb.Point {
	mx, my, _ := m.toMicro(x, y)
	return m.canvas.Unproject(mx, my)
}

func shapes(m Model) []draw.Feature {
	var out []draw.Feature
	for _, f := range m.ctrl.Features() {
		if !f.IsHandle() {
			out = append(out, f)
		}
	}
	return out
}

func modeName(m Model) string {
	name, _ := m.ctrl.Mode()
	return name
}

func TestModeKeys(t *testing.T) {
	m := newTestModel(t)
	for key, want := range modeKeys {
		m = keys(t, m, key)
		assert.Equal(t, want, modeName(m), "key %q", key)
	}
}

func TestDrawPointByClick(t *testing.T) {
	m := keys(t, newTestModel(t), "P")
	m = clickCell(t, m, 30, 8)

	fs := shapes(m)
	require.Len(t, fs, 1)
	assert.Equal(t, draw.TypePoint, fs[0].Type())
	want := lngLatOf(m, 30, 8)
	got := fs[0].Geometry.(orb.Point)
	assert.InDelta(t, want[0], got[0], 1e-9)
	assert.InDelta(t, want[1], got[1], 1e-9)
}

func TestDrawLineFinishesOnDoubleClick(t *testing.T) {
	m := keys(t, newTestModel(t), "L")
	m = clickCell(t, m, 10, 5)
	m = clickCell(t, m, 30, 5)
	m = clickCell(t, m, 50, 15)
	m = clickCell(t, m, 50, 15)

	fs := shapes(m)
	require.Len(t, fs, 1)
	ls, ok := fs[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, ls, 3)
	assert.False(t, fs[0].Properties.Active)
	assert.Len(t, m.ctrl.Features(), 1, "handles are cleared once the line is committed")
	assert.Equal(t, draw.ModeLine, modeName(m))
}

func TestDoubleClickNeedsSameCellAndWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newTestModel(t, WithClock(func() time.Time { return now }))
	m = keys(t, m, "L")
	m = clickCell(t, m, 10, 5)
	m = clickCell(t, m, 30, 5)
	now = now.Add(time.Second)
	// too late for a double click, and it lands on the last handle
	m = clickCell(t, m, 30, 5)

	fs := shapes(m)
	require.Len(t, fs, 1)
	assert.False(t, fs[0].Properties.Active, "clicking the last vertex finishes the line")
	assert.Len(t, fs[0].Geometry.(orb.LineString), 2)
}

func TestStaticDragPansCamera(t *testing.T) {
	m := newTestModel(t)
	before := m.canvas.center
	m = dragCells(t, m, 20, 10, 25, 10)

	// five cells right is ten micro-pixels
	assert.InDelta(t, before[0]-10*m.canvas.scale, m.canvas.center[0], 1e-9)
	assert.InDelta(t, before[1], m.canvas.center[1], 1e-9)
	assert.False(t, m.ctrl.Panning())
	assert.Empty(t, m.ctrl.Features())
}

func TestSelectDragMovesFeature(t *testing.T) {
	m := newTestModel(t)
	_, err := m.ctrl.Store().AddFeature(draw.Feature{Geometry: orb.Point{0, 0}})
	require.NoError(t, err)

	m = keys(t, m, "s")
	x, y := cellOf(m, orb.Point{0, 0})
	m = clickCell(t, m, x, y)
	require.Equal(t, []draw.ID{"f1"}, m.ctrl.Store().SelectedIDs())

	center := m.canvas.center
	m = dragCells(t, m, x, y, x+3, y)

	assert.Equal(t, center, m.canvas.center, "feature drags lock the camera")
	f, ok := m.ctrl.Store().Feature("f1")
	require.True(t, ok)
	want := lngLatOf(m, x+3, y)
	from := lngLatOf(m, x, y)
	got := f.Geometry.(orb.Point)
	assert.InDelta(t, want[0]-from[0], got[0], 1e-9)
	assert.InDelta(t, want[1]-from[1], got[1], 1e-9)
}

func TestDeleteSelected(t *testing.T) {
	m := newTestModel(t)
	_, err := m.ctrl.Store().AddFeature(draw.Feature{Geometry: orb.Point{0, 0}})
	require.NoError(t, err)

	m = keys(t, m, "x")
	assert.Equal(t, "nothing selected", m.status)

	m = keys(t, m, "s")
	x, y := cellOf(m, orb.Point{0, 0})
	m = clickCell(t, m, x, y)
	m = keys(t, m, "x")
	assert.Empty(t, m.ctrl.Features())
}

func TestDeleteInEditModeFallsBackToSelect(t *testing.T) {
	m := newTestModel(t)
	id, err := m.ctrl.Store().AddFeature(draw.Feature{Geometry: orb.LineString{{0, 0}, {0.1, 0.1}}})
	require.NoError(t, err)
	_, err = m.ctrl.ChangeMode(draw.ModeEdit, draw.ModeOptions{SelectedID: id})
	require.NoError(t, err)
	require.NotEmpty(t, m.ctrl.Store().Handles(id))

	m = keys(t, m, "x")
	assert.Equal(t, draw.ModeSelect, modeName(m))
	assert.Empty(t, m.ctrl.Features())
}

func TestPasteWKT(t *testing.T) {
	m := keys(t, newTestModel(t), "p")
	require.True(t, m.pasteMode)
	m.ta.SetValue("POINT(1 2)\nLINESTRING(0 0, 1 1)")
	m = keys(t, m, "enter")

	assert.False(t, m.pasteMode)
	fs := shapes(m)
	require.Len(t, fs, 2)
	assert.Equal(t, draw.GeneratorPoint, fs[0].Properties.Generator)
	assert.Equal(t, draw.GeneratorLine, fs[1].Properties.Generator)
}

func TestPasteBadWKT(t *testing.T) {
	m := keys(t, newTestModel(t), "p")
	m.ta.SetValue("CIRCLE(1 2)")
	m = keys(t, m, "enter")
	assert.True(t, m.statusErr)
	assert.Empty(t, m.ctrl.Features())
}

func TestSaveWritesGeoJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.geojson")
	m := newTestModel(t, WithOutput(out))
	m = keys(t, m, "R")
	m = clickCell(t, m, 10, 5)
	m = clickCell(t, m, 30, 15)
	m = keys(t, m, "w")
	require.False(t, m.statusErr, m.status)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, draw.GeneratorRectangle, fc.Features[0].Properties["generator"])
}

func TestLoadPathReplacesDrawing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.wkt")
	require.NoError(t, os.WriteFile(path, []byte("POINT(10 10)\nPOLYGON((10 10, 11 10, 11 11, 10 10))\n"), 0o644))

	m := newTestModel(t)
	_, err := m.ctrl.Store().AddFeature(draw.Feature{Geometry: orb.Point{0, 0}})
	require.NoError(t, err)

	m.loadPath(path)
	require.False(t, m.statusErr, m.status)
	assert.Len(t, shapes(m), 2)
	assert.Equal(t, path, m.selPath)
	assert.Contains(t, m.status, "pts=1 ls=0 poly=1")

	// the camera now shows the loaded data
	x, y := m.canvas.Project(orb.Point{10.5, 10.5})
	mw, mh := m.canvas.microSize()
	assert.InDelta(t, mw/2, x, 1e-6)
	assert.InDelta(t, mh/2, y, 1e-6)
}

func TestAttributesTable(t *testing.T) {
	m := newTestModel(t)
	_, err := m.ctrl.Store().AddFeatures(
		draw.Feature{Geometry: orb.Point{1, 2}, Properties: draw.Properties{Extra: map[string]any{"name": "a", "rank": 2.0}}},
		draw.Feature{Geometry: orb.LineString{{0, 0}, {1, 1}}, Properties: draw.Properties{Extra: map[string]any{"ok": true}}},
	)
	require.NoError(t, err)

	cols, rows, ids := buildAttributes(m.ctrl.Features())
	assert.Equal(t, []string{"id", "type", "generator", "vertices", "wkt", "name", "ok", "rank"}, cols)
	assert.Equal(t, []draw.ID{"f1", "f2"}, ids)
	assert.Equal(t, []string{"f1", "Point", "", "1", "POINT(1 2)", "a", "", "2"}, rows[0])
	assert.Equal(t, []string{"f2", "LineString", "", "2", "LINESTRING(0 0,1 1)", "", "true", ""}, rows[1])

	m = keys(t, m, "a")
	assert.True(t, m.showAttrs)
	m = keys(t, m, "enter")
	assert.False(t, m.showAttrs)
	assert.Equal(t, draw.ModeEdit, modeName(m))
	assert.Equal(t, []draw.ID{"f1"}, m.ctrl.Store().SelectedIDs())
}

func TestHoverShowsCursor(t *testing.T) {
	m := newTestModel(t)
	_, err := m.ctrl.Store().AddFeature(draw.Feature{Geometry: orb.Point{0, 0}})
	require.NoError(t, err)
	m = keys(t, m, "s")

	x, y := cellOf(m, orb.Point{0, 0})
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Equal(t, draw.ID("f1"), m.hover.id)
	assert.Contains(t, m.View(), "[pointer]")
	assert.Contains(t, m.View(), draw.ModeSelect)
}

func TestWarmUpRunsOnFirstResize(t *testing.T) {
	m, err := New(draw.Config{WarmUp: true, NewID: sequentialIDs()})
	require.NoError(t, err)
	var added int
	m.ctrl.Store().Events().Add.Subscribe(func(ev draw.FeaturesEvent) { added += len(ev.Features) })

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Len(t, m.ctrl.Features(), 3)
	assert.NotEqual(t, m.View(), "")

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 3, added)
	assert.Len(t, m.ctrl.Features(), 3)

	m = update(t, m, warmUpDoneMsg{})
	assert.Empty(t, m.ctrl.Features())
	assert.False(t, m.ctrl.WarmingUp())
}
