package draw

import (
	"maps"
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// Built-in handle editor names.
const (
	EditorIsolated     = "isolated"
	EditorSymmetric    = "symmetric"
	EditorMirror       = "mirror"
	EditorRectangle    = "rectangle"
	EditorCircle       = "circle"
	EditorProportional = "proportional"
)

// EditContext is what a handle editor sees for one vertex drag.
type EditContext struct {
	Feature     Feature
	Handles     []orb.Point
	HandleIndex int
	// Delta is the drag offset in longitude/latitude degrees.
	Delta orb.Point
}

// Editor returns the new vertex list for a drag of one vertex. Editors must
// not modify ctx.Handles.
type Editor func(ctx EditContext) []orb.Point

// DefaultEditors returns a fresh registry of the built-in handle editors.
func DefaultEditors() map[string]Editor {
	return map[string]Editor{
		EditorIsolated:     IsolatedEditor,
		EditorSymmetric:    SymmetricEditor,
		EditorMirror:       MirrorEditor,
		EditorRectangle:    RectangleEditor,
		EditorCircle:       CircleEditor,
		EditorProportional: ProportionalEditor,
	}
}

func mergeEditors(custom map[string]Editor) map[string]Editor {
	out := DefaultEditors()
	maps.Copy(out, custom)
	return out
}

func shift(p, d orb.Point) orb.Point { return orb.Point{p[0] + d[0], p[1] + d[1]} }

func translate(handles []orb.Point, d orb.Point) []orb.Point {
	out := make([]orb.Point, len(handles))
	for i, p := range handles {
		out[i] = shift(p, d)
	}
	return out
}

func inRange(ctx EditContext) bool {
	return ctx.HandleIndex >= 0 && ctx.HandleIndex < len(ctx.Handles)
}

// IsolatedEditor moves only the dragged vertex.
func IsolatedEditor(ctx EditContext) []orb.Point {
	out := slices.Clone(ctx.Handles)
	if inRange(ctx) {
		out[ctx.HandleIndex] = shift(out[ctx.HandleIndex], ctx.Delta)
	}
	return out
}

// SymmetricEditor moves the vertex two places further (mod 4) by the
// opposite delta.
func SymmetricEditor(ctx EditContext) []orb.Point {
	out := IsolatedEditor(ctx)
	if !inRange(ctx) {
		return out
	}
	if opp := (ctx.HandleIndex + 2) % 4; opp < len(out) && opp != ctx.HandleIndex {
		out[opp] = shift(out[opp], orb.Point{-ctx.Delta[0], -ctx.Delta[1]})
	}
	return out
}

// MirrorEditor moves the vertex half the ring away by the same delta.
func MirrorEditor(ctx EditContext) []orb.Point {
	out := IsolatedEditor(ctx)
	if !inRange(ctx) {
		return out
	}
	if opp := (ctx.HandleIndex + len(out)/2) % len(out); opp != ctx.HandleIndex {
		out[opp] = shift(out[opp], ctx.Delta)
	}
	return out
}

// RectangleEditor keeps a 4-vertex ring rectangular: the previous neighbour
// follows the x delta and the next one the y delta. Other vertex counts fall
// back to IsolatedEditor.
func RectangleEditor(ctx EditContext) []orb.Point {
	if len(ctx.Handles) != 4 || !inRange(ctx) {
		return IsolatedEditor(ctx)
	}
	out := slices.Clone(ctx.Handles)
	i := ctx.HandleIndex
	prev, next := (i+3)%4, (i+1)%4
	out[i] = shift(out[i], ctx.Delta)
	out[prev][0] += ctx.Delta[0]
	out[next][1] += ctx.Delta[1]
	return out
}

// CircleEditor treats [center, edge]: dragging the center moves both,
// dragging the edge changes the radius.
func CircleEditor(ctx EditContext) []orb.Point {
	if len(ctx.Handles) != 2 || ctx.HandleIndex != 0 {
		return IsolatedEditor(ctx)
	}
	return translate(ctx.Handles, ctx.Delta)
}

// ProportionalEditor scales every vertex about the centroid by the ratio of
// the dragged vertex's new and old distance to it.
func ProportionalEditor(ctx EditContext) []orb.Point {
	if !inRange(ctx) {
		return slices.Clone(ctx.Handles)
	}
	var c orb.Point
	n := float64(len(ctx.Handles))
	for _, p := range ctx.Handles {
		c[0] += p[0] / n
		c[1] += p[1] / n
	}
	h := ctx.Handles[ctx.HandleIndex]
	before := math.Hypot(h[0]-c[0], h[1]-c[1])
	moved := shift(h, ctx.Delta)
	after := math.Hypot(moved[0]-c[0], moved[1]-c[1])

	scale := 1.0
	if before > 0 {
		scale = after / before
	}
	out := make([]orb.Point, len(ctx.Handles))
	for i, p := range ctx.Handles {
		out[i] = orb.Point{c[0] + (p[0]-c[0])*scale, c[1] + (p[1]-c[1])*scale}
	}
	return out
}

// editorFor resolves the policy for a feature: its Editor property, then the
// default for its generator, then isolated.
func editorFor(editors map[string]Editor, f Feature) Editor {
	if e, ok := editors[f.Properties.Editor]; ok && f.Properties.Editor != "" {
		return e
	}
	if f.Properties.Generator == GeneratorCircle {
		if e, ok := editors[EditorCircle]; ok {
			return e
		}
	}
	if e, ok := editors[EditorIsolated]; ok {
		return e
	}
	return IsolatedEditor
}
