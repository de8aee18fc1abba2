package draw

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"
)

// ID identifies a feature or handle in the store.
type ID string

// Geometry type tags a feature can carry.
const (
	TypePoint      = "Point"
	TypeLineString = "LineString"
	TypePolygon    = "Polygon"
)

// Properties is the typed property record of a feature. Handle features use
// the Handle/Midpoint/Parent/Index/InsertIndex fields; shapes use the rest.
type Properties struct {
	Selected bool
	Active   bool

	// Generator names the shape generator that turns Handles into geometry.
	Generator string
	// Editor names the handle editor used for per-vertex drags.
	Editor  string
	Handles []orb.Point
	// Insertable controls midpoint handles; nil means true.
	Insertable *bool
	Options    GeneratorOptions

	Handle      bool
	Midpoint    bool
	Parent      ID
	Index       int
	InsertIndex int

	Extra map[string]any
}

// IsInsertable reports whether midpoint handles are produced for the feature.
func (p Properties) IsInsertable() bool {
	return p.Insertable == nil || *p.Insertable
}

// Feature is a geometry with its control vertices and properties.
type Feature struct {
	ID         ID
	Geometry   orb.Geometry
	Properties Properties
}

// Type returns the GeoJSON geometry type, or "" when the feature has none.
func (f Feature) Type() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.GeoJSONType()
}

// IsHandle reports whether f is a synthetic vertex or midpoint handle.
func (f Feature) IsHandle() bool {
	return f.Properties.Handle || f.Properties.Midpoint
}

// Clone returns a deep copy so callers can't alias store state.
func (f Feature) Clone() Feature {
	out := f
	if f.Geometry != nil {
		out.Geometry = orb.Clone(f.Geometry)
	}
	out.Properties.Handles = slices.Clone(f.Properties.Handles)
	if f.Properties.Insertable != nil {
		v := *f.Properties.Insertable
		out.Properties.Insertable = &v
	}
	out.Properties.Extra = maps.Clone(f.Properties.Extra)
	return out
}

// Patch is a partial property update. Nil fields are left untouched.
type Patch struct {
	Selected   *bool
	Active     *bool
	Insertable *bool
	Generator  *string
	Editor     *string
	Handles    []orb.Point
	Options    *GeneratorOptions
	Extra      map[string]any
}

// merge returns p with every field set in o overriding it.
func (p Patch) merge(o Patch) Patch {
	if o.Selected != nil {
		p.Selected = o.Selected
	}
	if o.Active != nil {
		p.Active = o.Active
	}
	if o.Insertable != nil {
		p.Insertable = o.Insertable
	}
	if o.Generator != nil {
		p.Generator = o.Generator
	}
	if o.Editor != nil {
		p.Editor = o.Editor
	}
	if o.Handles != nil {
		p.Handles = o.Handles
	}
	if o.Options != nil {
		p.Options = o.Options
	}
	if o.Extra != nil {
		if p.Extra == nil {
			p.Extra = map[string]any{}
		} else {
			p.Extra = maps.Clone(p.Extra)
		}
		maps.Copy(p.Extra, o.Extra)
	}
	return p
}

func (p *Properties) apply(patch Patch) {
	if patch.Selected != nil {
		p.Selected = *patch.Selected
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	if patch.Insertable != nil {
		v := *patch.Insertable
		p.Insertable = &v
	}
	if patch.Generator != nil {
		p.Generator = *patch.Generator
	}
	if patch.Editor != nil {
		p.Editor = *patch.Editor
	}
	if patch.Handles != nil {
		p.Handles = slices.Clone(patch.Handles)
	}
	if patch.Options != nil {
		p.Options = *patch.Options
	}
	if len(patch.Extra) > 0 {
		if p.Extra == nil {
			p.Extra = make(map[string]any, len(patch.Extra))
		}
		maps.Copy(p.Extra, patch.Extra)
	}
}

// Update is a shallow feature update: a non-nil Geometry replaces the old
// one, Props is merged key-wise.
type Update struct {
	Geometry orb.Geometry
	Props    Patch
}

// Bool returns a pointer to v, for Patch fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for Patch fields.
func String(v string) *string { return &v }

// handlesFromGeometry derives control vertices from a plain geometry: the
// point itself, the line vertices, or the outer ring without its closing
// vertex.
func handlesFromGeometry(g orb.Geometry) []orb.Point {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.LineString:
		return slices.Clone([]orb.Point(g))
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		ring := g[0]
		if n := len(ring); n > 1 && ring[0].Equal(ring[n-1]) {
			ring = ring[:n-1]
		}
		return slices.Clone([]orb.Point(ring))
	}
	return nil
}

// geometryFromHandles is the fallback used when a feature has no generator.
func geometryFromHandles(typ string, handles []orb.Point) orb.Geometry {
	if len(handles) == 0 {
		return nil
	}
	switch typ {
	case TypePoint:
		return handles[0]
	case TypeLineString:
		return orb.LineString(slices.Clone(handles))
	case TypePolygon:
		return closedRing(handles)
	}
	return nil
}

func closedRing(vertices []orb.Point) orb.Polygon {
	ring := make(orb.Ring, 0, len(vertices)+1)
	ring = append(ring, vertices...)
	ring = append(ring, vertices[0])
	return orb.Polygon{ring}
}

func supportedType(typ string) bool {
	switch typ {
	case TypePoint, TypeLineString, TypePolygon:
		return true
	}
	return false
}
