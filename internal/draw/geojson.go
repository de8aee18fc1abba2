package draw

import (
	"fmt"
	"maps"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON property keys written by ToGeoJSON and read by FromGeoJSON.
const (
	PropGenerator  = "generator"
	PropEditor     = "editor"
	PropInsertable = "insertable"
	PropHandles    = "handles"
	PropSteps      = "steps"
)

// FromGeometry turns a geometry into store features. Multi geometries and
// collections are split into their parts; unsupported parts are dropped.
func FromGeometry(g orb.Geometry) []Feature {
	var out []Feature
	switch g := g.(type) {
	case orb.Point:
		out = append(out, plainFeature(g, GeneratorPoint))
	case orb.LineString:
		out = append(out, plainFeature(g, GeneratorLine))
	case orb.Polygon:
		if len(g) > 0 {
			out = append(out, plainFeature(orb.Polygon{g[0]}, GeneratorPolygon))
		}
	case orb.Ring:
		out = append(out, plainFeature(orb.Polygon{g}, GeneratorPolygon))
	case orb.Bound:
		out = append(out, plainFeature(g.ToPolygon(), GeneratorPolygon))
	case orb.MultiPoint:
		for _, p := range g {
			out = append(out, FromGeometry(p)...)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			out = append(out, FromGeometry(ls)...)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			out = append(out, FromGeometry(p)...)
		}
	case orb.Collection:
		for _, part := range g {
			out = append(out, FromGeometry(part)...)
		}
	}
	return out
}

func plainFeature(g orb.Geometry, generator string) Feature {
	f := Feature{Geometry: g}
	f.Properties.Generator = generator
	f.Properties.Handles = handlesFromGeometry(g)
	return f
}

// FromGeoJSON converts a collection into store features. Known properties
// restore the generator, editor, insertable flag and handles; everything
// else lands in Extra. A split multi geometry keeps the id only on its first
// part.
func FromGeoJSON(fc *geojson.FeatureCollection) []Feature {
	var out []Feature
	for _, gf := range fc.Features {
		parts := FromGeometry(gf.Geometry)
		for i := range parts {
			if i == 0 {
				parts[i].ID = featureID(gf.ID)
			}
			applyGeoJSONProps(&parts[i], gf.Properties)
		}
		out = append(out, parts...)
	}
	return out
}

func featureID(v any) ID {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return ID(v)
	case float64:
		return ID(fmt.Sprintf("%g", v))
	}
	return ID(fmt.Sprint(v))
}

func applyGeoJSONProps(f *Feature, props geojson.Properties) {
	extra := maps.Clone(map[string]any(props))
	if gen, ok := props[PropGenerator].(string); ok && gen != "" {
		f.Properties.Generator = gen
	}
	if ed, ok := props[PropEditor].(string); ok {
		f.Properties.Editor = ed
	}
	if ins, ok := props[PropInsertable].(bool); ok {
		f.Properties.Insertable = Bool(ins)
	}
	if steps, ok := props[PropSteps].(float64); ok && steps > 0 {
		f.Properties.Options.Steps = int(steps)
	}
	if hs := pointsOf(props[PropHandles]); len(hs) > 0 {
		f.Properties.Handles = hs
	}
	for _, k := range []string{PropGenerator, PropEditor, PropInsertable, PropHandles, PropSteps} {
		delete(extra, k)
	}
	if len(extra) > 0 {
		f.Properties.Extra = extra
	}
}

// pointsOf reads [[x, y], ...] as decoded by encoding/json.
func pointsOf(v any) []orb.Point {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]orb.Point, 0, len(list))
	for _, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) < 2 {
			return nil
		}
		x, okx := pair[0].(float64)
		y, oky := pair[1].(float64)
		if !okx || !oky {
			return nil
		}
		out = append(out, orb.Point{x, y})
	}
	return out
}

// ToGeoJSON exports features, skipping handles. Control vertices and the
// generator are written as properties so FromGeoJSON can restore them.
func ToGeoJSON(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		if f.IsHandle() || f.Geometry == nil {
			continue
		}
		gf := geojson.NewFeature(orb.Clone(f.Geometry))
		gf.ID = string(f.ID)
		for k, v := range f.Properties.Extra {
			gf.Properties[k] = v
		}
		if f.Properties.Generator != "" {
			gf.Properties[PropGenerator] = f.Properties.Generator
		}
		if f.Properties.Editor != "" {
			gf.Properties[PropEditor] = f.Properties.Editor
		}
		if f.Properties.Insertable != nil {
			gf.Properties[PropInsertable] = *f.Properties.Insertable
		}
		if f.Properties.Options.Steps > 0 {
			gf.Properties[PropSteps] = f.Properties.Options.Steps
		}
		hs := make([][]float64, len(f.Properties.Handles))
		for i, p := range f.Properties.Handles {
			hs[i] = []float64{p[0], p[1]}
		}
		gf.Properties[PropHandles] = hs
		fc.Append(gf)
	}
	return fc
}
