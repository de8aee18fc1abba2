package geom

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// ParseGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry object.
func ParseGeoJSON(data []byte) (Data, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Data{}, fmt.Errorf("geojson: %w", err)
	}
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		return newData(fc)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return newData(fc)
	case "":
		return Data{}, fmt.Errorf("geojson: missing type")
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return Data{}, fmt.Errorf("geojson: %w", err)
	}
	return FromGeometry(g.Geometry())
}

// LoadGeoJSON reads a GeoJSON file.
func LoadGeoJSON(path string) (Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Data{}, err
	}
	return ParseGeoJSON(data)
}

// WriteGeoJSON writes fc to path, indented.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("geojson: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
