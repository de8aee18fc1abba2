package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Name       string      `xml:"name"`
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Folders    []kmlPlacemark `xml:"Document>Folder>Placemark"`
	Top        []kmlPlacemark `xml:"Placemark"`
}

// LoadKML reads Point, LineString and Polygon placemarks from a KML file.
func LoadKML(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return ParseKML(f)
}

// ParseKML reads placemarks from r. KML coordinates are "lon,lat[,alt]";
// altitude is ignored.
func ParseKML(r io.Reader) (Data, error) {
	var doc kmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, err
	}
	fc := geojson.NewFeatureCollection()
	for _, group := range [][]kmlPlacemark{doc.Top, doc.Placemarks, doc.Folders} {
		for _, pm := range group {
			g := pm.geometry()
			if g == nil {
				continue
			}
			feat := geojson.NewFeature(g)
			if pm.Name != "" {
				feat.Properties["name"] = pm.Name
			}
			fc.Append(feat)
		}
	}
	d, err := newData(fc)
	if err != nil {
		return Data{}, errors.New("kml: no placemarks found")
	}
	return d, nil
}

func (pm kmlPlacemark) geometry() orb.Geometry {
	switch {
	case pm.Point != nil:
		if pts := parseKMLCoords(pm.Point.Coordinates); len(pts) > 0 {
			return pts[0]
		}
	case pm.LineString != nil:
		if pts := parseKMLCoords(pm.LineString.Coordinates); len(pts) > 1 {
			return orb.LineString(pts)
		}
	case pm.Polygon != nil:
		outer := parseKMLCoords(pm.Polygon.Outer.Coordinates)
		if len(outer) < 3 {
			return nil
		}
		poly := orb.Polygon{orb.Ring(outer)}
		for _, in := range pm.Polygon.Inner {
			if ring := parseKMLCoords(in.Coordinates); len(ring) >= 3 {
				poly = append(poly, orb.Ring(ring))
			}
		}
		return poly
	}
	return nil
}

// parseKMLCoords reads whitespace separated tuples, skipping bad ones.
func parseKMLCoords(s string) []orb.Point {
	var out []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out
}
