package geom

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"geoview/internal/format"
)

// Diagnostics counts decoded features by kind.
type Diagnostics struct {
	Points      int
	LineStrings int
	Polygons    int
	Other       int
	NoGeometry  int
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("pts=%d ls=%d poly=%d other=%d empty=%d",
		d.Points, d.LineStrings, d.Polygons, d.Other, d.NoGeometry)
}

// Collection is a decoded GeoJSON document.
type Collection struct {
	*geojson.FeatureCollection
	Diagnostics Diagnostics

	// features kept with a nil geometry of an unrecognised type
	unknown int
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil || c.FeatureCollection == nil {
		return 0
	}
	return len(c.Features)
}

// Decode parses a whole GeoJSON document. A FeatureCollection is taken as
// is; a single Feature or a bare geometry becomes a one-feature collection.
// A feature whose geometry orb cannot read keeps its properties with a nil
// geometry, so one odd entry does not fail the document.
func Decode(data []byte) (*Collection, error) {
	if len(data) == 0 {
		return nil, format.ErrEmptyInput
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, format.Wrap("geojson", "malformed document", err)
	}

	c := &Collection{FeatureCollection: geojson.NewFeatureCollection()}
	switch head.Type {
	case "FeatureCollection":
		var doc struct {
			Features []json.RawMessage `json:"features"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, format.Wrap("geojson", "malformed document", err)
		}
		for i, raw := range doc.Features {
			if err := c.appendFeature(raw); err != nil {
				return nil, format.Wrap("geojson", fmt.Sprintf("malformed feature %d", i), err)
			}
		}
	case "Feature":
		if err := c.appendFeature(data); err != nil {
			return nil, format.Wrap("geojson", "malformed document", err)
		}
	case "":
		return nil, format.Errorf("geojson", "malformed document: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, format.Wrap("geojson", "malformed document", err)
		}
		c.Append(geojson.NewFeature(g.Geometry()))
	}

	c.count()
	return c, nil
}

var geometryTypes = map[string]bool{
	"Point": true, "MultiPoint": true,
	"LineString": true, "MultiLineString": true,
	"Polygon": true, "MultiPolygon": true,
	"GeometryCollection": true,
}

// appendFeature decodes one feature object. When orb rejects it, the
// properties are read on their own and the geometry is left nil; a geometry
// of an unrecognised type is then counted as Other.
func (c *Collection) appendFeature(raw []byte) error {
	f, err := geojson.UnmarshalFeature(raw)
	if err == nil {
		c.Append(f)
		return nil
	}

	var loose struct {
		ID         interface{}        `json:"id"`
		Properties geojson.Properties `json:"properties"`
		Geometry   json.RawMessage    `json:"geometry"`
	}
	if lerr := json.Unmarshal(raw, &loose); lerr != nil {
		return err
	}
	f = geojson.NewFeature(nil)
	f.ID = loose.ID
	if loose.Properties != nil {
		f.Properties = loose.Properties
	}
	c.Append(f)

	if len(loose.Geometry) == 0 || string(loose.Geometry) == "null" {
		return nil
	}
	if g, gerr := geojson.UnmarshalGeometry(loose.Geometry); gerr == nil {
		f.Geometry = g.Geometry()
		return nil
	}
	var head struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(loose.Geometry, &head) == nil && !geometryTypes[head.Type] {
		c.unknown++
	}
	return nil
}

func (c *Collection) count() {
	c.Diagnostics = Diagnostics{Other: c.unknown, NoGeometry: -c.unknown}
	for _, f := range c.Features {
		if f.Geometry == nil {
			c.Diagnostics.NoGeometry++
			continue
		}
		switch KindOf(f.Geometry) {
		case Point:
			c.Diagnostics.Points++
		case LineString:
			c.Diagnostics.LineStrings++
		case Polygon:
			c.Diagnostics.Polygons++
		default:
			c.Diagnostics.Other++
		}
	}
}

// CountFeatures decodes data and returns only the feature count.
func CountFeatures(data []byte) (int, error) {
	c, err := Decode(data)
	if err != nil {
		return 0, err
	}
	return c.Len(), nil
}
