package geom

import (
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"geoview/internal/format"
)

// DecodeText decodes pasted text: a GeoJSON document when it starts with
// '{', otherwise a single WKT geometry.
func DecodeText(s string) (*Collection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, format.ErrEmptyInput
	}
	if strings.HasPrefix(s, "{") {
		return Decode([]byte(s))
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, format.Wrap("wkt", "malformed geometry", err)
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(g))
	c := &Collection{FeatureCollection: fc}
	c.count()
	return c, nil
}
