package geom

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Attributes returns the union of property keys across all features, in
// first-seen order (keys sorted within a feature), and one row per feature.
func Attributes(c *Collection) (cols []string, rows [][]string) {
	if c.Len() == 0 {
		return nil, nil
	}
	seen := map[string]bool{}
	for _, f := range c.Features {
		for _, k := range sortedKeys(f.Properties) {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	rows = make([][]string, 0, c.Len())
	for _, f := range c.Features {
		row := make([]string, len(cols))
		for i, k := range cols {
			if v, ok := f.Properties[k]; ok {
				row[i] = FormatValue(v)
			}
		}
		rows = append(rows, row)
	}
	return cols, rows
}

// FormatValue renders a property value the way a popup shows it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// Describe is the text of an inspection popup for f: its kind, coordinates
// and properties, one per line.
func Describe(f *geojson.Feature) string {
	var sb strings.Builder
	sb.WriteString("Feature Info\n")
	if f.Geometry == nil {
		sb.WriteString("Geometry: none\n")
	} else {
		fmt.Fprintf(&sb, "Type: %s\n", f.Geometry.GeoJSONType())
		fmt.Fprintf(&sb, "Coordinates: %s\n", coordinates(f.Geometry))
	}
	for _, k := range sortedKeys(f.Properties) {
		fmt.Fprintf(&sb, "%s: %s\n", k, FormatValue(f.Properties[k]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func coordinates(g orb.Geometry) string {
	switch g := g.(type) {
	case orb.Point:
		return fmt.Sprintf("[%g, %g]", g.Lon(), g.Lat())
	default:
		n := 0
		forEachPoint(g, func(orb.Point) { n++ })
		c := g.Bound().Center()
		return fmt.Sprintf("%d vertices around [%g, %g]", n, c.Lon(), c.Lat())
	}
}

func sortedKeys(p geojson.Properties) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
