package geom

import (
	"github.com/paulmach/orb"
)

// Bounds accumulates the coordinates that take part in fitting: a Point's
// coordinate, every LineString coordinate and the first ring of a Polygon.
// ok is false when nothing contributed.
func Bounds(c *Collection) (b orb.Bound, ok bool) {
	if c.Len() == 0 {
		return b, false
	}
	add := func(p orb.Point) {
		if !ok {
			b, ok = orb.Bound{Min: p, Max: p}, true
			return
		}
		b = b.Extend(p)
	}
	for _, f := range c.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			add(g)
		case orb.LineString:
			for _, p := range g {
				add(p)
			}
		case orb.Polygon:
			if len(g) > 0 {
				for _, p := range g[0] {
					add(p)
				}
			}
		}
	}
	return b, ok
}

// Fit returns the initial viewport for c: the centre of Bounds at FitZoom.
// ok is false when the current viewport should be kept.
func Fit(c *Collection) (Viewport, bool) {
	b, ok := Bounds(c)
	if !ok {
		return Viewport{}, false
	}
	return Viewport{Center: b.Center(), Zoom: FitZoom}, true
}
