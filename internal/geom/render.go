package geom

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"geoview/internal/canvas"
)

// pixelsPerMicro converts style sizes given in screen pixels.
const pixelsPerMicro = 3.0

// simplifyTolerance is the Douglas-Peucker threshold in micro-pixels.
const simplifyTolerance = 0.5

// Draw rasterises the collection onto cv. Polygons are drawn first, then
// lines, then points, so smaller features stay on top.
func Draw(cv *canvas.Canvas, c *Collection, vp Viewport, layers Layers) {
	if c.Len() == 0 {
		return
	}
	mw, mh := cv.MicroSize()
	pr := NewProjector(vp, mw, mh)
	for _, pass := range []Kind{Polygon, LineString, Other, Point} {
		if !layers.show(pass) {
			continue
		}
		for _, f := range c.Features {
			if f.Geometry == nil || KindOf(f.Geometry) != pass {
				continue
			}
			drawGeometry(cv, pr, f.Geometry, StyleFor(pass))
		}
	}
}

// Highlight outlines the feature g in col.
func Highlight(cv *canvas.Canvas, g orb.Geometry, vp Viewport, col colorful.Color) {
	mw, mh := cv.MicroSize()
	pr := NewProjector(vp, mw, mh)
	switch g := g.(type) {
	case orb.Point:
		x, y := pr.Project(g)
		circle(cv, int(x), int(y), 3, col)
	case orb.LineString:
		cv.Polyline(projectLine(pr, g), false, col)
	case orb.Polygon:
		for _, r := range g {
			cv.Polyline(projectLine(pr, orb.LineString(r)), true, col)
		}
	default:
		forEachPoint(g, func(p orb.Point) {
			x, y := pr.Project(p)
			circle(cv, int(x), int(y), 3, col)
		})
	}
}

func drawGeometry(cv *canvas.Canvas, pr Projector, g orb.Geometry, st Style) {
	fill, stroke := st.Colors()
	switch g := g.(type) {
	case orb.Point:
		drawCircle(cv, pr, g, st, fill, stroke)
	case orb.LineString:
		pts := projectLine(pr, g)
		w := max(1, int(math.Round(st.Width/pixelsPerMicro)))
		for o := 0; o < w; o++ {
			cv.Polyline(offset(pts, 0, o), false, fill)
		}
	case orb.Polygon:
		rings := make([][]image.Point, 0, len(g))
		for _, r := range g {
			if pts := projectLine(pr, orb.LineString(r)); len(pts) >= 3 {
				rings = append(rings, pts)
			}
		}
		cv.FillPolygon(rings, fill)
		for _, r := range rings {
			cv.Polyline(r, true, stroke)
		}
	default:
		forEachPoint(g, func(p orb.Point) { drawCircle(cv, pr, p, st, fill, stroke) })
	}
}

func drawCircle(cv *canvas.Canvas, pr Projector, p orb.Point, st Style, fill, stroke colorful.Color) {
	x, y := pr.Project(p)
	r := max(1, int(math.Round(st.Radius/pixelsPerMicro)))
	disk(cv, int(x), int(y), r, fill)
	if st.StrokeWidth > 0 {
		circle(cv, int(x), int(y), r+1, stroke)
	}
}

// projectLine projects and simplifies ls in screen space.
func projectLine(pr Projector, ls orb.LineString) []image.Point {
	screen := make(orb.LineString, 0, len(ls))
	for _, p := range ls {
		x, y := pr.Project(p)
		screen = append(screen, orb.Point{x, y})
	}
	if len(screen) > 2 {
		if s, ok := simplify.DouglasPeucker(simplifyTolerance).Simplify(screen).(orb.LineString); ok {
			screen = s
		}
	}
	out := make([]image.Point, 0, len(screen))
	for _, p := range screen {
		q := image.Pt(int(math.Floor(p[0])), int(math.Floor(p[1])))
		if n := len(out); n > 0 && out[n-1] == q {
			continue
		}
		out = append(out, q)
	}
	return out
}

func offset(pts []image.Point, dx, dy int) []image.Point {
	if dx == 0 && dy == 0 {
		return pts
	}
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(image.Pt(dx, dy))
	}
	return out
}

func disk(cv *canvas.Canvas, cx, cy, r int, col colorful.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				cv.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

func circle(cv *canvas.Canvas, cx, cy, r int, col colorful.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := dx*dx + dy*dy
			if d <= r*r && d > (r-1)*(r-1) {
				cv.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

func forEachPoint(g orb.Geometry, fn func(orb.Point)) {
	switch g := g.(type) {
	case orb.Point:
		fn(g)
	case orb.MultiPoint:
		for _, p := range g {
			fn(p)
		}
	case orb.LineString:
		for _, p := range g {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			forEachPoint(ls, fn)
		}
	case orb.Ring:
		for _, p := range g {
			fn(p)
		}
	case orb.Polygon:
		for _, r := range g {
			forEachPoint(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			forEachPoint(p, fn)
		}
	case orb.Collection:
		for _, c := range g {
			forEachPoint(c, fn)
		}
	}
}
