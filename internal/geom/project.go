package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// TileSize is the width in micro-pixels of the whole world at zoom 0.
const TileSize = 64.0

// maxLat clips latitudes to the Web Mercator square.
const maxLat = 85.05112878

// WorldSize returns the width of the world in micro-pixels at zoom z.
func WorldSize(z float64) float64 {
	return TileSize * math.Exp2(z)
}

// mercator maps lon/lat to unit Web Mercator coordinates, y growing south.
func mercator(p orb.Point) (x, y float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, p.Lat()))
	x = (p.Lon() + 180) / 360
	s := math.Sin(lat * math.Pi / 180)
	y = 0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)
	return x, y
}

func inverseMercator(x, y float64) orb.Point {
	lon := x*360 - 180
	n := math.Pi - 2*math.Pi*y
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return orb.Point{lon, lat}
}

// Projector maps geographic points onto a w x h micro-pixel surface with
// the viewport centre in the middle.
type Projector struct {
	vp     Viewport
	w, h   float64
	cx, cy float64
	world  float64
}

// NewProjector builds a projector for a surface of w x h micro-pixels.
func NewProjector(vp Viewport, w, h int) Projector {
	cx, cy := mercator(vp.Center)
	return Projector{vp: vp, w: float64(w), h: float64(h), cx: cx, cy: cy, world: WorldSize(vp.Zoom)}
}

// Project returns the micro-pixel position of p.
func (pr Projector) Project(p orb.Point) (x, y float64) {
	mx, my := mercator(p)
	return (mx-pr.cx)*pr.world + pr.w/2, (my-pr.cy)*pr.world + pr.h/2
}

// Unproject is the inverse of Project.
func (pr Projector) Unproject(x, y float64) orb.Point {
	return inverseMercator((x-pr.w/2)/pr.world+pr.cx, (y-pr.h/2)/pr.world+pr.cy)
}

// Pan moves the centre by dx, dy micro-pixels.
func (vp Viewport) Pan(dx, dy float64) Viewport {
	x, y := mercator(vp.Center)
	world := WorldSize(vp.Zoom)
	x = math.Mod(x+dx/world+1, 1)
	y = math.Max(0, math.Min(1, y+dy/world))
	vp.Center = inverseMercator(x, y)
	return vp
}

// ZoomBy adds dz to the zoom, clamped to [MinZoom, MaxZoom].
func (vp Viewport) ZoomBy(dz float64) Viewport {
	vp.Zoom = math.Max(MinZoom, math.Min(MaxZoom, vp.Zoom+dz))
	return vp
}
