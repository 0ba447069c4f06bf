package session

import (
	"math"

	"github.com/golang/geo/r3"

	"geoview/internal/pointcloud"
)

// Perspective defaults.
const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

var worldUp = r3.Vector{Y: 1}

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position r3.Vector
	Target   r3.Vector
}

// NewCamera returns a camera at (0, 0, 5) looking at the origin.
func NewCamera(aspect float64) Camera {
	return Camera{
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: r3.Vector{Z: 5},
	}
}

// Frame moves the camera onto f. Near and far widen with the distance so
// very small and very large clouds stay between the clip planes.
func (c *Camera) Frame(f pointcloud.CameraFrame) {
	c.Position, c.Target = f.Position, f.Target
	d := f.Distance()
	c.Near = math.Min(DefaultNear, d*0.01)
	c.Far = math.Max(DefaultFar, d*10)
}

// basis returns the camera's forward, right and up unit vectors.
func (c Camera) basis() (fwd, right, up r3.Vector) {
	fwd = c.Target.Sub(c.Position).Normalize()
	right = fwd.Cross(worldUp)
	if right.Norm() < 1e-9 {
		// looking straight up or down
		right = r3.Vector{X: 1}
	}
	right = right.Normalize()
	up = right.Cross(fwd)
	return fwd, right, up
}

// Projector caches the camera basis for projecting many points.
type Projector struct {
	cam       Camera
	fwd       r3.Vector
	right, up r3.Vector
	f         float64
	w, h      float64
}

// Projector returns a projector onto a w x h pixel surface.
func (c Camera) Projector(w, h int) Projector {
	fwd, right, up := c.basis()
	return Projector{
		cam: c, fwd: fwd, right: right, up: up,
		f: 1 / math.Tan(c.FOV*math.Pi/360),
		w: float64(w), h: float64(h),
	}
}

// Project maps p to surface pixels. depth is the distance along the view
// axis; ok is false outside the near and far planes.
func (p Projector) Project(v r3.Vector) (x, y, depth float64, ok bool) {
	rel := v.Sub(p.cam.Position)
	depth = rel.Dot(p.fwd)
	if depth < p.cam.Near || depth > p.cam.Far {
		return 0, 0, depth, false
	}
	aspect := p.cam.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	nx := rel.Dot(p.right) * p.f / (aspect * depth)
	ny := rel.Dot(p.up) * p.f / depth
	return (nx + 1) / 2 * p.w, (1 - ny) / 2 * p.h, depth, true
}
