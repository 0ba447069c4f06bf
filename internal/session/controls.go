package session

import (
	"math"

	"github.com/golang/geo/r3"
)

const polarEpsilon = 1e-4

// Controls orbit a camera around its target. Every change notifies the
// change listeners.
type Controls struct {
	cam     *Camera
	changes listeners[func()]
	enabled bool

	MinDistance float64
	MaxDistance float64
}

func newControls(cam *Camera) *Controls {
	return &Controls{cam: cam, enabled: true, MaxDistance: math.Inf(1)}
}

// OnChange registers fn and returns its removal.
func (c *Controls) OnChange(fn func()) (off func()) { return c.changes.add(fn) }

// Listeners returns the number of change listeners.
func (c *Controls) Listeners() int { return c.changes.len() }

func (c *Controls) changed() {
	for _, fn := range c.changes.snapshot() {
		fn()
	}
}

// spherical returns the camera offset from the target as radius, azimuth
// (around +Y, from +Z) and polar angle (from +Y).
func (c *Controls) spherical() (r, theta, phi float64) {
	off := c.cam.Position.Sub(c.cam.Target)
	r = off.Norm()
	if r == 0 {
		return 0, 0, math.Pi / 2
	}
	theta = math.Atan2(off.X, off.Z)
	phi = math.Acos(math.Max(-1, math.Min(1, off.Y/r)))
	return r, theta, phi
}

func (c *Controls) place(r, theta, phi float64) {
	s := math.Sin(phi)
	c.cam.Position = c.cam.Target.Add(r3.Vector{
		X: r * s * math.Sin(theta),
		Y: r * math.Cos(phi),
		Z: r * s * math.Cos(theta),
	})
}

// Rotate turns the camera around the target by the given angles in
// radians. The polar angle stays clear of the poles.
func (c *Controls) Rotate(azimuth, polar float64) {
	if !c.enabled {
		return
	}
	r, theta, phi := c.spherical()
	if r == 0 {
		return
	}
	phi = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, phi+polar))
	c.place(r, theta+azimuth, phi)
	c.changed()
}

// Dolly scales the distance to the target; factor < 1 moves closer.
func (c *Controls) Dolly(factor float64) {
	if !c.enabled || factor <= 0 {
		return
	}
	r, theta, phi := c.spherical()
	if r == 0 {
		return
	}
	r = math.Max(c.MinDistance, math.Min(c.MaxDistance, r*factor))
	c.place(r, theta, phi)
	c.changed()
}

// Pan slides camera and target across the view plane. dx and dy are
// fractions of the visible height at the target distance.
func (c *Controls) Pan(dx, dy float64) {
	if !c.enabled {
		return
	}
	_, right, up := c.cam.basis()
	dist := c.cam.Position.Sub(c.cam.Target).Norm()
	visible := 2 * dist * math.Tan(c.cam.FOV*math.Pi/360)
	move := right.Mul(dx * visible).Add(up.Mul(dy * visible))
	c.cam.Position = c.cam.Position.Add(move)
	c.cam.Target = c.cam.Target.Add(move)
	c.changed()
}

func (c *Controls) disable() { c.enabled = false }
