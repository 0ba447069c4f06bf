package session

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

// Light is an ambient light when Direction is zero, otherwise a directional
// light shining from Direction.
type Light struct {
	Intensity float64
	Direction r3.Vector
}

// Lights is the fixed scene lighting.
type Lights struct {
	Ambient     Light
	Directional Light
}

// DefaultLights is half ambient plus half from straight above.
func DefaultLights() Lights {
	return Lights{
		Ambient:     Light{Intensity: 0.5},
		Directional: Light{Intensity: 0.5, Direction: r3.Vector{Y: 1}},
	}
}

// Shade applies Lambert lighting for normal n to c.
func (l Lights) Shade(c colorful.Color, n r3.Vector) colorful.Color {
	k := l.Ambient.Intensity
	if n.Norm() > 0 && l.Directional.Direction.Norm() > 0 {
		k += l.Directional.Intensity * math.Max(0, n.Normalize().Dot(l.Directional.Direction.Normalize()))
	}
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}.Clamped()
}
