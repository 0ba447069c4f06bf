package pointcloud

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Height ramp parameters: hue runs from 0.6 (lowest) to 0 (highest).
const (
	rampHueSpan    = 0.6
	rampSaturation = 1.0
	rampLightness  = 0.5
)

// HeightColor maps a normalised height in [0, 1] onto the ramp.
func HeightColor(normalizedZ float64) colorful.Color {
	return colorful.Hsl((1-normalizedZ)*rampHueSpan*360, rampSaturation, rampLightness)
}

// Colorize returns one RGB triple per point, coloured by height. A flat
// cloud gets the colour of normalised height 0 everywhere.
func Colorize(positions []float32) []float32 {
	n := len(positions) / 3
	out := make([]float32, n*3)
	if n == 0 {
		return out
	}
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i := 2; i < n*3; i += 3 {
		z := float64(positions[i])
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	rangeZ := maxZ - minZ
	for i := 0; i < n; i++ {
		nz := 0.0
		if rangeZ != 0 {
			nz = (float64(positions[i*3+2]) - minZ) / rangeZ
		}
		c := HeightColor(nz)
		out[i*3] = float32(c.R)
		out[i*3+1] = float32(c.G)
		out[i*3+2] = float32(c.B)
	}
	return out
}
