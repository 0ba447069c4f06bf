// Package pointcloud decodes point-cloud files into flat position buffers and
// prepares them for display: non-finite filtering, bounding box, camera
// framing and height colouring.
package pointcloud

import "github.com/golang/geo/r3"

// Buffer holds decoded points as parallel flat float32 slices.
// Colors and Normals are nil when absent; when present they hold exactly
// one triple per point.
type Buffer struct {
	Positions []float32
	Colors    []float32 // RGB in 0..1
	Normals   []float32
}

// Len returns the number of points.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Positions) / 3
}

// HasColors reports whether the buffer carries one colour per point.
func (b *Buffer) HasColors() bool {
	return b != nil && len(b.Colors) > 0 && len(b.Colors) == len(b.Positions)
}

// HasNormals reports whether the buffer carries one normal per point.
func (b *Buffer) HasNormals() bool {
	return b != nil && len(b.Normals) > 0 && len(b.Normals) == len(b.Positions)
}

// At returns point i as a vector.
func (b *Buffer) At(i int) r3.Vector {
	return r3.Vector{
		X: float64(b.Positions[i*3]),
		Y: float64(b.Positions[i*3+1]),
		Z: float64(b.Positions[i*3+2]),
	}
}

// ColorAt returns the colour of point i, or ok=false when there are none.
func (b *Buffer) ColorAt(i int) (r, g, bl float32, ok bool) {
	if !b.HasColors() {
		return 0, 0, 0, false
	}
	return b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2], true
}
