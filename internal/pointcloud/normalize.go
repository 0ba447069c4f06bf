package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	// CameraDistanceMultiplier scales the largest box dimension into the
	// camera's distance from the box centre.
	CameraDistanceMultiplier = 2.0
	// MinFramingExtent replaces a zero (or vanishing) max dimension so the
	// camera never coincides with its target.
	MinFramingExtent = 1e-3
)

// BBox is an axis-aligned bounding box. A zero-extent box is valid.
type BBox struct {
	Min, Max r3.Vector
	Empty    bool
}

// Center returns the midpoint of the box.
func (b BBox) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis.
func (b BBox) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// MaxDim returns the largest extent.
func (b BBox) MaxDim() float64 {
	s := b.Size()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

// CameraFrame places a camera so the whole box is in view.
type CameraFrame struct {
	Position r3.Vector
	Target   r3.Vector
}

// Distance is the camera's distance from its target.
func (f CameraFrame) Distance() float64 {
	return f.Position.Sub(f.Target).Norm()
}

// FrameBox looks at the box centre from +Z, at twice the largest extent.
func FrameBox(b BBox) CameraFrame {
	d := b.MaxDim()
	if d < MinFramingExtent {
		d = MinFramingExtent
	}
	c := b.Center()
	return CameraFrame{
		Position: c.Add(r3.Vector{Z: d * CameraDistanceMultiplier}),
		Target:   c,
	}
}

// Normalized is the result of Normalize.
type Normalized struct {
	Buffer  *Buffer
	Dropped int
	BBox    BBox
	Center  r3.Vector
	Size    r3.Vector
	MaxDim  float64
	Frame   CameraFrame
}

// Normalize drops every point with a non-finite coordinate and computes the
// bounding box of the survivors in the same pass. Surviving points, and
// their colours and normals, keep their order. The input is not modified.
func Normalize(b *Buffer) Normalized {
	n := b.Len()
	out := &Buffer{Positions: make([]float32, 0, n*3)}
	colors, normals := b.HasColors(), b.HasNormals()
	if colors {
		out.Colors = make([]float32, 0, n*3)
	}
	if normals {
		out.Normals = make([]float32, 0, n*3)
	}

	inf := math.Inf(1)
	minV := r3.Vector{X: inf, Y: inf, Z: inf}
	maxV := r3.Vector{X: -inf, Y: -inf, Z: -inf}
	dropped := 0
	for i := 0; i < n; i++ {
		j := i * 3
		x, y, z := float64(b.Positions[j]), float64(b.Positions[j+1]), float64(b.Positions[j+2])
		if !finite(x) || !finite(y) || !finite(z) {
			dropped++
			continue
		}
		out.Positions = append(out.Positions, b.Positions[j:j+3]...)
		if colors {
			out.Colors = append(out.Colors, b.Colors[j:j+3]...)
		}
		if normals {
			out.Normals = append(out.Normals, b.Normals[j:j+3]...)
		}
		minV.X, maxV.X = math.Min(minV.X, x), math.Max(maxV.X, x)
		minV.Y, maxV.Y = math.Min(minV.Y, y), math.Max(maxV.Y, y)
		minV.Z, maxV.Z = math.Min(minV.Z, z), math.Max(maxV.Z, z)
	}

	box := BBox{Min: minV, Max: maxV}
	if out.Len() == 0 {
		box = BBox{Empty: true}
	}
	return Normalized{
		Buffer:  out,
		Dropped: dropped,
		BBox:    box,
		Center:  box.Center(),
		Size:    box.Size(),
		MaxDim:  box.MaxDim(),
		Frame:   FrameBox(box),
	}
}

// NormalizePositions is Normalize for a bare position slice.
func NormalizePositions(raw []float32) Normalized {
	return Normalize(&Buffer{Positions: raw})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
