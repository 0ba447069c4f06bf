package pointcloud

import "github.com/golang/geo/r3"

// computeVertexNormals accumulates area-weighted face normals per vertex.
// Without indices, consecutive position triples are treated as triangles.
func computeVertexNormals(pos []float32, indices []uint32) []float32 {
	n := len(pos) / 3
	at := func(i uint32) r3.Vector {
		return r3.Vector{X: float64(pos[i*3]), Y: float64(pos[i*3+1]), Z: float64(pos[i*3+2])}
	}
	faceNormal := func(a, b, c uint32) r3.Vector {
		pb := at(b)
		return at(c).Sub(pb).Cross(at(a).Sub(pb))
	}
	acc := make([]r3.Vector, n)
	if len(indices) > 0 {
		for t := 0; t+2 < len(indices); t += 3 {
			a, b, c := indices[t], indices[t+1], indices[t+2]
			fn := faceNormal(a, b, c)
			acc[a] = acc[a].Add(fn)
			acc[b] = acc[b].Add(fn)
			acc[c] = acc[c].Add(fn)
		}
	} else {
		for i := 0; i+2 < n; i += 3 {
			a := uint32(i)
			fn := faceNormal(a, a+1, a+2)
			acc[a], acc[a+1], acc[a+2] = fn, fn, fn
		}
	}
	out := make([]float32, n*3)
	for i, v := range acc {
		v = v.Normalize()
		out[i*3] = float32(v.X)
		out[i*3+1] = float32(v.Y)
		out[i*3+2] = float32(v.Z)
	}
	return out
}
