package pointcloud

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/format"
)

const plySquareHeader = `ply
format %s 1.0
comment unit square in the z=0 plane
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
`

var plySquare = []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}

func plyHeaderText(fmtName string) string {
	return strings.Replace(plySquareHeader, "%s", fmtName, 1)
}

func asciiPLY() []byte {
	return []byte(plyHeaderText("ascii") +
		"0 0 0 255 0 0\n1 0 0 0 255 0\n1 1 0 0 0 255\n0 1 0 255 255 255\n" +
		"4 0 1 2 3\n")
}

func binaryPLY(order binary.ByteOrder, name string) []byte {
	var b bytes.Buffer
	b.WriteString(plyHeaderText(name))
	colors := [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}}
	for i := 0; i < 4; i++ {
		_ = binary.Write(&b, order, plySquare[i*3:i*3+3])
		_ = binary.Write(&b, order, colors[i])
	}
	b.WriteByte(4)
	_ = binary.Write(&b, order, []int32{0, 1, 2, 3})
	return b.Bytes()
}

func TestPLYEncodingsAgree(t *testing.T) {
	inputs := map[string][]byte{
		"ascii":                asciiPLY(),
		"binary_little_endian": binaryPLY(binary.LittleEndian, "binary_little_endian"),
		"binary_big_endian":    binaryPLY(binary.BigEndian, "binary_big_endian"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			buf, err := PLYDecoder{}.Decode(context.Background(), data, nil)
			require.NoError(t, err)
			assert.Equal(t, plySquare, buf.Positions)
			require.True(t, buf.HasColors())
			assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1}, buf.Colors)

			// The quad is fanned into two triangles facing +Z.
			require.True(t, buf.HasNormals())
			for i := 0; i < 4; i++ {
				assert.InDelta(t, 0, buf.Normals[i*3], 1e-6)
				assert.InDelta(t, 0, buf.Normals[i*3+1], 1e-6)
				assert.InDelta(t, 1, buf.Normals[i*3+2], 1e-6)
			}
		})
	}
}

func TestPLYPointsOnlyComputesNormals(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 3\nproperty double x\nproperty double y\nproperty double z\nend_header\n" +
		"0 0 0\n1 0 0\n0 0 1\n"
	buf, err := PLYDecoder{}.Decode(context.Background(), []byte(data), nil)
	require.NoError(t, err)
	assert.False(t, buf.HasColors())
	require.True(t, buf.HasNormals())
	for i := 0; i < 3; i++ {
		n := math.Sqrt(float64(buf.Normals[i*3]*buf.Normals[i*3] +
			buf.Normals[i*3+1]*buf.Normals[i*3+1] +
			buf.Normals[i*3+2]*buf.Normals[i*3+2]))
		assert.InDelta(t, 1, n, 1e-6)
	}
}

func TestPLYKeepsFileNormals(t *testing.T) {
	data := "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\n" +
		"property float nx\nproperty float ny\nproperty float nz\nend_header\n1 2 3 0 1 0\n"
	buf, err := PLYDecoder{}.Decode(context.Background(), []byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, buf.Normals)
}

func TestPLYErrors(t *testing.T) {
	full := binaryPLY(binary.LittleEndian, "binary_little_endian")
	tests := []struct {
		name  string
		data  string
		cause string
	}{
		{"no magic", "solid cube\n", "malformed header: missing ply magic"},
		{"no end_header", "ply\nformat ascii 1.0\nelement vertex 1\n", "malformed header: missing end_header"},
		{"no format", "ply\nelement vertex 0\nend_header\n", "malformed header: missing format"},
		{"bad format", "ply\nformat binary_middle_endian 1.0\nend_header\n", "unsupported field layout: format"},
		{"bad property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n", "unsupported field layout"},
		{"no vertex", "ply\nformat ascii 1.0\nelement face 0\nend_header\n", "no vertex element"},
		{"no z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n1 2\n", "lacks x, y or z"},
		{"truncated binary", string(full[:len(full)-3]), "truncated data"},
		{"truncated ascii", plyHeaderText("ascii") + "0 0 0 255 0 0\n", "truncated data"},
		{"vertex count beyond ascii body", "ply\nformat ascii 1.0\nelement vertex 1000000000000\nproperty float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n", "truncated data: element vertex declares 1000000000000 records"},
		{"vertex count beyond binary body", "ply\nformat binary_little_endian 1.0\nelement vertex 1000000000000\nproperty float x\nproperty float y\nproperty float z\nend_header\n" + strings.Repeat("\x00", 12), "truncated data: element vertex"},
		{"face count overflows", "ply\nformat binary_big_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nelement face 4611686018427387904\nproperty list uchar int vertex_indices\nend_header\n" + strings.Repeat("\x00", 13), "truncated data: element face"},
		{"list normal", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nproperty list uchar float nx\nproperty float ny\nproperty float nz\nend_header\n1 2 3 1 0 1 0\n", "vertex property nx is a list"},
		{"list colour channel", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nproperty uchar red\nproperty list uchar uchar green\nproperty uchar blue\nend_header\n1 2 3 1 1 1 1\n", "vertex property green is a list"},
		{"bad face index", plyHeaderText("ascii") + "0 0 0 1 1 1\n1 0 0 1 1 1\n1 1 0 1 1 1\n0 1 0 1 1 1\n3 0 1 9\n", "references vertex 9 of 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PLYDecoder{}.Decode(context.Background(), []byte(tt.data), nil)
			var de *format.DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, "ply", de.Format)
			assert.Contains(t, de.Cause, tt.cause)
		})
	}
}

func TestFan(t *testing.T) {
	assert.Equal(t, []uint32{9, 0, 1, 2, 0, 2, 3}, fan([]uint32{9, 0, 1, 2, 3}, 1))
	assert.Equal(t, []uint32{9}, fan([]uint32{9, 0, 1}, 1))
	assert.Equal(t, []uint32{0, 1, 2}, fan([]uint32{0, 1, 2}, 0))
}
