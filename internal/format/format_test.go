package format

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"scan.pcd", Kind{Family: PointCloud, Subformat: PCD}},
		{"SCAN.PCD", Kind{Family: PointCloud, Subformat: PCD}},
		{"points.txt", Kind{Family: PointCloud, Subformat: TXT}},
		{"cloud.Xyz", Kind{Family: PointCloud, Subformat: XYZ}},
		{"mesh.ply", Kind{Family: PointCloud, Subformat: PLY}},
		{"roads.geojson", Kind{Family: Vector}},
		{"roads.JSON", Kind{Family: Vector}},
		{"/tmp/dir.pcd/readme", Kind{Family: Unknown}},
		{"archive.las", Kind{Family: Unknown}},
		{"noext", Kind{Family: Unknown}},
		{"", Kind{Family: Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestExtensionsAreSupported(t *testing.T) {
	for _, ext := range Extensions() {
		assert.True(t, Supported("file"+ext), ext)
	}
	assert.False(t, Supported("file.kml"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "point-cloud/ply", Classify("a.ply").String())
	assert.Equal(t, "gis", Classify("a.geojson").String())
	assert.Equal(t, "unknown", Classify("a.bin").String())
}

func TestDecodeError(t *testing.T) {
	err := Wrap("pcd", "truncated data", io.ErrUnexpectedEOF)
	assert.Equal(t, "pcd: truncated data: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var de *DecodeError
	require.True(t, errors.As(error(Errorf("ply", "bad token %q", "x")), &de))
	assert.Equal(t, `bad token "x"`, de.Cause)
	assert.Equal(t, `ply: bad token "x"`, de.Error())
}
