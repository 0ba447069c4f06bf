package pointcloud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/format"
)

func TestNewDecoder(t *testing.T) {
	tests := []struct {
		sub  format.Subformat
		want Decoder
	}{
		{format.PCD, PCDDecoder{}},
		{format.TXT, PCDDecoder{}},
		{format.XYZ, XYZDecoder{}},
		{format.PLY, PLYDecoder{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sub), func(t *testing.T) {
			d, err := NewDecoder(tt.sub)
			require.NoError(t, err)
			assert.IsType(t, tt.want, d)
		})
	}

	_, err := NewDecoder("las")
	assert.ErrorIs(t, err, format.ErrUnsupportedFormat)
}

func TestDecodeEmptyInputFirst(t *testing.T) {
	// empty input wins even over an unsupported subformat
	_, err := Decode(context.Background(), nil, "las", nil)
	assert.ErrorIs(t, err, format.ErrEmptyInput)

	for _, sub := range []format.Subformat{format.PCD, format.XYZ, format.PLY} {
		_, err := Decode(context.Background(), []byte{}, sub, nil)
		assert.ErrorIs(t, err, format.ErrEmptyInput, sub)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(context.Background(), []byte("1 2 3"), "", nil)
	assert.ErrorIs(t, err, format.ErrUnsupportedFormat)
}

func TestDecodeDispatches(t *testing.T) {
	buf, err := Decode(context.Background(), []byte("1 2 3\n"), format.XYZ, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Len())
	assert.Equal(t, 3.0, buf.At(0).Z)
}

func TestEstimate(t *testing.T) {
	n, ok := Estimate(asciiPCD(samplePoints), format.PCD)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = Estimate(asciiPLY(), format.PLY)
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = Estimate([]byte("# c\n1 2 3\n\n4 5 6\n"), format.XYZ)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = Estimate([]byte("VERSION .7\n"), format.PCD)
	assert.False(t, ok)
	_, ok = Estimate(nil, format.XYZ)
	assert.False(t, ok)
}
