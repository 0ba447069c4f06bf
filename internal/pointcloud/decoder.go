package pointcloud

import (
	"context"
	"fmt"

	"geoview/internal/format"
)

// Decoder turns the raw bytes of one point-cloud dialect into a Buffer.
// Implementations keep no state between calls.
type Decoder interface {
	Decode(ctx context.Context, data []byte, progress ProgressFunc) (*Buffer, error)
}

// NewDecoder returns the decoder for a point-cloud subformat. PCD and TXT
// share the header/record grammar.
func NewDecoder(sub format.Subformat) (Decoder, error) {
	switch sub {
	case format.PCD, format.TXT:
		return PCDDecoder{}, nil
	case format.XYZ:
		return XYZDecoder{}, nil
	case format.PLY:
		return PLYDecoder{}, nil
	}
	return nil, fmt.Errorf("%w: point-cloud subformat %q", format.ErrUnsupportedFormat, sub)
}

// Decode checks the input, picks a fresh decoder for sub and runs it.
func Decode(ctx context.Context, data []byte, sub format.Subformat, progress ProgressFunc) (*Buffer, error) {
	if len(data) == 0 {
		return nil, format.ErrEmptyInput
	}
	dec, err := NewDecoder(sub)
	if err != nil {
		return nil, err
	}
	return dec.Decode(ctx, data, progress)
}
