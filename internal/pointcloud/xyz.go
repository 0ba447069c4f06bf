package pointcloud

import (
	"context"
	"strconv"
	"strings"

	"geoview/internal/format"
)

// XYZDecoder reads plain "x y z [r g b]" records, one per line. Fields may
// be separated by whitespace or commas; lines starting with # are comments.
type XYZDecoder struct{}

func splitXYZ(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

// Decode implements Decoder.
func (XYZDecoder) Decode(ctx context.Context, data []byte, fn ProgressFunc) (*Buffer, error) {
	if len(data) == 0 {
		return nil, format.ErrEmptyInput
	}
	p := newProgress(len(data), fn)
	r := &lineReader{data: data}
	b := &Buffer{}
	var colors []float32
	var maxChannel float32
	withColor, withoutColor := 0, 0
	n := 0
	for {
		ln, ok := r.next()
		if !ok {
			break
		}
		s := strings.TrimSpace(string(ln))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		tok := strings.FieldsFunc(s, splitXYZ)
		if len(tok) < 3 {
			return nil, format.Errorf("xyz", "line %d: want at least 3 values, got %d", r.line, len(tok))
		}
		for _, t := range tok[:3] {
			v, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, format.Wrap("xyz", "line "+strconv.Itoa(r.line)+": invalid coordinate", err)
			}
			b.Positions = append(b.Positions, float32(v))
		}
		if len(tok) >= 6 {
			withColor++
			for _, t := range tok[3:6] {
				v, err := strconv.ParseFloat(t, 64)
				if err != nil {
					return nil, format.Wrap("xyz", "line "+strconv.Itoa(r.line)+": invalid colour", err)
				}
				c := float32(v)
				if c > maxChannel {
					maxChannel = c
				}
				colors = append(colors, c)
			}
		} else {
			withoutColor++
		}
		if withColor > 0 && withoutColor > 0 {
			return nil, format.Errorf("xyz", "unsupported field layout: line %d mixes coloured and uncoloured records", r.line)
		}
		n++
		if err := p.tick(ctx, n, r.pos); err != nil {
			return nil, err
		}
	}
	if n == 0 {
		return nil, format.Errorf("xyz", "no points found")
	}
	if withColor > 0 {
		// 8-bit channels are rescaled; unit-range channels are kept
		if maxChannel > 1 {
			for i := range colors {
				colors[i] /= 255
			}
		}
		b.Colors = colors
	}
	p.finish()
	return b, nil
}
