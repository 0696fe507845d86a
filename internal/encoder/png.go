package encoder

import (
	"bytes"
	"context"
	"image"
	"image/png"
)

// PNGEncoder encodes previews to PNG using Go's standard library. It is
// the only built-in format that keeps the transparent rounded corners.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }
func (e *PNGEncoder) Alpha() bool       { return true }

func (e *PNGEncoder) Encode(ctx context.Context, img image.Image, _ int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(64 * 1024) // grids are small and mostly smooth gradients

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
