package encoder

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// JPEGEncoder encodes previews to JPEG. Transparent pixels are flattened
// onto Background first, since JPEG has no alpha channel.
type JPEGEncoder struct {
	Background color.Color // nil means white
}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpeg" }
func (e *JPEGEncoder) Available() bool   { return true }
func (e *JPEGEncoder) Alpha() bool       { return false }

func (e *JPEGEncoder) Encode(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(32 * 1024)

	err := jpeg.Encode(&buf, flatten(img, e.Background), &jpeg.Options{Quality: clampQuality(quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites img over an opaque background of the same size.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	if bg == nil {
		bg = color.White
	}
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
