package thumbhash

import (
	"image"
	"image/color"
)

// Raster is a decoded placeholder: row-major, four bytes per pixel
// (R, G, B, A), colors not premultiplied by alpha.
type Raster struct {
	Width  int
	Height int
	RGBA   []byte
}

// Image returns an image.NRGBA that shares the raster's pixel buffer.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.RGBA,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Pixel returns the color at (x, y).
func (r *Raster) Pixel(x, y int) color.NRGBA {
	i := (y*r.Width + x) * 4
	p := r.RGBA[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
