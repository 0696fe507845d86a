package pipeline

import (
	"image"
	"image/color"
	"math"

	"github.com/AnyUserName/mediagrid/internal/layout"
	"github.com/AnyUserName/mediagrid/internal/thumbhash"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic Bezier control points for a quarter circle.
const kappa = 0.5522847498

// tile is what one cell shows: a decoded placeholder over a flat fill,
// or the flat fill alone when raster is nil.
type tile struct {
	raster *thumbhash.Raster
	fill   color.NRGBA
}

// pixelRect snaps cell geometry to whole pixels. Edges round
// independently so neighbours keep the gap between them.
func pixelRect(c layout.Cell) image.Rectangle {
	x0 := int(math.Round(c.X))
	y0 := int(math.Round(c.Y))
	x1 := int(math.Round(c.X + c.Width))
	y1 := int(math.Round(c.Y + c.Height))
	return image.Rect(x0, y0, x1, y1)
}

// compose paints a grid preview: each cell's tile, clipped to its rounded
// corners, on a transparent canvas of the grid's total size.
func compose(res layout.Result, tiles []tile) *image.NRGBA {
	w := int(math.Round(res.TotalWidth))
	h := int(math.Round(res.TotalHeight))
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))

	for i, c := range res.Cells {
		r := pixelRect(c).Intersect(canvas.Bounds())
		if r.Empty() {
			continue
		}
		src := paintTile(tiles[i], r.Dx(), r.Dy())
		mask := roundedMask(r.Dx(), r.Dy(), c.Corners)
		draw.DrawMask(canvas, r, src, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return canvas
}

// paintTile scales the placeholder to cover w x h, cropping the overflow
// around the center, over an opaque fill.
func paintTile(t tile, w, h int) *image.NRGBA {
	bg := imaging.New(w, h, t.fill)
	if t.raster == nil {
		return bg
	}
	cover := imaging.Fill(t.raster.Image(), w, h, imaging.Center, imaging.Linear)
	return imaging.Overlay(bg, cover, image.Pt(0, 0), 1.0)
}

// roundedMask rasterizes a w x h rectangle with independent corner radii.
// Radii larger than half the shorter side are clamped.
func roundedMask(w, h int, c layout.Corners) *image.Alpha {
	fw, fh := float32(w), float32(h)
	limit := min(fw, fh) / 2
	clamp := func(r float64) float32 {
		return max(0, min(float32(r), limit))
	}
	tl, tr := clamp(c.TopLeft), clamp(c.TopRight)
	br, bl := clamp(c.BottomRight), clamp(c.BottomLeft)

	z := vector.NewRasterizer(w, h)
	z.MoveTo(tl, 0)
	z.LineTo(fw-tr, 0)
	z.CubeTo(fw-tr+kappa*tr, 0, fw, tr-kappa*tr, fw, tr)
	z.LineTo(fw, fh-br)
	z.CubeTo(fw, fh-br+kappa*br, fw-br+kappa*br, fh, fw-br, fh)
	z.LineTo(bl, fh)
	z.CubeTo(bl-kappa*bl, fh, 0, fh-bl+kappa*bl, 0, fh-bl)
	z.LineTo(0, tl)
	z.CubeTo(0, tl-kappa*tl, tl-kappa*tl, 0, tl, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
