// Package layout computes pixel geometry for chat-style media grids.
//
// A grid holds one to five items in a fixed visual grammar: a single
// full-width cell, a side-by-side pair, a featured cell with a stacked
// column, a 2x2 quad, or a two-over-three mosaic. Only the first item's
// (or, for pairs, both items') aspect ratio drives height; later cells are
// cropped to the computed row. Outer grid corners receive the configured
// radius and interior corners stay square. Compute is pure and safe for
// concurrent use.
package layout

// Height caps, as fractions of the grid width.
const (
	singleMaxHeight  = 1.2
	pairMaxHeight    = 0.6
	featureMaxHeight = 0.8
	featureShare     = 0.66
	mosaicRowHeight  = 0.3
)

// topology lays out exactly its own number of items.
type topology func(items []Dimensions, cfg Config) Result

// topologies is indexed by clamped item count.
var topologies = [MaxItems + 1]topology{
	1: single,
	2: pair,
	3: feature,
	4: quad,
	5: mosaic,
}

var topologyNames = [MaxItems + 1]string{
	1: "single",
	2: "pair",
	3: "feature",
	4: "quad",
	5: "mosaic",
}

// Topology names the arrangement used for n items, or "" when n < 1.
func Topology(n int) string {
	n = clampCount(n)
	return topologyNames[n]
}

// Compute lays out items under cfg. It never fails: an empty slice yields
// an empty result and items beyond MaxItems are ignored.
func Compute(items []Dimensions, cfg Config) Result {
	n := clampCount(len(items))
	if n == 0 {
		return Result{Cells: []Cell{}}
	}

	res := topologies[n](items[:n], cfg)
	if cfg.RTL {
		res = Mirror(res, cfg.MaxWidth)
	}
	return res
}

// Mirror reflects res horizontally within a grid of width maxWidth and
// swaps left/right corner radii. Mirror(Mirror(r, w), w) returns r.
func Mirror(res Result, maxWidth float64) Result {
	cells := make([]Cell, len(res.Cells))
	for i, c := range res.Cells {
		c.X = maxWidth - c.X - c.Width
		c.Corners = c.Corners.Mirrored()
		cells[i] = c
	}
	res.Cells = cells
	return res
}

func clampCount(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxItems:
		return MaxItems
	}
	return n
}

func single(items []Dimensions, cfg Config) Result {
	w := cfg.MaxWidth
	h := min(w/items[0].Aspect(), cfg.MaxWidth*singleMaxHeight)

	return Result{
		Cells: []Cell{
			{Index: 0, Width: w, Height: h, Corners: uniform(cfg.BorderRadius)},
		},
		TotalWidth:  w,
		TotalHeight: h,
	}
}

func pair(items []Dimensions, cfg Config) Result {
	r := cfg.BorderRadius
	cellW := (cfg.MaxWidth - cfg.Gap) / 2
	// The narrower item sets the height so neither is cropped more than the other.
	aspect := min(items[0].Aspect(), items[1].Aspect())
	h := min(cellW/aspect, cfg.MaxWidth*pairMaxHeight)

	return Result{
		Cells: []Cell{
			{
				Index: 0, Width: cellW, Height: h,
				Corners: Corners{TopLeft: r, BottomLeft: r},
			},
			{
				Index: 1, X: cellW + cfg.Gap, Width: cellW, Height: h,
				Corners: Corners{TopRight: r, BottomRight: r},
			},
		},
		TotalWidth:  cfg.MaxWidth,
		TotalHeight: h,
	}
}

func feature(items []Dimensions, cfg Config) Result {
	r := cfg.BorderRadius
	leftW := (cfg.MaxWidth - cfg.Gap) * featureShare
	rightW := cfg.MaxWidth - leftW - cfg.Gap
	leftH := min(leftW/items[0].Aspect(), cfg.MaxWidth*featureMaxHeight)
	rightH := (leftH - cfg.Gap) / 2
	rightX := leftW + cfg.Gap

	return Result{
		Cells: []Cell{
			{
				Index: 0, Width: leftW, Height: leftH,
				Corners: Corners{TopLeft: r, BottomLeft: r},
			},
			{
				Index: 1, X: rightX, Width: rightW, Height: rightH,
				Corners: Corners{TopRight: r},
			},
			{
				Index: 2, X: rightX, Y: rightH + cfg.Gap, Width: rightW, Height: rightH,
				Corners: Corners{BottomRight: r},
			},
		},
		TotalWidth:  cfg.MaxWidth,
		TotalHeight: leftH,
	}
}

func quad(_ []Dimensions, cfg Config) Result {
	size := (cfg.MaxWidth - cfg.Gap) / 2
	cells := make([]Cell, 4)
	for i := range cells {
		row, col := i/2, i%2
		cells[i] = Cell{
			Index:   i,
			X:       float64(col) * (size + cfg.Gap),
			Y:       float64(row) * (size + cfg.Gap),
			Width:   size,
			Height:  size,
			Corners: quadCorner(i, cfg.BorderRadius),
		}
	}

	return Result{
		Cells:       cells,
		TotalWidth:  cfg.MaxWidth,
		TotalHeight: size*2 + cfg.Gap,
	}
}

// quadCorner rounds the single outer corner of cell i in a 2x2 grid.
func quadCorner(i int, r float64) Corners {
	var c Corners
	switch i {
	case 0:
		c.TopLeft = r
	case 1:
		c.TopRight = r
	case 2:
		c.BottomLeft = r
	case 3:
		c.BottomRight = r
	}
	return c
}

func mosaic(_ []Dimensions, cfg Config) Result {
	r := cfg.BorderRadius
	topW := (cfg.MaxWidth - cfg.Gap) / 2
	bottomW := (cfg.MaxWidth - cfg.Gap*2) / 3
	rowH := cfg.MaxWidth * mosaicRowHeight
	bottomY := rowH + cfg.Gap

	return Result{
		Cells: []Cell{
			{Index: 0, Width: topW, Height: rowH, Corners: Corners{TopLeft: r}},
			{Index: 1, X: topW + cfg.Gap, Width: topW, Height: rowH, Corners: Corners{TopRight: r}},
			{Index: 2, Y: bottomY, Width: bottomW, Height: rowH, Corners: Corners{BottomLeft: r}},
			{Index: 3, X: bottomW + cfg.Gap, Y: bottomY, Width: bottomW, Height: rowH},
			{Index: 4, X: (bottomW + cfg.Gap) * 2, Y: bottomY, Width: bottomW, Height: rowH, Corners: Corners{BottomRight: r}},
		},
		TotalWidth:  cfg.MaxWidth,
		TotalHeight: rowH*2 + cfg.Gap,
	}
}
