package layout

import (
	"math"
	"strconv"
	"strings"
)

// AspectRatio returns w/h, or 1 when either side is not a finite positive
// number. Layouts therefore never divide by zero or flip orientation.
func AspectRatio(w, h float64) float64 {
	if !(w > 0 && h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 1
	}
	return w / h
}

// Aspect is AspectRatio applied to d.
func (d Dimensions) Aspect() float64 {
	return AspectRatio(d.Width, d.Height)
}

// uniform sets all four corners to r.
func uniform(r float64) Corners {
	return Corners{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r}
}

// Mirrored swaps left and right radii. Top and bottom roles are unchanged.
func (c Corners) Mirrored() Corners {
	return Corners{
		TopLeft:     c.TopRight,
		TopRight:    c.TopLeft,
		BottomLeft:  c.BottomRight,
		BottomRight: c.BottomLeft,
	}
}

// IsZero reports whether every corner is square.
func (c Corners) IsZero() bool {
	return c == Corners{}
}

// CSS renders the radii as a border-radius shorthand in CSS order:
// top-left, top-right, bottom-right, bottom-left.
func (c Corners) CSS() string {
	vals := [4]float64{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v == 0 {
			parts[i] = "0"
			continue
		}
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64) + "px"
	}
	return strings.Join(parts, " ")
}
