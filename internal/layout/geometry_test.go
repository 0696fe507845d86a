package layout

import (
	"math"
	"testing"
)

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want float64
	}{
		{"landscape", 800, 600, 800.0 / 600.0},
		{"portrait", 600, 800, 0.75},
		{"zero width", 0, 600, 1},
		{"zero height", 800, 0, 1},
		{"negative", -800, 600, 1},
		{"both negative", -8, -6, 1},
		{"nan", math.NaN(), 1, 1},
		{"inf", math.Inf(1), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AspectRatio(tt.w, tt.h); got != tt.want {
				t.Errorf("AspectRatio(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestCorners_Mirrored(t *testing.T) {
	c := Corners{TopLeft: 1, TopRight: 2, BottomLeft: 3, BottomRight: 4}
	want := Corners{TopLeft: 2, TopRight: 1, BottomLeft: 4, BottomRight: 3}
	if got := c.Mirrored(); got != want {
		t.Errorf("Mirrored() = %+v, want %+v", got, want)
	}
	if got := c.Mirrored().Mirrored(); got != c {
		t.Errorf("double mirror = %+v, want %+v", got, c)
	}
}

func TestCorners_CSS(t *testing.T) {
	tests := []struct {
		c    Corners
		want string
	}{
		{Corners{}, "0 0 0 0"},
		{uniform(12), "12px 12px 12px 12px"},
		{Corners{TopLeft: 12, BottomLeft: 12}, "12px 0 0 12px"},
		{Corners{BottomRight: 7.5}, "0 0 7.5px 0"},
	}
	for _, tt := range tests {
		if got := tt.c.CSS(); got != tt.want {
			t.Errorf("CSS(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestGridHeight(t *testing.T) {
	if got := GridHeight(nil, 400, 2); got != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := GridHeight(photos(4), 400, 2); !approx(got, 400) {
		t.Errorf("quad: got %v, want 400", got)
	}
	if got := GridHeight(photos(5), 300, 4); !approx(got, 90*2+4) {
		t.Errorf("mosaic: got %v, want 184", got)
	}
	want := Compute(photos(1), DefaultConfig()).TotalHeight
	if got := GridHeight(photos(1), 400, 2); got != want {
		t.Errorf("single: got %v, want %v", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		alt          string
		index, total int
		want         string
	}{
		{"", 0, 3, "Image 1, 1 of 3"},
		{"Sunset", 1, 3, "Sunset, 2 of 3"},
		{"", 4, 5, "Image 5, 5 of 5"},
	}
	for _, tt := range tests {
		if got := Label(tt.alt, tt.index, tt.total); got != tt.want {
			t.Errorf("Label(%q, %d, %d) = %q, want %q", tt.alt, tt.index, tt.total, got, tt.want)
		}
	}
}
