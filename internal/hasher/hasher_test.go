package hasher

import (
	"math"
	"strings"
	"testing"

	"github.com/AnyUserName/mediagrid/internal/layout"
)

func TestContentHash(t *testing.T) {
	// xxHash64 of the empty input.
	if got := ContentHash(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty: got %s", got)
	}
	if got := ContentHash([]byte("abc"), 8); len(got) != 8 {
		t.Errorf("truncation: got %q", got)
	}
	if ContentHash([]byte("a"), 16) == ContentHash([]byte("b"), 16) {
		t.Error("distinct inputs collided")
	}
}

func TestContentHashReader_MatchesContentHash(t *testing.T) {
	data := strings.Repeat("mediagrid", 1000)
	got, err := ContentHashReader(strings.NewReader(data), 12)
	if err != nil {
		t.Fatal(err)
	}
	if want := ContentHash([]byte(data), 12); got != want {
		t.Errorf("reader %s != bytes %s", got, want)
	}
}

func TestLayoutKey(t *testing.T) {
	items := []layout.Dimensions{{Width: 800, Height: 600}, {Width: 600, Height: 800}}
	cfg := layout.DefaultConfig()
	base := LayoutKey(items, cfg)

	if LayoutKey(items, cfg) != base {
		t.Fatal("not deterministic")
	}

	rtl := cfg
	rtl.RTL = true
	if LayoutKey(items, rtl) == base {
		t.Error("RTL should change the key")
	}

	wider := cfg
	wider.MaxWidth = 401
	if LayoutKey(items, wider) == base {
		t.Error("width should change the key")
	}

	swapped := []layout.Dimensions{items[1], items[0]}
	if LayoutKey(swapped, cfg) == base {
		t.Error("item order should change the key")
	}

	six := make([]layout.Dimensions, 6)
	seven := make([]layout.Dimensions, 7)
	seven[6] = layout.Dimensions{Width: 1, Height: math.NaN()}
	if LayoutKey(six, cfg) != LayoutKey(seven, cfg) {
		t.Error("items past MaxItems should not affect the key")
	}
	if LayoutKey(six[:4], cfg) == LayoutKey(six, cfg) {
		t.Error("count should change the key")
	}
}

func TestStringKey(t *testing.T) {
	if StringKey("abc") != StringKey("abc") || StringKey("abc") == StringKey("abd") {
		t.Error("StringKey is not a stable hash")
	}
}
