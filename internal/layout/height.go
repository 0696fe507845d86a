package layout

import "fmt"

// GridHeight returns the height a grid of items will occupy at the given
// width and gap, for sizing rows of a virtualized list before rendering.
// Corner radius and direction do not affect height.
func GridHeight(items []Dimensions, maxWidth, gap float64) float64 {
	if len(items) == 0 {
		return 0
	}
	cfg := DefaultConfig()
	cfg.MaxWidth = maxWidth
	cfg.Gap = gap
	return Compute(items, cfg).TotalHeight
}

// Label is the accessible name of item index within a grid of total items,
// e.g. "Sunset, 2 of 3". An empty alt falls back to "Image N".
func Label(alt string, index, total int) string {
	if alt == "" {
		alt = fmt.Sprintf("Image %d", index+1)
	}
	return fmt.Sprintf("%s, %d of %d", alt, index+1, total)
}
