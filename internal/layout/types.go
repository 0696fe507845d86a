package layout

// MaxItems is the largest number of media items a grid places.
// Items past this index are dropped.
const MaxItems = 5

// Dimensions is the intrinsic size of one media item.
// Values may be zero, negative or NaN; see AspectRatio.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Config controls the outer geometry of a grid. All values are pixels.
type Config struct {
	MaxWidth     float64 `json:"max_width"`     // fixed outer width of the grid
	Gap          float64 `json:"gap"`           // spacing between adjacent cells
	BorderRadius float64 `json:"border_radius"` // applied to the four outer corners only
	RTL          bool    `json:"rtl"`
}

// DefaultConfig returns the stock chat grid: 400px wide, 2px gaps, 12px corners.
func DefaultConfig() Config {
	return Config{
		MaxWidth:     400,
		Gap:          2,
		BorderRadius: 12,
	}
}

// Corners holds independent per-corner radii.
type Corners struct {
	TopLeft     float64 `json:"top_left"`
	TopRight    float64 `json:"top_right"`
	BottomLeft  float64 `json:"bottom_left"`
	BottomRight float64 `json:"bottom_right"`
}

// Cell is the geometry of one grid slot.
type Cell struct {
	Index   int     `json:"index"` // position of the source item
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Corners Corners `json:"corners"`
}

// Result is a composed grid.
type Result struct {
	Cells       []Cell  `json:"cells"`
	TotalWidth  float64 `json:"total_width"`
	TotalHeight float64 `json:"total_height"`
}
