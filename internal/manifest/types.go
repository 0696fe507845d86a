package manifest

// Manifest is the top-level output of a mediagrid render.
type Manifest struct {
	Version     int                     `json:"version"`
	GeneratedAt string                  `json:"generated_at"`
	Profile     string                  `json:"profile"`
	BasePath    string                  `json:"base_path"`
	BuildInfo   *BuildInfo              `json:"build_info,omitempty"`
	Messages    map[string]MessageEntry `json:"messages"` // keyed by <document>/<message id>
	Failures    map[string]string       `json:"failures,omitempty"`
	Stats       Stats                   `json:"stats"`
}

// BuildInfo captures render-time parameters for diagnostics.
type BuildInfo struct {
	Workers         int `json:"workers"`
	LayoutHits      int `json:"layout_cache_hits"`
	PlaceholderHits int `json:"placeholder_cache_hits"`
}

// MessageEntry is the rendered grid of one message.
type MessageEntry struct {
	Topology string      `json:"topology"`
	RTL      bool        `json:"rtl,omitempty"`
	Width    float64     `json:"width"`  // at 1x
	Height   float64     `json:"height"` // at 1x
	Dropped  int         `json:"dropped,omitempty"`
	Cells    []CellEntry `json:"cells"`
	Variants []Variant   `json:"variants"`
}

// Placeholder kinds.
const (
	PlaceholderThumbHash = "thumbhash"
	PlaceholderFlat      = "flat"
)

// CellEntry is one grid slot at 1x, ready for a client to position.
type CellEntry struct {
	Index       int       `json:"index"`
	Type        MediaType `json:"type"`
	Src         string    `json:"src"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Radius      string    `json:"border_radius"` // CSS shorthand
	Label       string    `json:"aria_label"`
	Duration    string    `json:"duration,omitempty"` // M:SS, video only
	Placeholder string    `json:"placeholder"`        // thumbhash or flat
	AvgColor    *[3]uint8 `json:"avg_color,omitempty"`
	Warning     string    `json:"warning,omitempty"` // why a flat fallback was used
}

// Variant is one encoded preview of a message grid.
type Variant struct {
	Format string `json:"format"` // "png", "jpeg"
	Scale  int    `json:"scale"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates render metrics.
type Stats struct {
	TotalMessages    int            `json:"total_messages"`
	TotalCells       int            `json:"total_cells"`
	TotalVariants    int            `json:"total_variants"`
	TotalOutputBytes int64          `json:"total_output_bytes"`
	FlatFallbacks    int            `json:"flat_fallbacks,omitempty"`
	FailedMessages   int            `json:"failed_messages,omitempty"`
	Topologies       map[string]int `json:"topologies,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
