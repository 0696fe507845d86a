package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AnyUserName/mediagrid/internal/layout"
	"github.com/AnyUserName/mediagrid/internal/logging"
	"github.com/AnyUserName/mediagrid/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type layoutOptions struct {
	profile    string
	maxWidth   float64
	gap        float64
	radius     float64
	rtl        bool
	heightOnly bool
}

// layoutOutput is the JSON shape printed by the layout command.
type layoutOutput struct {
	Topology string `json:"topology"`
	layout.Result
}

func newLayoutCmd() *cobra.Command {
	var o layoutOptions

	c := &cobra.Command{
		Use:   "layout <WxH>...",
		Short: "Compute grid cell geometry for media dimensions",
		Long: `Prints the grid for up to 5 media items as JSON. Each argument is
the intrinsic size of one item, e.g. 800x600. Items past the fifth are
ignored; zero or invalid sizes fall back to a square.`,
		Example: "  mediagrid layout 800x600 600x800 1920x1080 --rtl",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, o, args)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.profile, "profile", "p", profile.DefaultName, "profile supplying the base geometry")
	f.Float64Var(&o.maxWidth, "max-width", 0, "grid width in pixels (overrides profile)")
	f.Float64Var(&o.gap, "gap", 0, "gap between cells in pixels (overrides profile)")
	f.Float64Var(&o.radius, "radius", 0, "outer corner radius in pixels (overrides profile)")
	f.BoolVar(&o.rtl, "rtl", false, "mirror the grid for right-to-left conversations")
	f.BoolVar(&o.heightOnly, "height-only", false, "print only the grid height")
	return c
}

func runLayout(cmd *cobra.Command, o layoutOptions, args []string) error {
	items, err := parseDimensions(args)
	if err != nil {
		return err
	}

	if !profile.Known(o.profile) {
		logging.GetLogger().Warn("unknown profile, using defaults",
			zap.String("profile", o.profile), zap.Strings("known", profile.Names()))
	}
	cfg := profile.Get(o.profile).Layout
	flags := cmd.Flags()
	if flags.Changed("max-width") {
		cfg.MaxWidth = o.maxWidth
	}
	if flags.Changed("gap") {
		cfg.Gap = o.gap
	}
	if flags.Changed("radius") {
		cfg.BorderRadius = o.radius
	}
	cfg.RTL = o.rtl

	if cfg.MaxWidth <= 0 {
		return fmt.Errorf("max-width must be positive, got %g", cfg.MaxWidth)
	}
	if cfg.Gap < 0 || cfg.BorderRadius < 0 {
		return errors.New("gap and radius must not be negative")
	}

	out := cmd.OutOrStdout()
	if o.heightOnly {
		h := layout.GridHeight(items, cfg.MaxWidth, cfg.Gap)
		_, err := fmt.Fprintln(out, strconv.FormatFloat(h, 'f', -1, 64))
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(layoutOutput{
		Topology: layout.Topology(len(items)),
		Result:   layout.Compute(items, cfg),
	})
}

// parseDimensions reads WxH arguments. Non-positive and non-finite values
// are accepted; the layout engine substitutes its fallbacks.
func parseDimensions(args []string) ([]layout.Dimensions, error) {
	items := make([]layout.Dimensions, 0, len(args))
	for _, arg := range args {
		ws, hs, ok := strings.Cut(strings.ToLower(arg), "x")
		if !ok {
			return nil, fmt.Errorf("invalid dimensions %q: want WxH", arg)
		}
		w, err := strconv.ParseFloat(ws, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid width in %q: %w", arg, err)
		}
		h, err := strconv.ParseFloat(hs, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid height in %q: %w", arg, err)
		}
		items = append(items, layout.Dimensions{Width: w, Height: h})
	}
	return items, nil
}
