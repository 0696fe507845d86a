package profile

import (
	"sort"

	"github.com/AnyUserName/mediagrid/internal/layout"
)

// Profile defines grid geometry and preview output for a target surface.
type Profile struct {
	Name    string
	Layout  layout.Config // grid width, gap and corner radius at 1x
	Formats []string      // preview formats in priority order
	Quality int           // encoding quality 1-100 (lossy formats only)
	Retina  bool          // also render 2x previews
}

// DefaultName is the profile used when none is requested.
const DefaultName = "chat"

// Built-in profiles.
var profiles = map[string]Profile{
	"chat": {
		Name:    "chat",
		Layout:  layout.DefaultConfig(),
		Formats: []string{"png", "jpeg"},
		Quality: 82,
		Retina:  true,
	},
	"chat-compact": {
		Name:    "chat-compact",
		Layout:  layout.Config{MaxWidth: 320, Gap: 2, BorderRadius: 10},
		Formats: []string{"png", "jpeg"},
		Quality: 80,
		Retina:  true,
	},
	"chat-wide": {
		Name:    "chat-wide",
		Layout:  layout.Config{MaxWidth: 560, Gap: 4, BorderRadius: 16},
		Formats: []string{"png", "jpeg"},
		Quality: 85,
		Retina:  true,
	},
	"minimal": {
		Name:    "minimal",
		Layout:  layout.DefaultConfig(),
		Formats: []string{"jpeg"},
		Quality: 75,
		Retina:  false,
	},
}

// Get returns a profile by name. Falls back to chat if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles[DefaultName].clone()
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Scales returns the device pixel ratios to render, ascending.
func (p Profile) Scales() []int {
	if p.Retina {
		return []int{1, 2}
	}
	return []int{1}
}

// Scaled returns the layout config multiplied by a device pixel ratio.
// RTL is preserved.
func (p Profile) Scaled(scale int) layout.Config {
	cfg := p.Layout
	if scale <= 1 {
		return cfg
	}
	s := float64(scale)
	cfg.MaxWidth *= s
	cfg.Gap *= s
	cfg.BorderRadius *= s
	return cfg
}

func (p Profile) clone() Profile {
	p.Formats = append([]string(nil), p.Formats...)
	return p
}
