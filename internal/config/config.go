// Package config loads and validates the notification engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/marout/chime/internal/icons"
)

// Config is the resolved engine configuration. Zero values are filled from
// Default before validation, so a partial TOML file is fine.
type Config struct {
	DefaultTimeout int    `koanf:"default_timeout"` // ms; 0 = sticky by default
	DefaultGroup   string `koanf:"default_group"`
	Border         string `koanf:"border"`       // host border style name
	Transparency   int    `koanf:"transparency"` // 0-100, panel default
	LogFile        string `koanf:"log_file"`     // diagnostics, empty = no log

	Padding   Padding           `koanf:"padding"`
	Width     Width             `koanf:"width"`
	Animation Animation         `koanf:"animation"`
	IconStyle string            `koanf:"icon_style"` // nerd, unicode, text, none
	Icons     map[string]string `koanf:"icons"`      // per-level overrides

	RenderDebounce int `koanf:"render_debounce"` // ms
	ResizeDebounce int `koanf:"resize_debounce"` // ms
	SweepInterval  int `koanf:"sweep_interval"`  // ms

	Groups map[string]Group `koanf:"groups"`
}

// Padding is blank space around panel content, in cells.
type Padding struct {
	Top    int `koanf:"top"`
	Right  int `koanf:"right"`
	Bottom int `koanf:"bottom"`
	Left   int `koanf:"left"`
}

// Width controls adaptive panel sizing.
type Width struct {
	Min       int   `koanf:"min"`
	Max       int   `koanf:"max"`       // 0 = no fixed cap, Percent applies
	Preferred int   `koanf:"preferred"` // 0 = none, use content width
	Percent   int   `koanf:"percent"`   // cap as % of screen columns
	WrapWords *bool `koanf:"wrap_words"`
}

// WordWrap reports whether wrapping happens at word boundaries.
func (w Width) WordWrap() bool {
	return w.WrapWords == nil || *w.WrapWords
}

// Animation controls fades.
type Animation struct {
	Enabled *bool `koanf:"enabled"`
	FadeIn  int   `koanf:"fade_in"`  // ms
	FadeOut int   `koanf:"fade_out"` // ms
	Stagger int   `koanf:"stagger"`  // ms between batch-dismiss fade starts
}

// On reports whether fades are enabled.
func (a Animation) On() bool {
	return a.Enabled == nil || *a.Enabled
}

// Group is the placement of one screen region. The map key is the position
// name ("top-right", "bottom-center", ...). Anchor/Row/Col override the
// position derived from the name; Center shifts the panel by half its size
// on the named axes.
type Group struct {
	Anchor       string `koanf:"anchor"` // NW, NE, SW, SE
	Row          *int   `koanf:"row"`    // absolute override
	Col          *int   `koanf:"col"`
	Margin       int    `koanf:"margin"` // cells from the screen edge
	Transparency *int   `koanf:"transparency"`
	Center       string `koanf:"center"` // "", "both", "row", "col"
}

// DefaultGroupNames is the fixed set of position keys available without
// explicit configuration.
var DefaultGroupNames = []string{
	"top-left", "top-center", "top-right",
	"bottom-left", "bottom-center", "bottom-right",
	"center",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultTimeout: 5000,
		DefaultGroup:   "top-right",
		Border:         "rounded",
		Transparency:   0,
		Padding:        Padding{Top: 0, Right: 1, Bottom: 0, Left: 1},
		Width: Width{
			Min:       20,
			Preferred: 50,
			Percent:   40,
		},
		Animation: Animation{
			FadeIn:  300,
			FadeOut: 400,
			Stagger: 0,
		},
		IconStyle:      "unicode",
		Icons:          icons.Set("unicode"),
		RenderDebounce: 50,
		ResizeDebounce: 200,
		SweepInterval:  1000,
		Groups:         map[string]Group{},
	}
}

// Load reads TOML configuration from the XDG config dir and the working
// directory (later files win), merges it over Default, and validates.
func Load() (Config, error) {
	return load(configPaths())
}

// LoadFile reads a single explicit config file over the defaults.
func LoadFile(path string) (Config, error) {
	return load([]string{path})
}

func load(paths []string) (Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	// icon_style picks the base glyph set; an explicit icons table wins.
	if !k.Exists("icons") {
		cfg.Icons = icons.Set(cfg.IconStyle)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "chime", "config.toml"),
		"chime.toml",
	}
}

// Validate checks the configuration eagerly so the engine never starts in
// an inconsistent state.
func (c Config) Validate() error {
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("default_timeout must be >= 0, got %d", c.DefaultTimeout)
	}
	if c.Transparency < 0 || c.Transparency > 100 {
		return fmt.Errorf("transparency must be 0-100, got %d", c.Transparency)
	}
	if c.Padding.Top < 0 || c.Padding.Right < 0 || c.Padding.Bottom < 0 || c.Padding.Left < 0 {
		return fmt.Errorf("padding must not be negative, got %+v", c.Padding)
	}
	if c.Width.Min < 0 {
		return fmt.Errorf("width.min must be >= 0, got %d", c.Width.Min)
	}
	if c.Width.Max > 0 && c.Width.Min > c.Width.Max {
		return fmt.Errorf("width.min (%d) exceeds width.max (%d)", c.Width.Min, c.Width.Max)
	}
	if c.Width.Percent < 0 || c.Width.Percent > 100 {
		return fmt.Errorf("width.percent must be 0-100, got %d", c.Width.Percent)
	}
	if c.Animation.FadeIn < 0 || c.Animation.FadeOut < 0 || c.Animation.Stagger < 0 {
		return fmt.Errorf("animation durations must not be negative, got %+v", c.Animation)
	}
	if c.RenderDebounce < 0 || c.ResizeDebounce < 0 {
		return fmt.Errorf("debounce intervals must not be negative")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0, got %d", c.SweepInterval)
	}
	switch icons.Style(c.IconStyle) {
	case "", icons.StyleNerd, icons.StyleUnicode, icons.StyleText, icons.StyleNone:
	default:
		return fmt.Errorf("icon_style %q is not one of nerd, unicode, text, none", c.IconStyle)
	}
	if !validGroupName(c.DefaultGroup) {
		return fmt.Errorf("default_group %q is not a known position", c.DefaultGroup)
	}
	for name, g := range c.Groups {
		if !validGroupName(name) {
			return fmt.Errorf("group %q is not a known position", name)
		}
		if g.Anchor != "" {
			switch g.Anchor {
			case "NW", "NE", "SW", "SE":
			default:
				return fmt.Errorf("group %q: invalid anchor %q", name, g.Anchor)
			}
		}
		if g.Margin < 0 {
			return fmt.Errorf("group %q: margin must be >= 0", name)
		}
		if g.Transparency != nil && (*g.Transparency < 0 || *g.Transparency > 100) {
			return fmt.Errorf("group %q: transparency must be 0-100", name)
		}
		switch g.Center {
		case "", "both", "row", "col":
		default:
			return fmt.Errorf("group %q: invalid center mode %q", name, g.Center)
		}
	}
	return nil
}

func validGroupName(name string) bool {
	for _, n := range DefaultGroupNames {
		if n == name {
			return true
		}
	}
	return false
}
