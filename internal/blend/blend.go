// Package blend provides an explicit RGB color type, alpha blending toward
// a background, and the background resolution chain used for fades.
package blend

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with 8-bit components.
type RGB struct {
	R, G, B uint8
}

// FromPacked decomposes a packed 0xRRGGBB integer.
func FromPacked(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16 & 0xff),
		G: uint8(v >> 8 & 0xff),
		B: uint8(v & 0xff),
	}
}

// Packed recomposes the color into a 0xRRGGBB integer.
func (c RGB) Packed() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" (or "#rgb") into an RGB.
func ParseHex(s string) (RGB, bool) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, false
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, true
}

// Toward linearly interpolates each component from c toward bg.
// alpha 1 keeps c, alpha 0 yields bg. Components round down, matching the
// per-channel floor the fade pipeline expects.
func (c RGB) Toward(bg RGB, alpha float64) RGB {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 {
		return bg
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(b) + (float64(a)-float64(b))*alpha)
	}
	return RGB{
		R: lerp(c.R, bg.R),
		G: lerp(c.G, bg.G),
		B: lerp(c.B, bg.B),
	}
}

// Fallback backgrounds when no style in the chain resolves, keyed by the
// host's background mode.
var (
	darkFallback  = RGB{R: 0x1a, G: 0x1a, B: 0x1a}
	lightFallback = RGB{R: 0xe8, G: 0xe8, B: 0xe8}
)

// StyleSource resolves named styles to colors. Implemented by the host's
// highlight registry.
type StyleSource interface {
	// StyleBackground returns the resolved background of a named style.
	StyleBackground(name string) (RGB, bool)
	// TerminalBackground returns the terminal-reported background color.
	TerminalBackground() (RGB, bool)
	// BackgroundMode reports "dark" or "light".
	BackgroundMode() string
}

// ResolveBackground walks the background priority chain: the panel's own
// body style, then each fallback style name in order, then the terminal
// background, then a hard-coded mode-keyed default.
func ResolveBackground(src StyleSource, names ...string) RGB {
	for _, name := range names {
		if name == "" {
			continue
		}
		if c, ok := src.StyleBackground(name); ok {
			return c
		}
	}
	if c, ok := src.TerminalBackground(); ok {
		return c
	}
	if src.BackgroundMode() == "light" {
		return lightFallback
	}
	return darkFallback
}

// AlphaBucket quantizes alpha into 0..100 for memoizing derived styles.
func AlphaBucket(alpha float64) int {
	if alpha <= 0 {
		return 0
	}
	if alpha >= 1 {
		return 100
	}
	return int(alpha * 100)
}
