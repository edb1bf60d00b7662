// Package fragment turns styled text runs into position-annotated runs
// ready for buffer insertion and annotation placement.
package fragment

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fragment is a styled run of text produced by a formatter.
type Fragment struct {
	Text      string
	Highlight string // style name, empty = unstyled
	Overlay   bool   // rendered via the host annotation layer, not as buffer text
}

// Computed is a Fragment with resolved column positions.
// Col/EndCol are byte columns within the real buffer text; OverlayCol and
// OverlayEndCol are display-width columns among overlay runs only.
type Computed struct {
	Fragment
	Col           int
	EndCol        int
	OverlayCol    int
	OverlayEndCol int
}

// Padding is four-sided blank space around rendered content, in cells.
type Padding struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Horizontal returns the total left+right padding.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns the total top+bottom padding.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// Layout walks fragments left to right and assigns column positions.
//
// Two cursors advance independently: the real-text cursor moves by byte
// length over non-overlay fragments, the overlay cursor moves by display
// width over overlay fragments. Overlay fragments anchor at the real
// cursor's current position without advancing it, because the host places
// overlay text at a fixed buffer column without it occupying buffer bytes.
//
// Unless ignorePadding is set, blank fragments derived from pad.Left and
// pad.Right are prepended and appended as real text.
func Layout(frags []Fragment, pad Padding, ignorePadding bool) []Computed {
	if !ignorePadding {
		padded := make([]Fragment, 0, len(frags)+2)
		if pad.Left > 0 {
			padded = append(padded, Fragment{Text: strings.Repeat(" ", pad.Left)})
		}
		padded = append(padded, frags...)
		if pad.Right > 0 {
			padded = append(padded, Fragment{Text: strings.Repeat(" ", pad.Right)})
		}
		frags = padded
	}

	out := make([]Computed, 0, len(frags))
	col := 0
	overlayCol := 0
	for _, f := range frags {
		c := Computed{Fragment: f, Col: col, OverlayCol: overlayCol}
		if f.Overlay {
			c.EndCol = col
			overlayCol += runewidth.StringWidth(f.Text)
			c.OverlayEndCol = overlayCol
		} else {
			col += len(f.Text)
			c.EndCol = col
			c.OverlayEndCol = overlayCol
		}
		out = append(out, c)
	}
	return out
}

// Flatten concatenates the computed fragments' text in order. When
// includeOverlay is false only real buffer text is kept.
func Flatten(computed []Computed, includeOverlay bool) string {
	var b strings.Builder
	for _, c := range computed {
		if c.Overlay && !includeOverlay {
			continue
		}
		b.WriteString(c.Text)
	}
	return b.String()
}

// Coerce converts an arbitrary display value to a Fragment text string.
// Formatters built from loosely-typed caller data may hand us non-strings.
func Coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
