// Package format defines the pluggable notification formatter contract and
// the two built-in formatters (live view, history view).
package format

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/marout/chime/internal/fragment"
)

// Context carries everything a formatter may draw on for one message line.
type Context struct {
	// Line is one wrapped line of the notification message. Empty when a
	// custom formatter is expected to derive content from Data alone.
	Line string

	Icon           string
	Highlight      string // per-notification override, empty = level default
	LevelCode      string // three-letter code, e.g. "INF"
	LevelHighlight string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Data is the opaque payload supplied alongside a custom formatter.
	Data map[string]any
}

// EffectiveHighlight returns the notification override when set, else the
// level default.
func (c Context) EffectiveHighlight() string {
	if c.Highlight != "" {
		return c.Highlight
	}
	return c.LevelHighlight
}

// Timestamp returns UpdatedAt when set, else CreatedAt.
func (c Context) Timestamp() time.Time {
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

// Formatter produces styled fragments for one line of a notification.
type Formatter interface {
	Format(ctx Context) []fragment.Fragment
}

// Func adapts a plain function to the Formatter interface.
type Func func(ctx Context) []fragment.Fragment

// Format calls f.
func (f Func) Format(ctx Context) []fragment.Fragment { return f(ctx) }

// Clean drops empty fragments from a formatter result. Caller-supplied
// formatters may leave holes.
func Clean(frags []fragment.Fragment) []fragment.Fragment {
	out := frags[:0]
	for _, f := range frags {
		if f.Text == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Live renders "[icon] [message-line]" as overlay fragments so the host's
// annotation layer carries the colors.
var Live Formatter = Func(func(ctx Context) []fragment.Fragment {
	hl := ctx.EffectiveHighlight()
	var frags []fragment.Fragment
	if ctx.Icon != "" {
		frags = append(frags,
			fragment.Fragment{Text: ctx.Icon, Highlight: hl, Overlay: true},
			fragment.Fragment{Text: " ", Overlay: true},
		)
	}
	frags = append(frags, fragment.Fragment{Text: ctx.Line, Highlight: hl, Overlay: true})
	return frags
})

// History renders "[HH:MM:SS] [code] [message-line] (age)" as real buffer
// text so the history view stays searchable and selectable.
var History Formatter = Func(func(ctx Context) []fragment.Fragment {
	ts := ctx.Timestamp()
	return []fragment.Fragment{
		{Text: ts.Format("15:04:05"), Highlight: "ChimeTime"},
		{Text: " "},
		{Text: ctx.LevelCode, Highlight: ctx.LevelHighlight},
		{Text: " "},
		{Text: ctx.Line, Highlight: ctx.EffectiveHighlight()},
		{Text: "  " + humanize.Time(ts), Highlight: "ChimeAge"},
	}
})
