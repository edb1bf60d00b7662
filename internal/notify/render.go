package notify

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/marout/chime/internal/blend"
	"github.com/marout/chime/internal/errmsg"
	"github.com/marout/chime/internal/format"
	"github.com/marout/chime/internal/fragment"
	"github.com/marout/chime/internal/host"
	"github.com/marout/chime/internal/textwrap"
)

// renderGroup renders one group's panel from scratch: filter, measure,
// wrap, format, lay out, push, resize. Host calls are best-effort; a
// failure leaves the panel stale until the next tick rather than
// propagating.
func (c *Controller) renderGroup(g *group) {
	live := g.live()
	if len(live) == 0 {
		// Nothing to show: release host resources. The group record
		// stays addressable for recreation.
		c.store.teardownSurface(g)
		return
	}

	pad := c.padding()

	// Newest first; alpha 0 means fully faded and pending removal.
	visible := make([]*Notification, 0, len(live))
	maxLine := 0
	for i := len(live) - 1; i >= 0; i-- {
		n := live[i]
		if n.Alpha <= 0 {
			continue
		}
		visible = append(visible, n)
		iconW := 0
		if icon := c.iconFor(n); icon != "" {
			iconW = runewidth.StringWidth(icon) + 1
		}
		for line := range strings.SplitSeq(n.Message, "\n") {
			if w := runewidth.StringWidth(line) + iconW; w > maxLine {
				maxLine = w
			}
		}
	}
	if len(visible) == 0 {
		// Everything is mid-fade at alpha 0; leave the panel untouched
		// and let animation completion drive the teardown.
		return
	}

	width := c.optimalWidth(maxLine + pad.Horizontal())
	contentWidth := max(width-pad.Horizontal(), 1)

	var lines []string
	var annots []host.Annotation
	for range pad.Top {
		lines = append(lines, "")
	}
	for _, n := range visible {
		lines, annots = c.renderNotification(n, contentWidth, pad, lines, annots)
	}
	for range pad.Bottom {
		lines = append(lines, "")
	}

	if err := c.store.ensureSurface(g); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpSurfaceCreate, g.name, err))
		return
	}
	if err := c.host.SetBufferLines(g.buffer, lines); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpBufferSetLines, g.name, err))
		return
	}
	if err := c.host.ClearAnnotations(g.buffer); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpBufferAnnotate, g.name, err))
	}
	for _, a := range annots {
		if err := c.host.AddAnnotation(g.buffer, a); err != nil {
			c.log.Print(errmsg.FormatWith(errmsg.OpBufferAnnotate, g.name, err))
		}
	}

	row, col, anchor := g.cachedRow, g.cachedCol, g.anchor
	height := len(lines)
	switch g.center {
	case centerBoth:
		// True centering positions the top-left corner explicitly.
		row -= height / 2
		col -= width / 2
		anchor = host.AnchorNW
	case centerRow:
		row -= height / 2
	case centerCol:
		col -= width / 2
	}
	err := c.host.ConfigurePanel(g.panel, host.PanelConfig{
		Row:          row,
		Col:          col,
		Width:        width,
		Height:       height,
		Anchor:       anchor,
		Focusable:    false,
		ZIndex:       150,
		Border:       c.cfg.Border,
		Transparency: g.transparency,
		BodyStyle:    "ChimeBody",
	})
	if err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpPanelConfigure, g.name, err))
	}
}

// renderNotification appends one notification's wrapped, formatted lines
// and their annotations.
func (c *Controller) renderNotification(n *Notification, contentWidth int, pad fragment.Padding, lines []string, annots []host.Annotation) ([]string, []host.Annotation) {
	fmtr := n.Formatter
	custom := fmtr != nil
	if fmtr == nil {
		fmtr = format.Live
	}

	var msgLines []string
	if custom && n.Message == "" {
		// The formatter derives all content from its Data payload.
		msgLines = []string{""}
	} else {
		for line := range strings.SplitSeq(n.Message, "\n") {
			msgLines = append(msgLines, textwrap.Wrap(line, contentWidth, c.cfg.Width.WordWrap())...)
		}
	}

	icon := c.iconFor(n)
	for i, line := range msgLines {
		ctx := format.Context{
			Line:           line,
			Icon:           icon,
			Highlight:      n.Highlight,
			LevelCode:      n.Level.Code(),
			LevelHighlight: n.Level.Highlight(),
			CreatedAt:      n.CreatedAt,
			UpdatedAt:      n.UpdatedAt,
			Data:           n.Data,
		}
		if i > 0 && icon != "" {
			// Continuation lines align under the first line's text.
			ctx.Icon = strings.Repeat(" ", runewidth.StringWidth(icon))
		}

		frags := format.Clean(fmtr.Format(ctx))
		if custom {
			// Caller-supplied formatters render color-accurate overlay
			// text regardless of what they emitted.
			for j := range frags {
				frags[j].Overlay = true
			}
		}
		if n.Alpha < 1 {
			for j := range frags {
				frags[j].Highlight = c.fadedHighlight(frags[j].Highlight, n.Alpha)
			}
		}

		computed := fragment.Layout(frags, pad, false)
		lineIdx := len(lines)
		lines = append(lines, fragment.Flatten(computed, false))
		for _, cf := range computed {
			switch {
			case cf.Overlay:
				annots = append(annots, host.Annotation{
					Line:        lineIdx,
					Col:         cf.Col,
					OverlayCol:  pad.Left + cf.OverlayCol,
					OverlayText: cf.Text,
					Highlight:   cf.Highlight,
				})
			case cf.Highlight != "":
				annots = append(annots, host.Annotation{
					Line:      lineIdx,
					Col:       cf.Col,
					EndCol:    cf.EndCol,
					Highlight: cf.Highlight,
				})
			}
		}
	}
	return lines, annots
}

// optimalWidth resolves the adaptive panel width: bounded below by the
// configured minimum, above by the fixed maximum and the screen
// percentage cap, preferring the configured width when content fits
// under it.
func (c *Controller) optimalWidth(content int) int {
	w := c.cfg.Width

	limit := 0
	if w.Max > 0 {
		limit = w.Max
	}
	if w.Percent > 0 {
		pct := c.screenCols * w.Percent / 100
		if limit == 0 || pct < limit {
			limit = pct
		}
	}

	width := content
	if w.Preferred > 0 && width <= w.Preferred && (limit == 0 || w.Preferred <= limit) {
		width = w.Preferred
	}
	if width < w.Min {
		width = w.Min
	}
	if limit > 0 && width > limit {
		width = limit
	}
	return width
}

// iconFor resolves the effective icon: per-notification override first,
// then the configured per-level glyph.
func (c *Controller) iconFor(n *Notification) string {
	if n.Icon != "" {
		return n.Icon
	}
	return c.cfg.Icons[n.Level.String()]
}

func (c *Controller) padding() fragment.Padding {
	return fragment.Padding{
		Top:    c.cfg.Padding.Top,
		Right:  c.cfg.Padding.Right,
		Bottom: c.cfg.Padding.Bottom,
		Left:   c.cfg.Padding.Left,
	}
}

// fadedHighlight returns a style like name but with its foreground blended
// toward the panel background by alpha. Derived styles are memoized per
// alpha bucket so identical fades are not redefined every frame.
func (c *Controller) fadedHighlight(name string, alpha float64) string {
	if name == "" {
		return ""
	}
	bucket := blend.AlphaBucket(alpha)
	if bucket >= 100 {
		return name
	}
	key := fmt.Sprintf("%s:%d", name, bucket)
	if derived, ok := c.fadeMemo[key]; ok {
		return derived
	}

	src := host.StyleSource{H: c.host}
	bg := blend.ResolveBackground(src, "ChimeBody", "NormalFloat", "Normal")
	fg := bg
	if st, ok := c.host.Style(name); ok && st.Foreground != nil {
		fg = *st.Foreground
	}
	faded := fg.Toward(bg, alpha)

	derived := fmt.Sprintf("%sFade%02d", name, bucket)
	if err := c.host.DefineStyle(derived, host.Style{Foreground: &faded}); err != nil {
		// Best-effort: keep the solid style rather than fail the frame.
		c.log.Print(errmsg.FormatWith(errmsg.OpStyleDefine, derived, err))
		return name
	}
	c.fadeMemo[key] = derived
	return derived
}
