package notify

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/marout/chime/internal/errmsg"
	"github.com/marout/chime/internal/format"
	"github.com/marout/chime/internal/fragment"
	"github.com/marout/chime/internal/host"
)

// ShowHistory opens a centered scrollable panel listing all live
// notifications, newest first. The listing is a point-in-time snapshot
// written as real buffer text so it stays searchable and selectable.
// Safe to call from any goroutine.
func (c *Controller) ShowHistory() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.showHistory()
	})
}

func (c *Controller) showHistory() {
	var all []*Notification
	for _, g := range c.store.all() {
		all = append(all, g.live()...)
	}
	if len(all) == 0 {
		c.upsert("no notifications", LevelInfo, Options{})
		return
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	var lines []string
	var annots []host.Annotation
	// Ascending by creation, rendered newest-first.
	for i := len(all) - 1; i >= 0; i-- {
		lines, annots = c.historyLines(all[i], lines, annots)
	}

	hint := "q or <Esc> closes"
	lines = append(lines, "", hint)
	annots = append(annots, host.Annotation{
		Line:      len(lines) - 1,
		Col:       0,
		EndCol:    len(hint),
		Highlight: "ChimeAge",
	})

	width := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	rows, cols := c.host.ScreenSize()
	width = min(max(width, 40), cols*8/10)
	height := min(len(lines), rows-6)
	if height < 1 {
		height = 1
	}

	if c.historyBuffer != host.None && !c.host.BufferValid(c.historyBuffer) {
		c.historyBuffer = host.None
	}
	if c.historyPanel != host.None && !c.host.PanelValid(c.historyPanel) {
		c.historyPanel = host.None
	}
	if c.historyBuffer == host.None {
		buf, err := c.host.CreateBuffer()
		if err != nil {
			c.log.Print(errmsg.FormatWith(errmsg.OpBufferCreate, "history", err))
			return
		}
		c.historyBuffer = buf
	}
	if err := c.host.SetBufferLines(c.historyBuffer, lines); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpBufferSetLines, "history", err))
		return
	}
	if err := c.host.ClearAnnotations(c.historyBuffer); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpBufferAnnotate, "history", err))
	}
	for _, a := range annots {
		if err := c.host.AddAnnotation(c.historyBuffer, a); err != nil {
			c.log.Print(errmsg.FormatWith(errmsg.OpBufferAnnotate, "history", err))
		}
	}

	cfg := host.PanelConfig{
		Row:          (rows - height) / 2,
		Col:          (cols - width) / 2,
		Width:        width,
		Height:       height,
		Anchor:       host.AnchorNW,
		Focusable:    true,
		Enter:        true,
		Scrollable:   true,
		ZIndex:       200,
		Border:       c.cfg.Border,
		Transparency: c.cfg.Transparency,
		BodyStyle:    "ChimeBody",
	}
	if c.historyPanel == host.None {
		panel, err := c.host.OpenPanel(c.historyBuffer, cfg)
		if err != nil {
			c.log.Print(errmsg.Format(errmsg.OpHistoryShow, err))
			return
		}
		c.historyPanel = panel
		c.host.OnPanelDismiss(panel, c.historyBuffer, func() {
			c.loop.Post(c.closeHistory)
		})
		return
	}
	if err := c.host.ConfigurePanel(c.historyPanel, cfg); err != nil {
		c.log.Print(errmsg.FormatWith(errmsg.OpPanelConfigure, "history", err))
	}
}

// historyLines appends one notification's snapshot lines. A custom
// formatter with an empty message is invoked once to materialize its
// content into plain text; history is a copy, not a live view.
func (c *Controller) historyLines(n *Notification, lines []string, annots []host.Annotation) ([]string, []host.Annotation) {
	message := n.Message
	if n.Formatter != nil && message == "" {
		frags := format.Clean(n.Formatter.Format(c.formatContext(n, "")))
		computed := fragment.Layout(frags, fragment.Padding{}, true)
		message = fragment.Flatten(computed, true)
	}

	for line := range strings.SplitSeq(message, "\n") {
		frags := format.Clean(format.History.Format(c.formatContext(n, line)))
		computed := fragment.Layout(frags, c.padding(), true)
		lineIdx := len(lines)
		lines = append(lines, fragment.Flatten(computed, true))
		for _, cf := range computed {
			if cf.Highlight == "" {
				continue
			}
			annots = append(annots, host.Annotation{
				Line:      lineIdx,
				Col:       cf.Col,
				EndCol:    cf.EndCol,
				Highlight: cf.Highlight,
			})
		}
	}
	return lines, annots
}

func (c *Controller) formatContext(n *Notification, line string) format.Context {
	return format.Context{
		Line:           line,
		Icon:           c.iconFor(n),
		Highlight:      n.Highlight,
		LevelCode:      n.Level.Code(),
		LevelHighlight: n.Level.Highlight(),
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		Data:           n.Data,
	}
}

// closeHistory tears down the history panel if open.
func (c *Controller) closeHistory() {
	if c.historyPanel != host.None {
		if err := c.host.ClosePanel(c.historyPanel); err != nil {
			c.log.Print(errmsg.FormatWith(errmsg.OpPanelClose, "history", err))
		}
		c.historyPanel = host.None
	}
	if c.historyBuffer != host.None {
		if err := c.host.ReleaseBuffer(c.historyBuffer); err != nil {
			c.log.Print(errmsg.FormatWith(errmsg.OpBufferRelease, "history", err))
		}
		c.historyBuffer = host.None
	}
}
