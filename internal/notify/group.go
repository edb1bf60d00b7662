package notify

import (
	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/host"
)

// centerMode names the axes a group centers its panel on.
type centerMode int

const (
	centerNone centerMode = iota
	centerRow
	centerCol
	centerBoth
)

func parseCenter(s string) centerMode {
	switch s {
	case "both":
		return centerBoth
	case "row":
		return centerRow
	case "col":
		return centerCol
	}
	return centerNone
}

// group is a named screen region with an owned panel and buffer. The panel
// exists only while the group has at least one live notification.
type group struct {
	name   string
	panel  host.Panel
	buffer host.Buffer
	items  []*Notification

	anchor       host.Anchor
	center       centerMode
	transparency int

	// rowFn/colFn derive the anchor position from the screen size. They
	// are re-evaluated only on a debounced resize event; cachedRow/Col
	// hold the last evaluation.
	rowFn, colFn func(rows, cols int) int
	cachedRow    int
	cachedCol    int
}

// newGroup builds placement from the position name, then applies explicit
// config overrides.
func newGroup(name string, cfg config.Group, defaultTransparency int) *group {
	g := &group{
		name:         name,
		center:       parseCenter(cfg.Center),
		transparency: defaultTransparency,
	}
	if cfg.Transparency != nil {
		g.transparency = *cfg.Transparency
	}

	margin := cfg.Margin
	switch name {
	case "top-left":
		g.anchor = host.AnchorNW
		g.rowFn = func(rows, cols int) int { return margin }
		g.colFn = func(rows, cols int) int { return margin }
	case "top-center":
		g.anchor = host.AnchorNW
		g.rowFn = func(rows, cols int) int { return margin }
		g.colFn = func(rows, cols int) int { return cols / 2 }
		if cfg.Center == "" {
			g.center = centerCol
		}
	case "top-right":
		g.anchor = host.AnchorNE
		g.rowFn = func(rows, cols int) int { return margin }
		g.colFn = func(rows, cols int) int { return cols - margin }
	case "bottom-left":
		g.anchor = host.AnchorSW
		g.rowFn = func(rows, cols int) int { return rows - margin }
		g.colFn = func(rows, cols int) int { return margin }
	case "bottom-center":
		g.anchor = host.AnchorSW
		g.rowFn = func(rows, cols int) int { return rows - margin }
		g.colFn = func(rows, cols int) int { return cols / 2 }
		if cfg.Center == "" {
			g.center = centerCol
		}
	case "bottom-right":
		g.anchor = host.AnchorSE
		g.rowFn = func(rows, cols int) int { return rows - margin }
		g.colFn = func(rows, cols int) int { return cols - margin }
	default: // "center"
		g.anchor = host.AnchorNW
		g.rowFn = func(rows, cols int) int { return rows / 2 }
		g.colFn = func(rows, cols int) int { return cols / 2 }
		if cfg.Center == "" {
			g.center = centerBoth
		}
	}

	if cfg.Anchor != "" {
		g.anchor = host.Anchor(cfg.Anchor)
	}
	if cfg.Row != nil {
		row := *cfg.Row
		g.rowFn = func(rows, cols int) int { return row }
	}
	if cfg.Col != nil {
		col := *cfg.Col
		g.colFn = func(rows, cols int) int { return col }
	}
	return g
}

// refreshPlacement re-evaluates the position functions into the cache.
func (g *group) refreshPlacement(rows, cols int) {
	g.cachedRow = g.rowFn(rows, cols)
	g.cachedCol = g.colFn(rows, cols)
}

// live returns the notifications not yet flagged expired, oldest first.
func (g *group) live() []*Notification {
	out := make([]*Notification, 0, len(g.items))
	for _, n := range g.items {
		if !n.Expired {
			out = append(out, n)
		}
	}
	return out
}

// find returns the notification with the given id, or nil.
func (g *group) find(id string) *Notification {
	if id == "" {
		return nil
	}
	for _, n := range g.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}
