package notify

import (
	"fmt"

	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/host"
)

// store owns the name → group mapping. Groups are created lazily on first
// use and stay addressable after their panel is torn down, so recreating a
// panel never drops queued notifications.
type store struct {
	host   host.Host
	cfg    *config.Config
	groups map[string]*group
	order  []string // creation order, for deterministic iteration
}

func newStore(h host.Host, cfg *config.Config) *store {
	return &store{
		host:   h,
		cfg:    cfg,
		groups: make(map[string]*group),
	}
}

// get returns the group record, creating it (without a panel) on first use.
func (s *store) get(name string, rows, cols int) *group {
	if g, ok := s.groups[name]; ok {
		return g
	}
	g := newGroup(name, s.cfg.Groups[name], s.cfg.Transparency)
	g.refreshPlacement(rows, cols)
	s.groups[name] = g
	s.order = append(s.order, name)
	return g
}

// all returns every group in creation order.
func (s *store) all() []*group {
	out := make([]*group, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.groups[name])
	}
	return out
}

// ensureSurface validates the group's panel and buffer still reference
// live host objects and recreates them if either is gone. The panel opens
// 1x1; real sizing happens at render time.
func (s *store) ensureSurface(g *group) error {
	if g.panel != host.None && !s.host.PanelValid(g.panel) {
		g.panel = host.None
	}
	if g.buffer != host.None && !s.host.BufferValid(g.buffer) {
		g.buffer = host.None
		// A dead buffer invalidates the panel showing it.
		if g.panel != host.None {
			_ = s.host.ClosePanel(g.panel)
			g.panel = host.None
		}
	}
	if g.buffer == host.None {
		buf, err := s.host.CreateBuffer()
		if err != nil {
			return fmt.Errorf("create buffer for group %s: %w", g.name, err)
		}
		g.buffer = buf
	}
	if g.panel == host.None {
		panel, err := s.host.OpenPanel(g.buffer, host.PanelConfig{
			Row:          g.cachedRow,
			Col:          g.cachedCol,
			Width:        1,
			Height:       1,
			Anchor:       g.anchor,
			Focusable:    false,
			ZIndex:       150,
			Border:       s.cfg.Border,
			Transparency: g.transparency,
			BodyStyle:    "ChimeBody",
		})
		if err != nil {
			return fmt.Errorf("open panel for group %s: %w", g.name, err)
		}
		g.panel = panel
	}
	return nil
}

// teardownSurface closes the group's panel and buffer, best-effort. The
// group record itself stays addressable for recreation.
func (s *store) teardownSurface(g *group) {
	if g.panel != host.None {
		_ = s.host.ClosePanel(g.panel)
		g.panel = host.None
	}
	if g.buffer != host.None {
		_ = s.host.ReleaseBuffer(g.buffer)
		g.buffer = host.None
	}
}

// cleanupExpired removes notifications flagged expired and not currently
// animating from every group. Panels are closed by the render pass, not
// here.
func (s *store) cleanupExpired() {
	for _, g := range s.groups {
		kept := g.items[:0]
		for _, n := range g.items {
			if n.Expired && !n.Animating {
				continue
			}
			kept = append(kept, n)
		}
		// Drop references past the new length so removed notifications
		// can be collected.
		for i := len(kept); i < len(g.items); i++ {
			g.items[i] = nil
		}
		g.items = kept
	}
}
