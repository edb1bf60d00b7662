// Package tuihost implements the host surface for terminal UIs built on
// bubbletea. Panels are kept as in-memory boxes and composited over the
// program's view with an ANSI-aware overlay, so any model can show
// notifications by wrapping its View output.
package tuihost

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/marout/chime/internal/blend"
	"github.com/marout/chime/internal/host"
)

type panel struct {
	cfg    host.PanelConfig
	buf    host.Buffer
	seq    int // open order, tie-break for equal z-index
	closed bool
}

type buffer struct {
	lines  []string
	annots []host.Annotation
}

// Host composites notification panels over a terminal UI. The engine loop
// writes it while the UI goroutine reads it from View, hence the lock.
type Host struct {
	mu sync.Mutex

	next    int
	panels  map[host.Panel]*panel
	buffers map[host.Buffer]*buffer
	styles  map[string]host.Style
	dismiss map[host.Panel]func()

	rows, cols int
	mode       string
	termBg     *blend.RGB
}

// New returns a host with the built-in highlight palette for the given
// background mode ("dark" or "light").
func New(rows, cols int, mode string) *Host {
	h := &Host{
		next:    1,
		panels:  make(map[host.Panel]*panel),
		buffers: make(map[host.Buffer]*buffer),
		styles:  make(map[string]host.Style),
		dismiss: make(map[host.Panel]func()),
		rows:    rows,
		cols:    cols,
		mode:    mode,
	}
	for name, s := range defaultPalette(mode) {
		h.styles[name] = s
	}
	return h
}

// SetScreenSize records a terminal resize. Callers still notify the engine
// through its own resize entry point.
func (h *Host) SetScreenSize(rows, cols int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rows, h.cols = rows, cols
}

// SetTerminalBackground supplies the terminal's real background color when
// the program knows it.
func (h *Host) SetTerminalBackground(c blend.RGB) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.termBg = &c
}

// SetTerminalBackgroundHex records an "#rrggbb" background as reported by
// an OSC 11 query. Non-hex replies (ANSI palette indices, garbage) are
// ignored.
func (h *Host) SetTerminalBackgroundHex(s string) bool {
	c, ok := blend.ParseHex(s)
	if !ok {
		return false
	}
	h.SetTerminalBackground(c)
	return true
}

func (h *Host) OpenPanel(buf host.Buffer, cfg host.PanelConfig) (host.Panel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.buffers[buf]; !ok {
		return host.None, errors.New("tuihost: open panel on unknown buffer")
	}
	h.next++
	p := host.Panel(h.next)
	h.panels[p] = &panel{cfg: cfg, buf: buf, seq: h.next}
	return p, nil
}

func (h *Host) ConfigurePanel(p host.Panel, cfg host.PanelConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	pn, ok := h.panels[p]
	if !ok {
		return errors.New("tuihost: configure unknown panel")
	}
	pn.cfg = cfg
	return nil
}

func (h *Host) ClosePanel(p host.Panel) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.panels[p]; !ok {
		return errors.New("tuihost: close unknown panel")
	}
	delete(h.panels, p)
	delete(h.dismiss, p)
	return nil
}

func (h *Host) PanelValid(p host.Panel) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.panels[p]
	return ok
}

func (h *Host) CreateBuffer() (host.Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	b := host.Buffer(h.next)
	h.buffers[b] = &buffer{}
	return b, nil
}

func (h *Host) BufferValid(b host.Buffer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.buffers[b]
	return ok
}

func (h *Host) SetBufferLines(b host.Buffer, lines []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.buffers[b]
	if !ok {
		return errors.New("tuihost: set lines on unknown buffer")
	}
	buf.lines = append(buf.lines[:0], lines...)
	return nil
}

func (h *Host) ClearAnnotations(b host.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.buffers[b]
	if !ok {
		return errors.New("tuihost: clear annotations on unknown buffer")
	}
	buf.annots = nil
	return nil
}

func (h *Host) AddAnnotation(b host.Buffer, a host.Annotation) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.buffers[b]
	if !ok {
		return errors.New("tuihost: annotate unknown buffer")
	}
	buf.annots = append(buf.annots, a)
	return nil
}

func (h *Host) ReleaseBuffer(b host.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.buffers[b]; !ok {
		return errors.New("tuihost: release unknown buffer")
	}
	delete(h.buffers, b)
	return nil
}

func (h *Host) Style(name string) (host.Style, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.styles[name]
	return s, ok
}

func (h *Host) DefineStyle(name string, s host.Style) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.styles[name] = s
	return nil
}

func (h *Host) BackgroundMode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode == "light" {
		return "light"
	}
	return "dark"
}

func (h *Host) TerminalBackground() (blend.RGB, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.termBg == nil {
		return blend.RGB{}, false
	}
	return *h.termBg, true
}

func (h *Host) ScreenSize() (rows, cols int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rows, h.cols
}

func (h *Host) OnPanelDismiss(p host.Panel, _ host.Buffer, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dismiss[p] = fn
}

// DismissFocused fires the dismiss callback of every focusable panel.
// Models call it when the user hits a close key while a history panel is
// up. Reports whether any panel consumed the key.
func (h *Host) DismissFocused() bool {
	h.mu.Lock()
	var fns []func()
	for p, pn := range h.panels {
		if pn.cfg.Focusable {
			if fn := h.dismiss[p]; fn != nil {
				fns = append(fns, fn)
			}
		}
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// View composites every open panel over base, lowest z-index first. base
// is the wrapped model's own View output.
func (h *Host) View(base string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ordered := make([]*panel, 0, len(h.panels))
	for _, pn := range h.panels {
		ordered = append(ordered, pn)
	}
	if len(ordered) == 0 {
		return base
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].cfg.ZIndex != ordered[j].cfg.ZIndex {
			return ordered[i].cfg.ZIndex < ordered[j].cfg.ZIndex
		}
		return ordered[i].seq < ordered[j].seq
	})

	out := base
	for _, pn := range ordered {
		buf := h.buffers[pn.buf]
		if buf == nil {
			continue
		}
		box := h.renderPanel(pn, buf)
		row, col := placement(pn.cfg)
		out = splice(out, box, row, col, h.cols)
	}
	return out
}

// renderPanel draws one panel box: buffer text with annotations applied,
// clipped to the panel size, bordered when requested.
func (h *Host) renderPanel(pn *panel, buf *buffer) string {
	width := max(pn.cfg.Width, 1)
	height := max(pn.cfg.Height, 1)

	byLine := make(map[int][]host.Annotation)
	for _, a := range buf.annots {
		byLine[a.Line] = append(byLine[a.Line], a)
	}

	body := lipgloss.NewStyle()
	if s, ok := h.styles[pn.cfg.BodyStyle]; ok {
		body = h.lipStyle(s)
	}

	lines := make([]string, 0, height)
	for i := 0; i < height; i++ {
		var text string
		if i < len(buf.lines) {
			text = buf.lines[i]
		}
		lines = append(lines, h.renderLine(text, byLine[i], width, body))
	}

	block := strings.Join(lines, "\n")
	if border, ok := borderStyle(pn.cfg.Border); ok {
		block = body.Border(border).Render(block)
	}
	return block
}

// renderLine applies range highlights and overlay splices to one buffer
// line, then pads to the panel width.
func (h *Host) renderLine(text string, annots []host.Annotation, width int, body lipgloss.Style) string {
	// Range highlights style byte spans of the real text. Apply right to
	// left so earlier byte offsets stay valid.
	ranged := make([]host.Annotation, 0, len(annots))
	for _, a := range annots {
		if a.OverlayText == "" {
			ranged = append(ranged, a)
		}
	}
	sort.Slice(ranged, func(i, j int) bool { return ranged[i].Col > ranged[j].Col })
	for _, a := range ranged {
		if a.Col < 0 || a.EndCol > len(text) || a.Col >= a.EndCol {
			continue
		}
		styled := h.styleText(a.Highlight, text[a.Col:a.EndCol], body)
		text = text[:a.Col] + styled + text[a.EndCol:]
	}

	line := padLine(text, width)

	// Overlays replace display columns, left to right.
	overlays := make([]host.Annotation, 0, len(annots))
	for _, a := range annots {
		if a.OverlayText != "" {
			overlays = append(overlays, a)
		}
	}
	sort.Slice(overlays, func(i, j int) bool { return overlays[i].OverlayCol < overlays[j].OverlayCol })
	for _, a := range overlays {
		styled := h.styleText(a.Highlight, a.OverlayText, body)
		line = spliceLine(line, styled, a.OverlayCol, lipgloss.Width(a.OverlayText), width)
	}
	return line
}

func (h *Host) styleText(highlight, text string, body lipgloss.Style) string {
	st := body
	if s, ok := h.styles[highlight]; ok {
		if s.Foreground != nil {
			st = st.Foreground(lipgloss.Color(s.Foreground.Hex()))
		}
		if s.Background != nil {
			st = st.Background(lipgloss.Color(s.Background.Hex()))
		}
	}
	return st.Render(text)
}

func (h *Host) lipStyle(s host.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Foreground != nil {
		st = st.Foreground(lipgloss.Color(s.Foreground.Hex()))
	}
	if s.Background != nil {
		st = st.Background(lipgloss.Color(s.Background.Hex()))
	}
	return st
}

// placement converts anchor-relative coordinates to the top-left cell.
func placement(cfg host.PanelConfig) (row, col int) {
	row, col = cfg.Row, cfg.Col
	width, height := boxSize(cfg)
	switch cfg.Anchor {
	case host.AnchorNE:
		col -= width
	case host.AnchorSW:
		row -= height
	case host.AnchorSE:
		row -= height
		col -= width
	}
	return row, col
}

// boxSize is the panel's outer footprint including any border.
func boxSize(cfg host.PanelConfig) (width, height int) {
	width, height = max(cfg.Width, 1), max(cfg.Height, 1)
	if _, ok := borderStyle(cfg.Border); ok {
		width += 2
		height += 2
	}
	return width, height
}

func borderStyle(name string) (lipgloss.Border, bool) {
	switch name {
	case "single":
		return lipgloss.NormalBorder(), true
	case "rounded":
		return lipgloss.RoundedBorder(), true
	case "double":
		return lipgloss.DoubleBorder(), true
	case "solid":
		return lipgloss.BlockBorder(), true
	}
	return lipgloss.Border{}, false
}

func defaultPalette(mode string) map[string]host.Style {
	rgb := func(v uint32) *blend.RGB {
		c := blend.FromPacked(v)
		return &c
	}
	p := map[string]host.Style{
		"ChimeTrace": {Foreground: rgb(0x8a8a8a)},
		"ChimeDebug": {Foreground: rgb(0x5fafaf)},
		"ChimeInfo":  {Foreground: rgb(0x5fd75f)},
		"ChimeWarn":  {Foreground: rgb(0xd7af5f)},
		"ChimeError": {Foreground: rgb(0xd75f5f)},
		"ChimeTime":  {Foreground: rgb(0x8787af)},
		"ChimeAge":   {Foreground: rgb(0x6c6c6c)},
		"ChimeBody":  {Background: rgb(0x1c1c1c)},
	}
	if mode == "light" {
		p["ChimeBody"] = host.Style{Background: rgb(0xeeeeee)}
		p["ChimeAge"] = host.Style{Foreground: rgb(0x9e9e9e)}
	}
	return p
}
