// Package nvimhost implements the host surface on a Neovim instance over
// msgpack-rpc. Floating windows back panels, scratch buffers back buffers,
// and extmarks back annotations.
package nvimhost

import (
	"fmt"

	"github.com/neovim/go-client/nvim"

	"github.com/marout/chime/internal/blend"
	"github.com/marout/chime/internal/host"
)

// Host drives one attached Neovim instance. Methods follow the host
// contract: synchronous, called from the engine loop only.
type Host struct {
	n  *nvim.Nvim
	ns int // extmark namespace

	dismiss map[string]func()
}

// New attaches to a client and creates the extmark namespace.
func New(n *nvim.Nvim) (*Host, error) {
	ns, err := n.CreateNamespace("chime")
	if err != nil {
		return nil, fmt.Errorf("nvimhost: create namespace: %w", err)
	}
	return &Host{n: n, ns: ns, dismiss: make(map[string]func())}, nil
}

func (h *Host) OpenPanel(buf host.Buffer, cfg host.PanelConfig) (host.Panel, error) {
	win, err := h.n.OpenWindow(nvim.Buffer(buf), cfg.Enter, windowConfig(cfg))
	if err != nil {
		return host.None, fmt.Errorf("nvimhost: open window: %w", err)
	}
	// Floats look wrong with the editor's default window options.
	for opt, val := range map[string]any{
		"wrap":       false,
		"cursorline": false,
		"number":     false,
		"winhl":      winHighlight(cfg),
		"winblend":   cfg.Transparency,
	} {
		if err := h.n.SetWindowOption(win, opt, val); err != nil {
			return host.None, fmt.Errorf("nvimhost: window option %s: %w", opt, err)
		}
	}
	return host.Panel(win), nil
}

func (h *Host) ConfigurePanel(p host.Panel, cfg host.PanelConfig) error {
	if err := h.n.SetWindowConfig(nvim.Window(p), windowConfig(cfg)); err != nil {
		return fmt.Errorf("nvimhost: window config: %w", err)
	}
	return h.n.SetWindowOption(nvim.Window(p), "winblend", cfg.Transparency)
}

func (h *Host) ClosePanel(p host.Panel) error {
	return h.n.CloseWindow(nvim.Window(p), true)
}

func (h *Host) PanelValid(p host.Panel) bool {
	ok, err := h.n.IsWindowValid(nvim.Window(p))
	return err == nil && ok
}

func (h *Host) CreateBuffer() (host.Buffer, error) {
	buf, err := h.n.CreateBuffer(false, true)
	if err != nil {
		return host.None, fmt.Errorf("nvimhost: create buffer: %w", err)
	}
	return host.Buffer(buf), nil
}

func (h *Host) BufferValid(b host.Buffer) bool {
	ok, err := h.n.IsBufferValid(nvim.Buffer(b))
	return err == nil && ok
}

func (h *Host) SetBufferLines(b host.Buffer, lines []string) error {
	repl := make([][]byte, len(lines))
	for i, l := range lines {
		repl[i] = []byte(l)
	}
	return h.n.SetBufferLines(nvim.Buffer(b), 0, -1, false, repl)
}

func (h *Host) ClearAnnotations(b host.Buffer) error {
	return h.n.ClearBufferNamespace(nvim.Buffer(b), h.ns, 0, -1)
}

func (h *Host) AddAnnotation(b host.Buffer, a host.Annotation) error {
	opts := map[string]any{}
	if a.OverlayText != "" {
		opts["virt_text"] = []any{[]any{a.OverlayText, a.Highlight}}
		opts["virt_text_pos"] = "overlay"
		opts["virt_text_win_col"] = a.OverlayCol
	} else {
		opts["end_col"] = a.EndCol
		opts["hl_group"] = a.Highlight
	}
	_, err := h.n.SetBufferExtmark(nvim.Buffer(b), h.ns, a.Line, a.Col, opts)
	return err
}

func (h *Host) ReleaseBuffer(b host.Buffer) error {
	return h.n.DeleteBuffer(nvim.Buffer(b), map[string]bool{"force": true})
}

// Style resolves a highlight by name. Neovim follows link chains itself.
func (h *Host) Style(name string) (host.Style, bool) {
	var attrs map[string]any
	if err := h.n.Call("nvim_get_hl_by_name", &attrs, name, true); err != nil {
		return host.Style{}, false
	}
	var s host.Style
	if fg, ok := hlColor(attrs["foreground"]); ok {
		s.Foreground = &fg
	}
	if bg, ok := hlColor(attrs["background"]); ok {
		s.Background = &bg
	}
	return s, s.Foreground != nil || s.Background != nil
}

func (h *Host) DefineStyle(name string, s host.Style) error {
	val := map[string]any{}
	if s.Foreground != nil {
		val["fg"] = s.Foreground.Hex()
	}
	if s.Background != nil {
		val["bg"] = s.Background.Hex()
	}
	return h.n.Call("nvim_set_hl", nil, 0, name, val)
}

func (h *Host) BackgroundMode() string {
	var mode string
	if err := h.n.Eval("&background", &mode); err != nil || mode != "light" {
		return "dark"
	}
	return "light"
}

// TerminalBackground is unavailable over rpc; the style chain and the
// dark/light fallback cover it.
func (h *Host) TerminalBackground() (blend.RGB, bool) {
	return blend.RGB{}, false
}

func (h *Host) ScreenSize() (rows, cols int) {
	var r, c int
	if err := h.n.Eval("&lines", &r); err != nil || r <= 0 {
		r = 24
	}
	if err := h.n.Eval("&columns", &c); err != nil || c <= 0 {
		c = 80
	}
	// The command line occupies the last row.
	return r - 1, c
}

// OnPanelDismiss binds q, <Esc> and window close to fn via rpc
// notifications back to this channel.
func (h *Host) OnPanelDismiss(p host.Panel, b host.Buffer, fn func()) {
	event := fmt.Sprintf("chime_dismiss_%d", p)
	if _, seen := h.dismiss[event]; !seen {
		_ = h.n.RegisterHandler(event, func() {
			if cb := h.dismiss[event]; cb != nil {
				cb()
			}
		})
	}
	h.dismiss[event] = fn

	rhs := fmt.Sprintf("<Cmd>call rpcnotify(%d, '%s')<CR>", h.n.ChannelID(), event)
	opts := map[string]bool{"noremap": true, "silent": true, "nowait": true}
	_ = h.n.SetBufferKeyMap(nvim.Buffer(b), "n", "q", rhs, opts)
	_ = h.n.SetBufferKeyMap(nvim.Buffer(b), "n", "<Esc>", rhs, opts)
	_ = h.n.Command(fmt.Sprintf(
		"autocmd WinClosed %d ++once call rpcnotify(%d, '%s')",
		p, h.n.ChannelID(), event,
	))
	_ = h.n.Command(fmt.Sprintf(
		"autocmd WinLeave <buffer=%d> ++once call rpcnotify(%d, '%s')",
		b, h.n.ChannelID(), event,
	))
}

// windowConfig maps a panel config onto nvim_open_win parameters.
func windowConfig(cfg host.PanelConfig) *nvim.WindowConfig {
	wc := &nvim.WindowConfig{
		Relative:  "editor",
		Anchor:    string(cfg.Anchor),
		Row:       float64(cfg.Row),
		Col:       float64(cfg.Col),
		Width:     max(cfg.Width, 1),
		Height:    max(cfg.Height, 1),
		Focusable: cfg.Focusable,
		ZIndex:    cfg.ZIndex,
		Style:     "minimal",
	}
	if chars := borderChars(cfg.Border); chars != nil {
		wc.Border = chars
	}
	return wc
}

// borderChars expands a border preset name to the eight-character form
// nvim_open_win takes. Unknown names mean no border.
func borderChars(name string) []string {
	switch name {
	case "single":
		return []string{"┌", "─", "┐", "│", "┘", "─", "└", "│"}
	case "rounded":
		return []string{"╭", "─", "╮", "│", "╯", "─", "╰", "│"}
	case "double":
		return []string{"╔", "═", "╗", "║", "╝", "═", "╚", "║"}
	case "solid":
		return []string{" ", " ", " ", " ", " ", " ", " ", " "}
	}
	return nil
}

// winHighlight maps the panel body onto the requested style.
func winHighlight(cfg host.PanelConfig) string {
	if cfg.BodyStyle == "" {
		return ""
	}
	return fmt.Sprintf("Normal:%s,NormalFloat:%s,FloatBorder:%s",
		cfg.BodyStyle, cfg.BodyStyle, cfg.BodyStyle)
}

// hlColor decodes the packed integer color nvim_get_hl_by_name returns.
func hlColor(v any) (blend.RGB, bool) {
	switch n := v.(type) {
	case int64:
		return blend.FromPacked(uint32(n)), true
	case uint64:
		return blend.FromPacked(uint32(n)), true
	case int:
		return blend.FromPacked(uint32(n)), true
	case float64:
		return blend.FromPacked(uint32(n)), true
	}
	return blend.RGB{}, false
}
