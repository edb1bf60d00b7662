// Package host declares the editor capabilities the notification engine
// consumes: floating panels, scratch text buffers, a highlight registry,
// and screen metrics. Implementations live in subpackages; the engine
// itself never talks to an editor directly.
package host

import "github.com/marout/chime/internal/blend"

// Panel is an opaque handle to a floating surface owned by the host.
type Panel int

// Buffer is an opaque handle to a host text buffer.
type Buffer int

// None marks an absent panel or buffer handle.
const None = 0

// Anchor names the panel corner the position refers to.
type Anchor string

const (
	AnchorNW Anchor = "NW"
	AnchorNE Anchor = "NE"
	AnchorSW Anchor = "SW"
	AnchorSE Anchor = "SE"
)

// Valid reports whether a is one of the four known anchors.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorNW, AnchorNE, AnchorSW, AnchorSE:
		return true
	}
	return false
}

// PanelConfig positions and sizes a floating panel. Row/Col are screen
// cells relative to the anchor corner.
type PanelConfig struct {
	Row, Col      int
	Width, Height int
	Anchor        Anchor
	Focusable     bool
	ZIndex        int
	Border        string // host border style name, empty = none
	Transparency  int    // 0 opaque .. 100 invisible
	BodyStyle     string // style the panel body maps to, empty = host default
	Enter         bool   // move focus into the panel on open
	Scrollable    bool
}

// Annotation is a range-based decoration on one buffer line. With
// OverlayText set it renders text at display column OverlayCol via the
// host's annotation layer without occupying buffer bytes; otherwise it
// highlights byte columns Col..EndCol of the real line content.
type Annotation struct {
	Line        int
	Col         int
	EndCol      int
	OverlayCol  int // display column for overlay text
	OverlayText string
	Highlight   string
}

// Style is a resolved highlight definition.
type Style struct {
	Foreground *blend.RGB
	Background *blend.RGB
}

// Host is the full capability surface. All calls are synchronous and must
// be cheap; the engine invokes them from its event loop only. Calls
// against torn-down handles return errors which the render path swallows.
type Host interface {
	OpenPanel(buf Buffer, cfg PanelConfig) (Panel, error)
	ConfigurePanel(p Panel, cfg PanelConfig) error
	ClosePanel(p Panel) error
	PanelValid(p Panel) bool

	CreateBuffer() (Buffer, error)
	BufferValid(b Buffer) bool
	SetBufferLines(b Buffer, lines []string) error
	ClearAnnotations(b Buffer) error
	AddAnnotation(b Buffer, a Annotation) error
	ReleaseBuffer(b Buffer) error

	// Style resolves a named highlight, following alias chains.
	Style(name string) (Style, bool)
	DefineStyle(name string, s Style) error
	BackgroundMode() string // "dark" or "light"
	TerminalBackground() (blend.RGB, bool)

	// ScreenSize returns the current terminal dimensions in cells.
	ScreenSize() (rows, cols int)

	// OnPanelDismiss binds the host's dismiss gestures (close keys,
	// focus loss) for an interactive panel to fn. Hosts without focus
	// tracking may bind keys only.
	OnPanelDismiss(p Panel, b Buffer, fn func())
}

// StyleSource adapts a Host to the blend resolution chain.
type StyleSource struct {
	H Host
}

// StyleBackground returns the background of a named style, if resolved.
func (s StyleSource) StyleBackground(name string) (blend.RGB, bool) {
	st, ok := s.H.Style(name)
	if !ok || st.Background == nil {
		return blend.RGB{}, false
	}
	return *st.Background, true
}

// TerminalBackground returns the terminal-reported background color.
func (s StyleSource) TerminalBackground() (blend.RGB, bool) {
	return s.H.TerminalBackground()
}

// BackgroundMode reports the host's background mode.
func (s StyleSource) BackgroundMode() string {
	return s.H.BackgroundMode()
}
