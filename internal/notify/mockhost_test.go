package notify

import (
	"errors"
	"sync"

	"github.com/marout/chime/internal/blend"
	"github.com/marout/chime/internal/host"
)

// mockHost records every host call for assertions. All state is guarded
// because the engine calls it from the loop goroutine while tests inspect
// it from theirs.
type mockHost struct {
	mu sync.Mutex

	nextHandle int
	panels     map[host.Panel]host.PanelConfig
	panelBufs  map[host.Panel]host.Buffer
	buffers    map[host.Buffer][]string
	annots     map[host.Buffer][]host.Annotation
	styles     map[string]host.Style
	defined    []string // DefineStyle call order
	dismissFns map[host.Panel]func()

	rows, cols int
	mode       string
	termBg     *blend.RGB

	failOpenPanel bool
}

func newMockHost() *mockHost {
	return &mockHost{
		nextHandle: 1,
		panels:     make(map[host.Panel]host.PanelConfig),
		panelBufs:  make(map[host.Panel]host.Buffer),
		buffers:    make(map[host.Buffer][]string),
		annots:     make(map[host.Buffer][]host.Annotation),
		styles:     make(map[string]host.Style),
		dismissFns: make(map[host.Panel]func()),
		rows:       40,
		cols:       120,
		mode:       "dark",
	}
}

func (m *mockHost) OpenPanel(buf host.Buffer, cfg host.PanelConfig) (host.Panel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOpenPanel {
		return host.None, errors.New("mock: open panel failed")
	}
	m.nextHandle++
	p := host.Panel(m.nextHandle)
	m.panels[p] = cfg
	m.panelBufs[p] = buf
	return p, nil
}

func (m *mockHost) ConfigurePanel(p host.Panel, cfg host.PanelConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.panels[p]; !ok {
		return errors.New("mock: configure invalid panel")
	}
	m.panels[p] = cfg
	return nil
}

func (m *mockHost) ClosePanel(p host.Panel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.panels[p]; !ok {
		return errors.New("mock: close invalid panel")
	}
	delete(m.panels, p)
	delete(m.panelBufs, p)
	return nil
}

func (m *mockHost) PanelValid(p host.Panel) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.panels[p]
	return ok
}

func (m *mockHost) CreateBuffer() (host.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextHandle++
	b := host.Buffer(m.nextHandle)
	m.buffers[b] = nil
	return b, nil
}

func (m *mockHost) BufferValid(b host.Buffer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buffers[b]
	return ok
}

func (m *mockHost) SetBufferLines(b host.Buffer, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[b]; !ok {
		return errors.New("mock: set lines on invalid buffer")
	}
	m.buffers[b] = append([]string(nil), lines...)
	return nil
}

func (m *mockHost) ClearAnnotations(b host.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[b]; !ok {
		return errors.New("mock: clear on invalid buffer")
	}
	m.annots[b] = nil
	return nil
}

func (m *mockHost) AddAnnotation(b host.Buffer, a host.Annotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[b]; !ok {
		return errors.New("mock: annotate invalid buffer")
	}
	m.annots[b] = append(m.annots[b], a)
	return nil
}

func (m *mockHost) ReleaseBuffer(b host.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[b]; !ok {
		return errors.New("mock: release invalid buffer")
	}
	delete(m.buffers, b)
	delete(m.annots, b)
	return nil
}

func (m *mockHost) Style(name string) (host.Style, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.styles[name]
	return s, ok
}

func (m *mockHost) DefineStyle(name string, s host.Style) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styles[name] = s
	m.defined = append(m.defined, name)
	return nil
}

func (m *mockHost) BackgroundMode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *mockHost) TerminalBackground() (blend.RGB, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.termBg == nil {
		return blend.RGB{}, false
	}
	return *m.termBg, true
}

func (m *mockHost) ScreenSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

func (m *mockHost) OnPanelDismiss(p host.Panel, _ host.Buffer, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissFns[p] = fn
}

// panelCount returns the number of open panels.
func (m *mockHost) panelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.panels)
}

// invalidatePanels drops all panels behind the engine's back, as the
// editor does when the user closes a floating window manually.
func (m *mockHost) invalidatePanels() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.panels)
	clear(m.panelBufs)
}

// snapshot copies the lines and annotations of every buffer.
func (m *mockHost) snapshot() (map[host.Buffer][]string, map[host.Buffer][]host.Annotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make(map[host.Buffer][]string, len(m.buffers))
	for b, ls := range m.buffers {
		lines[b] = append([]string(nil), ls...)
	}
	annots := make(map[host.Buffer][]host.Annotation, len(m.annots))
	for b, as := range m.annots {
		annots[b] = append([]host.Annotation(nil), as...)
	}
	return lines, annots
}

// setScreenSize changes the reported terminal size. The engine only
// notices once ScreenResized is called.
func (m *mockHost) setScreenSize(rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows, m.cols = rows, cols
}

// panelConfigs copies the current panel table.
func (m *mockHost) panelConfigs() map[host.Panel]host.PanelConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[host.Panel]host.PanelConfig, len(m.panels))
	for p, cfg := range m.panels {
		out[p] = cfg
	}
	return out
}

// dismissFuncs copies the registered panel-dismiss callbacks.
func (m *mockHost) dismissFuncs() map[host.Panel]func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[host.Panel]func(), len(m.dismissFns))
	for p, fn := range m.dismissFns {
		out[p] = fn
	}
	return out
}

// definedStyles returns the DefineStyle call order.
func (m *mockHost) definedStyles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.defined...)
}

// overlayTexts returns all overlay annotation texts across buffers.
func (m *mockHost) overlayTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, as := range m.annots {
		for _, a := range as {
			if a.OverlayText != "" {
				out = append(out, a.OverlayText)
			}
		}
	}
	return out
}
