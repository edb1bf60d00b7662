// Command chimedemo showcases the notification engine inside a bubbletea
// program. It runs a scripted tour: levels, sticky notifications, live
// updates through a custom formatter, history, and staggered dismissal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/format"
	"github.com/marout/chime/internal/fragment"
	"github.com/marout/chime/internal/host/tuihost"
	"github.com/marout/chime/internal/notify"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type stepMsg int

type redrawMsg struct{}

type model struct {
	host *tuihost.Host
	ctl  *notify.Controller
	spin spinner.Model

	width, height int
	step          int
	progress      int
}

func newModel() (model, error) {
	out := termenv.NewOutput(os.Stdout)
	mode := "dark"
	if !out.HasDarkBackground() {
		mode = "light"
	}
	h := tuihost.New(24, 80, mode)
	// The OSC 11 reply arrives as "#rrggbb" on terminals that support the
	// query; fades then blend toward the real background.
	h.SetTerminalBackgroundHex(fmt.Sprint(out.BackgroundColor()))

	cfg := config.Default()
	cfg.Animation.FadeIn = 150
	cfg.Animation.FadeOut = 250
	ctl, err := notify.New(h, cfg)
	if err != nil {
		return model{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{host: h, ctl: ctl, spin: sp}, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, stepCmd(0, time.Second), redrawCmd())
}

func stepCmd(n int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return stepMsg(n) })
}

// redrawCmd keeps the view fresh while the engine animates panels outside
// bubbletea's message flow.
func redrawCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg { return redrawMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.host.SetScreenSize(msg.Height, msg.Width)
		m.ctl.ScreenResized()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			if m.host.DismissFocused() {
				return m, nil
			}
			if msg.String() == "q" {
				m.ctl.Close()
				return m, tea.Quit
			}
		case "ctrl+c":
			m.ctl.Close()
			return m, tea.Quit
		case "n":
			m.ctl.Notify("manual notification", "info", notify.Options{})
		case "h":
			m.ctl.ShowHistory()
		case "d":
			m.ctl.Dismiss(notify.DismissOptions{Stagger: 100 * time.Millisecond})
		default:
			// Any other key closes an open history panel.
			m.host.DismissFocused()
		}
		return m, nil

	case stepMsg:
		return m.runStep(int(msg))

	case redrawMsg:
		return m, redrawCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.progress > 0 && m.progress < 100 {
			m.updateDownload()
		}
		return m, cmd
	}
	return m, nil
}

// runStep advances the scripted tour.
func (m model) runStep(step int) (tea.Model, tea.Cmd) {
	m.step = step
	switch step {
	case 0:
		m.ctl.Notify("welcome to the chime demo", "info", notify.Options{})
	case 1:
		m.ctl.Notify("disk usage above 80%", "warn", notify.Options{Group: "bottom-right"})
	case 2:
		m.ctl.Notify("connection lost\nretrying in 5s", "error", notify.Options{ID: "conn"})
	case 3:
		m.ctl.Notify("connection restored", "info", notify.Options{ID: "conn"})
	case 4:
		m.progress = 1
		m.updateDownload()
	case 5:
		m.ctl.Notify("this one stays until dismissed", "debug", notify.Options{
			Group:   "bottom-left",
			Timeout: notify.Millis(0),
		})
	case 6:
		m.ctl.ShowHistory()
	case 7:
		m.host.DismissFocused()
		m.ctl.Dismiss(notify.DismissOptions{Stagger: 120 * time.Millisecond})
		return m, stepCmd(0, 6*time.Second)
	}
	return m, stepCmd(step+1, 2*time.Second)
}

// updateDownload drives the sticky progress notification through its
// custom formatter.
func (m *model) updateDownload() {
	m.progress = min(m.progress+3, 100)
	frame := m.spin.View()
	pct := m.progress

	if pct >= 100 {
		// Updates keep the previous formatter, so the completion state
		// goes through one as well.
		m.ctl.Notify("", "info", notify.Options{
			ID:      "dl",
			Timeout: notify.Millis(3000),
			Formatter: format.Func(func(format.Context) []fragment.Fragment {
				return []fragment.Fragment{{Text: "✓ download complete", Highlight: "ChimeInfo"}}
			}),
		})
		return
	}
	m.ctl.Notify("", "info", notify.Options{
		ID:      "dl",
		Timeout: notify.Millis(0),
		Formatter: format.Func(func(format.Context) []fragment.Fragment {
			bar := barString(pct, 20)
			return []fragment.Fragment{
				{Text: frame + " ", Highlight: "ChimeDebug"},
				{Text: "downloading ", Highlight: "ChimeInfo"},
				{Text: bar, Highlight: "ChimeDebug"},
				{Text: fmt.Sprintf(" %3d%%", pct), Highlight: "ChimeInfo"},
			}
		}),
	})
}

func barString(pct, width int) string {
	filled := pct * width / 100
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}

func (m model) View() string {
	header := titleStyle.Render("chime demo") + "\n" +
		dimStyle.Render("n: notify  h: history  d: dismiss all  q: quit") + "\n"
	return m.host.View(header)
}

func main() {
	m, err := newModel()
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
