package notify

import (
	"testing"
	"time"

	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/format"
	"github.com/marout/chime/internal/fragment"
)

// testConfig returns fast timings with animation off; individual tests
// re-enable what they exercise.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.RenderDebounce = 1
	cfg.ResizeDebounce = 1
	cfg.SweepInterval = 10
	cfg.Animation.FadeIn = 30
	cfg.Animation.FadeOut = 40
	off := false
	cfg.Animation.Enabled = &off
	return cfg
}

func animOn(cfg *config.Config) {
	on := true
	cfg.Animation.Enabled = &on
}

func newTestController(t *testing.T, h *mockHost, cfg config.Config) *Controller {
	t.Helper()
	c, err := New(h, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// staticFormatter renders fixed text regardless of context.
func staticFormatter(text string) format.Formatter {
	return format.Func(func(format.Context) []fragment.Fragment {
		return []fragment.Fragment{{Text: text, Highlight: "ChimeInfo"}}
	})
}

// groupItems reads a group's notification list on the loop.
func groupItems(c *Controller, name string) []Notification {
	var out []Notification
	c.loop.Call(func() {
		if g, ok := c.store.groups[name]; ok {
			for _, n := range g.items {
				out = append(out, *n)
			}
		}
	})
	return out
}
