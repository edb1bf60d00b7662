package notify

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/marout/chime/internal/host"
)

// historyPanelConfig returns the focusable history panel's config, if open.
func historyPanelConfig(h *mockHost) (host.PanelConfig, bool) {
	for _, cfg := range h.panelConfigs() {
		if cfg.Focusable {
			return cfg, true
		}
	}
	return host.PanelConfig{}, false
}

func TestShowHistoryEmptyPostsNotice(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.ShowHistory()

	waitFor(t, time.Second, "notice notification", func() bool {
		return slices.Contains(h.overlayTexts(), "no notifications")
	})
	if _, ok := historyPanelConfig(h); ok {
		t.Error("history panel opened despite empty history")
	}
}

func TestShowHistoryListsNewestFirst(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("oldest entry", "info", Options{Timeout: Millis(0)})
	c.Sync()
	time.Sleep(2 * time.Millisecond)
	c.Notify("newest entry", "error", Options{Timeout: Millis(0)})
	c.Sync()

	c.ShowHistory()
	c.Sync()

	cfg, ok := historyPanelConfig(h)
	if !ok {
		t.Fatal("history panel not opened")
	}
	if !cfg.Enter || !cfg.Scrollable {
		t.Error("history panel should take focus and scroll")
	}
	if cfg.ZIndex <= 150 {
		t.Errorf("ZIndex = %d, want above notification panels", cfg.ZIndex)
	}

	lines := historyBufferLines(t, h)
	newest, oldest := -1, -1
	for i, l := range lines {
		if strings.Contains(l, "newest entry") {
			newest = i
		}
		if strings.Contains(l, "oldest entry") {
			oldest = i
		}
	}
	if newest < 0 || oldest < 0 {
		t.Fatalf("history lines missing entries: %q", lines)
	}
	if newest >= oldest {
		t.Errorf("newest at line %d, oldest at line %d; want newest first", newest, oldest)
	}
	// Real text carries the level code for searchability.
	if !strings.Contains(lines[newest], "ERR") {
		t.Errorf("history line %q missing level code", lines[newest])
	}
}

func TestShowHistoryMaterializesCustomFormatter(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("", "info", Options{
		ID:        "build",
		Timeout:   Millis(0),
		Formatter: staticFormatter("building 42%"),
	})
	c.Sync()

	c.ShowHistory()
	c.Sync()

	lines := historyBufferLines(t, h)
	found := false
	for _, l := range lines {
		if strings.Contains(l, "building 42%") {
			found = true
		}
	}
	if !found {
		t.Errorf("custom formatter content not materialized: %q", lines)
	}
}

func TestHistoryPanelDismissReleasesResources(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("entry", "info", Options{Timeout: Millis(0)})
	c.Sync()
	c.ShowHistory()
	c.Sync()

	if _, ok := historyPanelConfig(h); !ok {
		t.Fatal("history panel not opened")
	}

	// The host reports the user closed the panel.
	for _, fn := range h.dismissFuncs() {
		fn()
	}
	waitFor(t, time.Second, "history teardown", func() bool {
		_, ok := historyPanelConfig(h)
		return !ok
	})

	// Reopening works after a dismissal.
	c.ShowHistory()
	c.Sync()
	if _, ok := historyPanelConfig(h); !ok {
		t.Error("history cannot be reopened after dismissal")
	}
}

func TestShowHistoryRefreshesOpenPanel(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("first", "info", Options{Timeout: Millis(0)})
	c.Sync()
	c.ShowHistory()
	c.Sync()
	before := len(h.panelConfigs())

	c.Notify("second", "info", Options{Timeout: Millis(0)})
	c.Sync()
	c.ShowHistory()
	c.Sync()

	if after := len(h.panelConfigs()); after != before {
		t.Errorf("reopening history changed panel count %d -> %d", before, after)
	}
	lines := historyBufferLines(t, h)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "first") || !strings.Contains(joined, "second") {
		t.Errorf("refreshed history missing entries: %q", lines)
	}
}

// historyBufferLines returns the lines of the buffer behind the focusable
// panel.
func historyBufferLines(t *testing.T, h *mockHost) []string {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for p, cfg := range h.panels {
		if !cfg.Focusable {
			continue
		}
		return append([]string(nil), h.buffers[h.panelBufs[p]]...)
	}
	t.Fatal("no history panel open")
	return nil
}
