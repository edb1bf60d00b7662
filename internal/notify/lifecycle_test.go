package notify

import (
	"testing"
	"time"
)

func TestSweepExpiresAndTearsDown(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("short lived", "info", Options{Timeout: Millis(30)})
	waitFor(t, time.Second, "panel to open", func() bool { return h.panelCount() == 1 })

	waitFor(t, 2*time.Second, "panel teardown after expiry", func() bool {
		return h.panelCount() == 0
	})
	if items := groupItems(c, "top-right"); len(items) != 0 {
		t.Errorf("%d notifications remain after expiry cleanup", len(items))
	}
}

func TestSweepNeverExpiresEarly(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	start := time.Now()
	c.Notify("patient", "info", Options{Timeout: Millis(150)})
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	waitFor(t, 2*time.Second, "expiry", func() bool { return h.panelCount() == 0 })
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("expired after %v, before the 150ms timeout", elapsed)
	}
}

func TestStickyNotificationNeverAutoExpires(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("sticky", "info", Options{Timeout: Millis(0)})
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	// Several sweep intervals pass; the notification stays.
	time.Sleep(100 * time.Millisecond)
	c.Sync()
	if h.panelCount() != 1 {
		t.Error("sticky notification was torn down by the sweeper")
	}

	c.Dismiss(DismissOptions{Immediate: true})
	waitFor(t, time.Second, "explicit dismissal", func() bool { return h.panelCount() == 0 })
}

func TestUpdateRestartsExpiryClock(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("ticking", "info", Options{ID: "x", Timeout: Millis(80)})
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	// Keep touching it before the timeout elapses.
	for range 3 {
		time.Sleep(40 * time.Millisecond)
		c.Notify("", "info", Options{ID: "x"})
	}
	c.Sync()
	if h.panelCount() != 1 {
		t.Error("updated notification expired despite refreshed clock")
	}
}

func TestFadeInReachesFullVisibility(t *testing.T) {
	h := newMockHost()
	cfg := testConfig()
	animOn(&cfg)
	c := newTestController(t, h, cfg)

	c.Notify("fading in", "info", Options{Timeout: Millis(0)})

	waitFor(t, time.Second, "fade-in completion", func() bool {
		items := groupItems(c, "top-right")
		return len(items) == 1 && items[0].Alpha == 1 && !items[0].Animating
	})
	if h.panelCount() != 1 {
		t.Error("no panel after fade-in")
	}
}

func TestAnimatedExpiryFadesOutThenRemoves(t *testing.T) {
	h := newMockHost()
	cfg := testConfig()
	animOn(&cfg)
	c := newTestController(t, h, cfg)

	c.Notify("doomed", "info", Options{Timeout: Millis(30)})
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	waitFor(t, 2*time.Second, "fade-out teardown", func() bool {
		return h.panelCount() == 0
	})
	if items := groupItems(c, "top-right"); len(items) != 0 {
		t.Errorf("%d notifications remain after animated expiry", len(items))
	}
}

func TestUpdateSupersedesInFlightFade(t *testing.T) {
	h := newMockHost()
	cfg := testConfig()
	cfg.Animation.FadeOut = 200
	animOn(&cfg)
	c := newTestController(t, h, cfg)

	c.Notify("v1", "info", Options{ID: "x", Timeout: Millis(30)})
	waitFor(t, time.Second, "fade-out start", func() bool {
		items := groupItems(c, "top-right")
		return len(items) == 1 && items[0].Animating
	})

	// A fresh update abandons the fade and restores full visibility.
	c.Notify("v2", "info", Options{ID: "x", Timeout: Millis(0)})
	c.Sync()
	items := groupItems(c, "top-right")
	if len(items) != 1 {
		t.Fatalf("got %d notifications, want 1", len(items))
	}
	if items[0].Alpha != 1 || items[0].Animating || items[0].Expired {
		t.Errorf("fade not superseded: %+v", items[0])
	}

	time.Sleep(300 * time.Millisecond)
	c.Sync()
	if h.panelCount() != 1 {
		t.Error("superseded fade still removed the notification")
	}
}

func TestDismissImmediate(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("a", "info", Options{Group: "top-right", Timeout: Millis(0)})
	c.Notify("b", "info", Options{Group: "bottom-left", Timeout: Millis(0)})
	waitFor(t, time.Second, "panels", func() bool { return h.panelCount() == 2 })

	c.Dismiss(DismissOptions{Immediate: true})
	waitFor(t, time.Second, "teardown", func() bool { return h.panelCount() == 0 })

	if items := groupItems(c, "top-right"); len(items) != 0 {
		t.Errorf("top-right still has %d notifications", len(items))
	}
	if items := groupItems(c, "bottom-left"); len(items) != 0 {
		t.Errorf("bottom-left still has %d notifications", len(items))
	}
}

func TestDismissStaggeredClosesAllByDeadline(t *testing.T) {
	h := newMockHost()
	cfg := testConfig()
	animOn(&cfg)
	c := newTestController(t, h, cfg)

	for _, msg := range []string{"one", "two", "three"} {
		c.Notify(msg, "info", Options{Timeout: Millis(0)})
	}
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	stagger := 50 * time.Millisecond
	c.Dismiss(DismissOptions{Stagger: stagger})

	// fade_out + stagger*count + safety margin, plus scheduling slack.
	deadline := c.millis(cfg.Animation.FadeOut) + stagger*3 + hardCleanupMargin + 500*time.Millisecond
	waitFor(t, deadline, "staggered teardown", func() bool { return h.panelCount() == 0 })
}

func TestDismissDuringFadeInStillCompletes(t *testing.T) {
	h := newMockHost()
	cfg := testConfig()
	cfg.Animation.FadeIn = 500
	animOn(&cfg)
	c := newTestController(t, h, cfg)

	c.Notify("interrupted", "info", Options{Timeout: Millis(0)})
	waitFor(t, time.Second, "fade-in start", func() bool {
		items := groupItems(c, "top-right")
		return len(items) == 1 && items[0].Animating
	})

	// Dismissing mid fade-in supersedes the fade; the notification joins
	// the batch and fades out from its current alpha.
	c.Dismiss(DismissOptions{})

	deadline := c.millis(cfg.Animation.FadeOut) + hardCleanupMargin + 500*time.Millisecond
	waitFor(t, deadline, "teardown of a fading-in notification", func() bool {
		return h.panelCount() == 0
	})
	if items := groupItems(c, "top-right"); len(items) != 0 {
		t.Errorf("%d notifications remain after dismissal", len(items))
	}
}

func TestDismissAnimationDisabledIsImmediate(t *testing.T) {
	h := newMockHost()
	c := newTestController(t, h, testConfig())

	c.Notify("x", "info", Options{Timeout: Millis(0)})
	waitFor(t, time.Second, "panel", func() bool { return h.panelCount() == 1 })

	c.Dismiss(DismissOptions{Stagger: time.Hour})
	waitFor(t, time.Second, "teardown", func() bool { return h.panelCount() == 0 })
}
