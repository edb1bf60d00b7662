package notify

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/host"
	"github.com/marout/chime/internal/sched"
)

// Controller owns all notification state: the group store, the render
// debouncer, the animator, and the expiry sweeper. Every mutation runs on
// the controller's event loop, so none of the state needs locking.
// Controllers are independent; tests create as many as they like.
type Controller struct {
	cfg  config.Config
	host host.Host
	loop *sched.Loop
	log  *log.Logger

	store *store

	renderDeb *sched.Debouncer
	resizeDeb *sched.Debouncer
	dirty     map[string]bool
	dirtyAll  bool

	anims      []*animation
	animTicker *sched.Ticker

	sweeper *sched.Ticker

	fadeMemo map[string]string // base highlight + alpha bucket -> derived name

	screenRows int
	screenCols int

	historyPanel  host.Panel
	historyBuffer host.Buffer

	closed bool
}

// New validates the configuration, captures the initial screen size, and
// starts the expiry sweeper. Configuration errors abort startup rather
// than leaving the engine half-initialized.
func New(h host.Host, cfg config.Config) (*Controller, error) {
	if h == nil {
		return nil, errors.New("notify: nil host")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("notify: open log file: %w", err)
		}
		logOut = f
	}

	c := &Controller{
		cfg:      cfg,
		host:     h,
		loop:     sched.NewLoop(),
		log:      log.New(logOut, "chime ", log.LstdFlags),
		dirty:    make(map[string]bool),
		fadeMemo: make(map[string]string),
	}
	c.store = newStore(h, &c.cfg)
	c.renderDeb = sched.NewDebouncer(c.loop, c.millis(cfg.RenderDebounce), c.flush)
	c.resizeDeb = sched.NewDebouncer(c.loop, c.millis(cfg.ResizeDebounce), c.applyResize)

	c.screenRows, c.screenCols = h.ScreenSize()
	c.sweeper = c.loop.Every(c.millis(cfg.SweepInterval), c.sweep)

	return c, nil
}

func (c *Controller) millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Loop exposes the controller's event loop so host adapters can marshal
// editor events onto it.
func (c *Controller) Loop() *sched.Loop { return c.loop }

// ScreenResized notes a terminal resize. Placement functions are
// re-evaluated once the debounce settles, then everything re-renders.
func (c *Controller) ScreenResized() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.resizeDeb.Request()
	})
}

// applyResize refreshes every group's cached placement and re-renders.
func (c *Controller) applyResize() {
	c.screenRows, c.screenCols = c.host.ScreenSize()
	for _, g := range c.store.all() {
		g.refreshPlacement(c.screenRows, c.screenCols)
	}
	c.requestRenderAll()
}

// markDirty schedules a debounced render of one group.
func (c *Controller) markDirty(name string) {
	c.dirty[name] = true
	c.renderDeb.Request()
}

// requestRenderAll schedules a debounced render of every group.
func (c *Controller) requestRenderAll() {
	c.dirtyAll = true
	c.renderDeb.Request()
}

// flush is the debounced render pass: expired bookkeeping first, then one
// render per dirty group.
func (c *Controller) flush() {
	c.store.cleanupExpired()

	var targets []*group
	if c.dirtyAll {
		targets = c.store.all()
	} else {
		for _, g := range c.store.all() {
			if c.dirty[g.name] {
				targets = append(targets, g)
			}
		}
	}
	c.dirtyAll = false
	clear(c.dirty)

	for _, g := range targets {
		c.renderGroup(g)
	}
}

// Close tears down every panel and stops all timers. The controller is
// unusable afterwards.
func (c *Controller) Close() {
	c.loop.Call(func() {
		if c.closed {
			return
		}
		c.closed = true
		c.sweeper.Stop()
		c.animTicker.Stop()
		c.renderDeb.Stop()
		c.resizeDeb.Stop()
		for _, g := range c.store.all() {
			c.store.teardownSurface(g)
			g.items = nil
		}
		c.closeHistory()
	})
	c.loop.Close()
}

// Sync waits for all currently queued loop work to finish. Intended for
// tests and for hosts that need a flush point on shutdown.
func (c *Controller) Sync() {
	c.loop.Call(func() {})
}
