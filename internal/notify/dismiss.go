package notify

import "time"

// hardCleanupMargin pads the batch-dismiss fallback deadline so the timer
// always lands after the last fade completion should have.
const hardCleanupMargin = 250 * time.Millisecond

// DismissOptions controls a dismiss-all.
type DismissOptions struct {
	// Immediate tears panels down right away, bypassing animation.
	Immediate bool
	// Stagger offsets each notification's fade-out start for a cascade
	// effect. Ignored with Immediate or animation disabled.
	Stagger time.Duration
}

// Dismiss removes every live notification, animated or not. Safe to call
// from any goroutine.
func (c *Controller) Dismiss(opts DismissOptions) {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.dismissAll(opts)
	})
}

func (c *Controller) dismissAll(opts DismissOptions) {
	if opts.Immediate || !c.cfg.Animation.On() {
		for _, a := range c.anims {
			a.n.Animating = false
		}
		c.anims = nil
		c.animTicker.Stop()
		c.animTicker = nil
		for _, g := range c.store.all() {
			c.store.teardownSurface(g)
			g.items = nil
		}
		c.renderDeb.Stop()
		clear(c.dirty)
		c.dirtyAll = false
		return
	}

	var batch []*Notification
	i := 0
	for _, g := range c.store.all() {
		for _, n := range g.live() {
			// A fade already in flight (typically a fade-in) is
			// superseded: the notification joins the batch and fades
			// out from its current alpha.
			c.cancelAnims(n)
			c.startFadeOut(g, n, opts.Stagger*time.Duration(i))
			batch = append(batch, n)
			i++
		}
	}
	if len(batch) == 0 {
		return
	}

	// Guaranteed hard cleanup: even if per-notification completion
	// bookkeeping goes wrong, every panel is closed by this deadline.
	deadline := c.millis(c.cfg.Animation.FadeOut) +
		opts.Stagger*time.Duration(len(batch)) +
		hardCleanupMargin
	c.loop.AfterFunc(deadline, func() {
		if c.closed {
			return
		}
		for _, n := range batch {
			if !n.Expired {
				n.Expired = true
				n.Animating = false
			}
		}
		c.requestRenderAll()
		c.renderDeb.Flush()
	})
}
