package notify

import (
	"math"
	"time"
)

// animTickInterval drives fade progress at roughly 60Hz.
const animTickInterval = 16 * time.Millisecond

type animKind int

const (
	fadeIn animKind = iota
	fadeOut
)

// animation is the ephemeral per-notification fade record. Removed once
// completed, never persisted.
type animation struct {
	n        *Notification
	group    string
	kind     animKind
	from     float64 // alpha at fade-out start; fade-ins always target 1
	start    time.Time
	duration time.Duration
}

// easeOutCubic maps linear progress to the fade curve.
func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// startFadeIn begins a fade-in for a freshly added notification. With
// animation disabled it is a plain "show now".
func (c *Controller) startFadeIn(g *group, n *Notification) {
	if !c.cfg.Animation.On() {
		n.Alpha = 1
		c.markDirty(g.name)
		return
	}
	n.Animating = true
	n.Alpha = 0
	c.anims = append(c.anims, &animation{
		n:        n,
		group:    g.name,
		kind:     fadeIn,
		start:    time.Now(),
		duration: c.millis(c.cfg.Animation.FadeIn),
	})
	c.ensureAnimTicker()
}

// startFadeOut begins a fade-out after delay. With animation disabled the
// notification expires immediately, no transition.
func (c *Controller) startFadeOut(g *group, n *Notification, delay time.Duration) {
	if !c.cfg.Animation.On() {
		n.Expired = true
		c.markDirty(g.name)
		return
	}
	n.Animating = true
	c.anims = append(c.anims, &animation{
		n:        n,
		group:    g.name,
		kind:     fadeOut,
		from:     n.Alpha,
		start:    time.Now().Add(delay),
		duration: c.millis(c.cfg.Animation.FadeOut),
	})
	c.ensureAnimTicker()
}

// cancelAnims drops every fade record for n. Used when a new fade must
// supersede one already in flight.
func (c *Controller) cancelAnims(n *Notification) {
	kept := c.anims[:0]
	for _, a := range c.anims {
		if a.n == n {
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(c.anims); i++ {
		c.anims[i] = nil
	}
	c.anims = kept
}

// ensureAnimTicker lazily arms the shared animation tick. It stops itself
// once no record remains.
func (c *Controller) ensureAnimTicker() {
	if c.animTicker != nil {
		return
	}
	c.animTicker = c.loop.Every(animTickInterval, c.animTick)
}

// animTick advances every active fade and re-renders only the groups that
// contain an affected notification.
func (c *Controller) animTick() {
	if c.closed {
		return
	}
	now := time.Now()
	touched := make(map[string]bool)

	kept := c.anims[:0]
	for _, a := range c.anims {
		n := a.n
		if !n.Animating {
			// Superseded: a fresh update reset the notification to
			// fully visible and abandoned this fade.
			continue
		}
		if now.Before(a.start) {
			// Staggered start not reached yet.
			kept = append(kept, a)
			continue
		}

		t := 1.0
		if a.duration > 0 {
			t = math.Min(float64(now.Sub(a.start))/float64(a.duration), 1)
		}
		eased := easeOutCubic(t)
		if a.kind == fadeIn {
			n.Alpha = eased
		} else {
			n.Alpha = a.from * (1 - eased)
		}
		touched[a.group] = true

		if t >= 1 {
			n.Animating = false
			if a.kind == fadeOut {
				n.Expired = true
				n.Alpha = 0
			} else {
				n.Alpha = 1
			}
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(c.anims); i++ {
		c.anims[i] = nil
	}
	c.anims = kept

	if len(c.anims) == 0 {
		c.animTicker.Stop()
		c.animTicker = nil
	}
	for name := range touched {
		c.markDirty(name)
	}
}
