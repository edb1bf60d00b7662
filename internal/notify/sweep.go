package notify

import "time"

// sweep compares each notification's age against its timeout once per
// sweep interval. Timeout 0 is sticky and exempt; anything mid-animation
// is left to the animator (the expired/animating flags are the exclusion
// mechanism between the two tickers).
func (c *Controller) sweep() {
	if c.closed {
		return
	}
	now := time.Now()
	for _, g := range c.store.all() {
		for _, n := range g.items {
			if n.Expired || n.Animating {
				continue
			}
			if n.Timeout <= 0 {
				continue
			}
			if now.Sub(n.stamp()) < n.Timeout {
				continue
			}
			if c.cfg.Animation.On() {
				c.startFadeOut(g, n, 0)
			} else {
				n.Expired = true
				c.markDirty(g.name)
			}
		}
	}
}
