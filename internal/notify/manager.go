package notify

import (
	"time"

	"github.com/marout/chime/internal/config"
)

// Notify creates or updates a notification. It is the drop-in replacement
// for the host's native notify call: malformed input is coerced to safe
// defaults, never rejected. level accepts a Level, an ordinal, or a name
// string. Safe to call from any goroutine.
func (c *Controller) Notify(message string, level any, opts Options) {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.upsert(message, ParseLevel(level), opts)
	})
}

// upsert runs the validate/merge/append pipeline on the loop.
func (c *Controller) upsert(message string, level Level, opts Options) {
	groupName := opts.Group
	if !knownGroup(groupName) {
		groupName = c.cfg.DefaultGroup
	}
	g := c.store.get(groupName, c.screenRows, c.screenCols)

	id := coerceID(opts.ID)
	existing := g.find(id)

	now := time.Now()
	if existing != nil {
		c.mergeInto(existing, message, level, opts, now)
		// An update supersedes any in-flight fade: fully visible again.
		existing.Expired = false
		existing.Animating = false
		existing.Alpha = 1
		c.markDirty(g.name)
		return
	}

	n := &Notification{
		ID:        id,
		Message:   message,
		Icon:      opts.Icon,
		Level:     level,
		Timeout:   c.resolveTimeout(opts.Timeout, nil),
		CreatedAt: now,
		Highlight: opts.Highlight,
		Alpha:     1,
		Formatter: opts.Formatter,
		Data:      opts.Data,
	}
	g.items = append(g.items, n)

	if c.cfg.Animation.On() {
		c.startFadeIn(g, n)
	} else {
		c.markDirty(g.name)
	}
}

// mergeInto applies the per-field "keep existing unless overridden" rule.
// An empty incoming message preserves the previous one, so callers can
// bump a notification's freshness without repeating its text.
func (c *Controller) mergeInto(n *Notification, message string, level Level, opts Options, now time.Time) {
	if message != "" {
		n.Message = message
	}
	n.Level = level
	n.Timeout = c.resolveTimeout(opts.Timeout, &n.Timeout)
	if opts.Icon != "" {
		n.Icon = opts.Icon
	}
	if opts.Highlight != "" {
		n.Highlight = opts.Highlight
	}
	if opts.Formatter != nil {
		n.Formatter = opts.Formatter
	}
	if opts.Data != nil {
		n.Data = opts.Data
	}
	n.UpdatedAt = now
}

// resolveTimeout turns an optional millisecond count into a Duration.
// Nil keeps the previous value when updating, else the configured default;
// negative values are invalid and also fall back to the default.
func (c *Controller) resolveTimeout(ms *int, previous *time.Duration) time.Duration {
	if ms == nil {
		if previous != nil {
			return *previous
		}
		return c.millis(c.cfg.DefaultTimeout)
	}
	if *ms < 0 {
		return c.millis(c.cfg.DefaultTimeout)
	}
	return c.millis(*ms)
}

func knownGroup(name string) bool {
	for _, n := range config.DefaultGroupNames {
		if n == name {
			return true
		}
	}
	return false
}
