// Package sched provides the single cooperative event loop the notification
// engine runs on. Timer callbacks fire on arbitrary goroutines; everything
// here marshals them onto one loop goroutine so engine state never needs
// locking.
package sched

import (
	"sync"
	"time"
)

// Loop executes posted functions serially on a dedicated goroutine.
type Loop struct {
	run  chan func()
	done chan struct{}
	once sync.Once
}

// NewLoop starts a loop.
func NewLoop() *Loop {
	l := &Loop{
		run:  make(chan func(), 64),
		done: make(chan struct{}),
	}
	go l.drain()
	return l
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.run:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post queues fn for execution on the loop goroutine. Safe to call from
// any goroutine; a no-op after Close.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.run <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop goroutine and waits for it to finish.
// Returns early if the loop closes first.
func (l *Loop) Call(fn func()) {
	ran := make(chan struct{})
	l.Post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-l.done:
	}
}

// Close stops the loop. Pending and future posts are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Timer is a one-shot timer whose callback runs on the loop.
type Timer struct {
	t *time.Timer
}

// AfterFunc arms a one-shot timer that posts fn to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	return &Timer{t: time.AfterFunc(d, func() { l.Post(fn) })}
}

// Stop cancels the timer if it has not fired. Safe on a nil timer.
func (t *Timer) Stop() {
	if t != nil && t.t != nil {
		t.t.Stop()
	}
}

// Ticker posts fn to the loop at a fixed interval until stopped.
type Ticker struct {
	stop chan struct{}
	once sync.Once
}

// Every starts a repeating tick. The first fire happens after one interval.
func (l *Loop) Every(interval time.Duration, fn func()) *Ticker {
	tk := &Ticker{stop: make(chan struct{})}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.Post(fn)
			case <-tk.stop:
				return
			case <-l.done:
				return
			}
		}
	}()
	return tk
}

// Stop ends the tick. Safe to call more than once or on nil.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
}

// Debouncer coalesces bursts of requests into one callback per quiet
// period. All methods must be called on the loop goroutine.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	fn    func()

	timer *Timer
	dirty bool
}

// NewDebouncer creates a debouncer that fires fn on the loop after delay.
func NewDebouncer(loop *Loop, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{loop: loop, delay: delay, fn: fn}
}

// Request marks the debouncer dirty and re-arms the delay. Repeated calls
// before the timer fires collapse into a single callback.
func (d *Debouncer) Request() {
	d.dirty = true
	d.timer.Stop()
	d.timer = d.loop.AfterFunc(d.delay, d.fire)
}

// Flush fires immediately if a request is pending, bypassing the delay.
func (d *Debouncer) Flush() {
	d.timer.Stop()
	d.fire()
}

func (d *Debouncer) fire() {
	if !d.dirty {
		return
	}
	d.dirty = false
	d.fn()
}

// Stop cancels any pending fire and clears the dirty flag.
func (d *Debouncer) Stop() {
	d.timer.Stop()
	d.dirty = false
}
