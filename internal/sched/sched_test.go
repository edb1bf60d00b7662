package sched

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopRunsPostedFuncsInOrder(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var got []int
	for i := range 5 {
		l.Post(func() { got = append(got, i) })
	}

	l.Call(func() {})

	if len(got) != 5 {
		t.Fatalf("ran %d funcs, want 5", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Errorf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestLoopPostAfterCloseIsNoop(t *testing.T) {
	l := NewLoop()
	l.Close()

	// Must not block or panic.
	l.Post(func() { t.Error("ran after close") })
	l.Call(func() { t.Error("ran after close") })
}

func TestAfterFunc(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerStop(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var fired atomic.Bool
	timer := l.AfterFunc(30*time.Millisecond, func() { fired.Store(true) })
	timer.Stop()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() {
		t.Error("stopped timer fired")
	}
}

func TestEvery(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var ticks atomic.Int32
	tk := l.Every(10*time.Millisecond, func() { ticks.Add(1) })
	defer tk.Stop()

	deadline := time.After(time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks before deadline", ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	tk.Stop()
	l.Call(func() {})
	n := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	// A tick already in flight when Stop ran may still land; no more after.
	if ticks.Load() > n+1 {
		t.Errorf("ticker kept firing after Stop: %d -> %d", n, ticks.Load())
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var fires atomic.Int32
	var d *Debouncer
	l.Call(func() {
		d = NewDebouncer(l, 20*time.Millisecond, func() { fires.Add(1) })
		for range 10 {
			d.Request()
		}
	})

	time.Sleep(100 * time.Millisecond)
	if got := fires.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var fires atomic.Int32
	l.Call(func() {
		d := NewDebouncer(l, time.Hour, func() { fires.Add(1) })
		d.Request()
		d.Flush()
		// Second flush with a clean flag must not fire again.
		d.Flush()
	})

	if got := fires.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var fires atomic.Int32
	l.Call(func() {
		d := NewDebouncer(l, 10*time.Millisecond, func() { fires.Add(1) })
		d.Request()
		d.Stop()
	})

	time.Sleep(60 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Errorf("fired %d times after Stop, want 0", got)
	}
}
