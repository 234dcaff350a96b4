// Package clocktest provides a manually driven clock.
package clocktest

import (
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/albumdex/internal/clock"
)

// Fake is a clock whose timers fire only when told to.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*Timer
	claimed int
}

// NewFake creates a Fake clock starting at the Unix epoch.
func NewFake() *Fake {
	return &Fake{now: time.Unix(0, 0)}
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTimer registers a timer that fires on Fire.
func (f *Fake) NewTimer(d time.Duration) clock.Timer {
	t := &Timer{f: f, d: d, c: make(chan time.Time, 1)}
	f.mu.Lock()
	f.timers = append(f.timers, t)
	f.mu.Unlock()
	return t
}

// Timers returns the number of timers created so far.
func (f *Fake) Timers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// WaitTimer waits for the next timer not yet returned by WaitTimer.
func (f *Fake) WaitTimer(timeout time.Duration) (*Timer, error) {
	deadline := time.Now().Add(timeout)
	for {
		f.mu.Lock()
		if f.claimed < len(f.timers) {
			t := f.timers[f.claimed]
			f.claimed++
			f.mu.Unlock()
			return t, nil
		}
		f.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no timer created within %s", timeout)
		}
		time.Sleep(time.Millisecond)
	}
}

// Timer is a fake single-shot timer.
type Timer struct {
	f       *Fake
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	fired   bool
	stopped bool
}

// C returns the firing channel.
func (t *Timer) C() <-chan time.Time { return t.c }

// Duration returns the duration the timer was created with.
func (t *Timer) Duration() time.Duration { return t.d }

// Stop prevents a pending fire.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop was called before the timer fired.
func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire advances the fake clock by the timer's duration and delivers the tick.
// Returns false if the timer was stopped or already fired.
func (t *Timer) Fire() bool {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	t.mu.Unlock()

	t.f.mu.Lock()
	t.f.now = t.f.now.Add(t.d)
	now := t.f.now
	t.f.mu.Unlock()

	t.c <- now
	return true
}
