// Package debounce coalesces rapid-fire triggers (keystroke search,
// filter changes) into one delayed call, with generation checking so a
// stale in-flight result can never overwrite a newer one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules a function after a fixed delay; every new trigger
// increments a generation counter and cancels the pending timer, so only
// the most recent trigger fires. The generation passed to the callback
// lets callers discard responses that no longer match the latest input.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// New creates a debouncer with the given delay
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing any pending call. fn
// receives the generation current at scheduling time; pass it to Current
// via Matches when the (possibly slow) work completes.
func (d *Debouncer) Trigger(fn func(gen uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		fn(gen)
	})
}

// Matches reports whether gen is still the latest generation. A false
// result means a newer trigger superseded this one and its result must
// be discarded.
func (d *Debouncer) Matches(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Stop cancels any pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
