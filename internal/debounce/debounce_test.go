package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerOnlyLatestFires(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var fired []uint64

	for i := 0; i < 5; i++ {
		d.Trigger(func(gen uint64) {
			mu.Lock()
			fired = append(fired, gen)
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, fired, 1, "only the last trigger should fire")
	assert.Equal(t, uint64(5), fired[0])
}

func TestDebouncerMatches(t *testing.T) {
	d := New(time.Millisecond)
	defer d.Stop()

	done := make(chan uint64, 1)
	d.Trigger(func(gen uint64) { done <- gen })
	gen := <-done
	assert.True(t, d.Matches(gen))

	// A newer trigger invalidates the old generation
	d.Trigger(func(uint64) {})
	assert.False(t, d.Matches(gen))
}

func TestDebouncerStop(t *testing.T) {
	d := New(10 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Trigger(func(uint64) { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("stopped debouncer should not fire")
	case <-time.After(50 * time.Millisecond):
	}
}
