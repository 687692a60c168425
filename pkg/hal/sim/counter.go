// Package sim provides software peripherals for the host simulator, offline
// rendering and tests.
package sim

import (
	"context"
	"sync"
	"time"
)

// Channels is the number of compare channels of a Counter.
const Channels = 4

// Counter is a simulated 1 MHz free-running timer. Time only moves when
// Advance is called, either directly (virtual time) or by Run (wall clock).
type Counter struct {
	mu      sync.Mutex
	running bool
	count   uint32
	elapsed uint64 // total ticks advanced, running or not
	cc      [Channels]uint32
	events  [Channels]bool
	inten   [Channels]bool
	irq     func()
}

// NewCounter returns a stopped counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// OnInterrupt registers the compare interrupt handler. It is called without
// the counter lock held, so it may program the counter.
func (c *Counter) OnInterrupt(fn func()) {
	c.mu.Lock()
	c.irq = fn
	c.mu.Unlock()
}

func (c *Counter) Start() {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
}

func (c *Counter) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *Counter) Clear() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

func (c *Counter) Capture(ch int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cc[ch] = c.count
	return c.count
}

func (c *Counter) SetCompare(ch int, value uint32) {
	c.mu.Lock()
	c.cc[ch] = value
	c.mu.Unlock()
}

func (c *Counter) CompareEvent(ch int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[ch]
}

func (c *Counter) ClearCompareEvent(ch int) {
	c.mu.Lock()
	c.events[ch] = false
	c.mu.Unlock()
}

func (c *Counter) EnableInterrupt(ch int) {
	c.mu.Lock()
	c.inten[ch] = true
	c.mu.Unlock()
}

func (c *Counter) DisableInterrupt(ch int) {
	c.mu.Lock()
	c.inten[ch] = false
	c.mu.Unlock()
}

// Count returns the current counter value.
func (c *Counter) Count() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Running reports whether the counter is started.
func (c *Counter) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Elapsed returns the total simulated time.
func (c *Counter) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.elapsed) * time.Microsecond
}

// Advance moves time forward by ticks microseconds. Compare matches are
// raised in counter order and the interrupt handler runs after each match
// whose channel has its interrupt enabled.
func (c *Counter) Advance(ticks uint32) {
	for ticks > 0 {
		c.mu.Lock()
		if !c.running {
			c.elapsed += uint64(ticks)
			c.mu.Unlock()
			return
		}

		step := ticks
		for ch := range c.cc {
			// a compare equal to the current count only matches again after a wrap
			if d := c.cc[ch] - c.count; d != 0 && d < step {
				step = d
			}
		}
		c.count += step
		c.elapsed += uint64(step)
		ticks -= step

		fire := false
		for ch := range c.cc {
			if c.cc[ch] == c.count {
				c.events[ch] = true
				fire = fire || c.inten[ch]
			}
		}
		irq := c.irq
		c.mu.Unlock()

		if fire && irq != nil {
			// the interrupt line stays asserted while an enabled event is set
			for i := 0; i < maxReentry && (i == 0 || c.pending()); i++ {
				irq()
			}
		}
	}
}

const maxReentry = 4

func (c *Counter) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.events {
		if c.events[ch] && c.inten[ch] {
			return true
		}
	}
	return false
}

// AdvanceDuration is Advance for a time.Duration.
func (c *Counter) AdvanceDuration(d time.Duration) {
	for d > 0 {
		step := d
		if step > time.Hour {
			step = time.Hour
		}
		c.Advance(uint32(step / time.Microsecond))
		d -= step
	}
}

// Run advances the counter with the wall clock every resolution until ctx
// is done.
func (c *Counter) Run(ctx context.Context, resolution time.Duration) error {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			d := now.Sub(last)
			us := d / time.Microsecond
			if us <= 0 {
				continue
			}
			last = last.Add(us * time.Microsecond)
			c.AdvanceDuration(us * time.Microsecond)
		}
	}
}
