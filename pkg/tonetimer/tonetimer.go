// Package tonetimer drives note timing from a free-running 1 MHz counter.
//
// The play channel fires when the next note must start; the next channel
// fires shortly before it to gate the current note off.
package tonetimer

import (
	"time"

	"github.com/james-see/musicbox/pkg/hal"
)

// Compare channel assignment.
const (
	ChannelNow  = 0
	ChannelPlay = 1
	ChannelNext = 2
)

// Hz is the counter frequency.
const Hz = 1_000_000

// Instant is a counter value in microseconds.
type Instant uint32

// Duration is a span of counter ticks in microseconds.
type Duration uint32

// Micros converts a time.Duration into counter ticks.
func Micros(d time.Duration) Duration {
	return Duration(d / time.Microsecond)
}

// Millis returns ms milliseconds as counter ticks.
func Millis(ms uint32) Duration {
	return Duration(ms * 1000)
}

// Timer is the tone timer. It owns the counter exclusively.
type Timer struct {
	c hal.Counter
}

// New wraps c. The counter must tick at Hz.
func New(c hal.Counter) *Timer {
	return &Timer{c: c}
}

// Start clears the counter and any pending compare events and starts counting.
func (t *Timer) Start() {
	t.c.Stop()
	t.c.Clear()
	t.c.ClearCompareEvent(ChannelPlay)
	t.c.ClearCompareEvent(ChannelNext)
	t.c.EnableInterrupt(ChannelPlay)
	t.c.EnableInterrupt(ChannelNext)
	t.c.Start()
}

// Stop halts and clears the counter.
func (t *Timer) Stop() {
	t.c.Stop()
	t.c.Clear()
}

// Now captures the current count.
func (t *Timer) Now() Instant {
	return Instant(t.c.Capture(ChannelNow))
}

// SetPlayDuration arms the play channel d from now.
func (t *Timer) SetPlayDuration(d Duration) {
	t.arm(ChannelPlay, d)
}

// SetNextDuration arms the next channel d from now.
func (t *Timer) SetNextDuration(d Duration) {
	t.arm(ChannelNext, d)
}

// CheckPlay reports and consumes a pending play event.
func (t *Timer) CheckPlay() bool {
	return t.check(ChannelPlay)
}

// CheckNext reports and consumes a pending next event.
func (t *Timer) CheckNext() bool {
	return t.check(ChannelNext)
}

func (t *Timer) arm(ch int, d Duration) {
	now := t.Now()
	t.c.SetCompare(ch, uint32(now)+uint32(d))
}

func (t *Timer) check(ch int) bool {
	fired := t.c.CompareEvent(ch)
	if fired {
		t.c.ClearCompareEvent(ch)
	}
	return fired
}
