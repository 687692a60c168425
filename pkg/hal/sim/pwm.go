package sim

import (
	"sync"
	"time"
)

// PWMClock is the base clock of the simulated PWM peripheral.
const PWMClock = 16_000_000

// maxTop is the widest counter top the peripheral supports (15 bits).
const maxTop = 0x7FFF

// Top returns the up-and-down counter top for hz, halving the clock with a
// prescaler until it fits the counter.
func Top(hz uint32) uint32 {
	if hz == 0 {
		return maxTop
	}
	clock := uint32(PWMClock)
	for clock/(2*hz) > maxTop && clock > 1 {
		clock >>= 1
	}
	return clock / (2 * hz)
}

// EventKind classifies a recorded PWM change.
type EventKind uint8

const (
	EventEnable EventKind = iota
	EventDisable
	EventDuty
)

func (k EventKind) String() string {
	switch k {
	case EventEnable:
		return "enable"
	case EventDisable:
		return "disable"
	case EventDuty:
		return "duty"
	}
	return "unknown"
}

// Event is a recorded change of the PWM output.
type Event struct {
	At   time.Duration
	Kind EventKind
	Hz   uint32
	Duty uint32
	Top  uint32
}

// PWM is a simulated PWM peripheral that records every output change.
type PWM struct {
	mu      sync.Mutex
	now     func() time.Duration
	hz      uint32
	top     uint32
	duty    [4]uint32
	enabled bool
	events  []Event
	keep    bool
	onEvent func(Event)
}

// NewPWM returns a disabled PWM that timestamps events with now.
// A nil now stamps every event at zero.
func NewPWM(now func() time.Duration) *PWM {
	if now == nil {
		now = func() time.Duration { return 0 }
	}
	return &PWM{now: now, top: maxTop, keep: true}
}

// Record turns event recording on or off. OnEvent callbacks run either way.
func (p *PWM) Record(on bool) {
	p.mu.Lock()
	p.keep = on
	p.mu.Unlock()
}

// OnEvent registers a callback invoked for every recorded event.
func (p *PWM) OnEvent(fn func(Event)) {
	p.mu.Lock()
	p.onEvent = fn
	p.mu.Unlock()
}

func (p *PWM) SetPeriod(hz uint32) {
	p.mu.Lock()
	p.hz = hz
	p.top = Top(hz)
	p.mu.Unlock()
}

func (p *PWM) MaxDuty() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

func (p *PWM) SetDuty(ch int, value uint32) {
	p.mu.Lock()
	p.duty[ch] = value
	if p.enabled && ch == 0 {
		p.record(EventDuty)
	}
	p.mu.Unlock()
}

func (p *PWM) Enable() {
	p.mu.Lock()
	p.enabled = true
	p.record(EventEnable)
	p.mu.Unlock()
}

func (p *PWM) Disable() {
	p.mu.Lock()
	if p.enabled {
		p.enabled = false
		p.record(EventDisable)
	}
	p.mu.Unlock()
}

// record must be called with p.mu held.
func (p *PWM) record(kind EventKind) {
	ev := Event{At: p.now(), Kind: kind, Hz: p.hz, Duty: p.duty[0], Top: p.top}
	if p.keep {
		p.events = append(p.events, ev)
	}
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}

// Enabled reports whether the output is on.
func (p *PWM) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Output returns the current frequency and duty of channel 0 relative to top.
func (p *PWM) Output() (hz, duty, top uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hz, p.duty[0], p.top
}

// Events returns a copy of the recorded events.
func (p *PWM) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Reset discards the recorded events.
func (p *PWM) Reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}
