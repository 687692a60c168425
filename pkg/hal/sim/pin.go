package sim

import "sync/atomic"

// Pin is a simulated pull-up button input.
type Pin struct {
	pressed atomic.Bool
}

// Press pulls the pin low.
func (p *Pin) Press() {
	p.pressed.Store(true)
}

// Release lets the pull-up take the pin high.
func (p *Pin) Release() {
	p.pressed.Store(false)
}

// Set presses or releases the pin.
func (p *Pin) Set(pressed bool) {
	p.pressed.Store(pressed)
}

// Toggle flips the pin level and returns the new pressed state.
func (p *Pin) Toggle() bool {
	for {
		old := p.pressed.Load()
		if p.pressed.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (p *Pin) IsLow() bool {
	return p.pressed.Load()
}
