// Package hal declares the peripheral contracts the music box core consumes.
// Implementations live in the sim, speaker, rpi and nrf subpackages.
//
// All operations are register pokes on real hardware and cannot fail.
package hal

// InputPin samples a button input configured with a pull-up.
type InputPin interface {
	// IsLow reports whether the pin reads low, i.e. the button is pressed.
	IsLow() bool
}

// Counter is a free-running upward-counting 32-bit timer with compare
// channels. Channel 0 is reserved for capturing the current count.
type Counter interface {
	// Start starts counting from the current value.
	Start()
	// Stop halts the counter.
	Stop()
	// Clear resets the count to zero.
	Clear()
	// Capture latches the current count into channel ch and returns it.
	Capture(ch int) uint32
	// SetCompare programs the match value of channel ch.
	SetCompare(ch int, value uint32)
	// CompareEvent reports the event flag of channel ch.
	CompareEvent(ch int) bool
	// ClearCompareEvent resets the event flag of channel ch.
	ClearCompareEvent(ch int)
	// EnableInterrupt routes compare events of channel ch to the interrupt handler.
	EnableInterrupt(ch int)
	// DisableInterrupt stops routing compare events of channel ch.
	DisableInterrupt(ch int)
}

// PWM is a pulse width modulation peripheral driving the speaker.
type PWM interface {
	// SetPeriod sets the output frequency in Hz.
	SetPeriod(hz uint32)
	// MaxDuty returns the duty value that keeps the output high for the
	// whole period at the current frequency.
	MaxDuty() uint32
	// SetDuty sets the high time of channel ch.
	SetDuty(ch int, value uint32)
	Enable()
	Disable()
}

// Locker serializes access from contexts of different priority.
type Locker interface {
	Lock()
	Unlock()
}
