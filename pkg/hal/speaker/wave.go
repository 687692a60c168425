// Package speaker renders the buzzer PWM as a square wave on the host sound
// card.
package speaker

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// tickHz is the resolution of the duty cycle: MaxDuty is the period in
// microseconds.
const tickHz = 1_000_000

// DefaultAmplitude keeps the square wave well below full scale.
const DefaultAmplitude = 0.25

// Wave is a PWM peripheral whose output is read as mono float32 samples.
// The control methods may be called from any goroutine while the audio
// driver reads.
type Wave struct {
	sampleRate uint64
	amplitude  float32

	hz      atomic.Uint32
	duty    atomic.Uint32
	top     atomic.Uint32
	enabled atomic.Bool

	n uint64 // samples produced, owned by Read
}

// NewWave returns a disabled output at sampleRate.
func NewWave(sampleRate int) *Wave {
	w := &Wave{sampleRate: uint64(sampleRate), amplitude: DefaultAmplitude}
	w.top.Store(tickHz)
	return w
}

func (w *Wave) SetPeriod(hz uint32) {
	top := uint32(tickHz)
	if hz > 0 {
		top = tickHz / hz
	}
	w.hz.Store(hz)
	w.top.Store(top)
}

func (w *Wave) MaxDuty() uint32 {
	return w.top.Load()
}

// SetDuty sets the high time. Only channel 0 is wired to the speaker.
func (w *Wave) SetDuty(ch int, value uint32) {
	if ch == 0 {
		w.duty.Store(value)
	}
}

func (w *Wave) Enable() {
	w.enabled.Store(true)
}

func (w *Wave) Disable() {
	w.enabled.Store(false)
}

// Read implements io.Reader for the audio driver with float32 LE samples.
func (w *Wave) Read(p []byte) (int, error) {
	enabled := w.enabled.Load()
	hz, duty, top := uint64(w.hz.Load()), uint64(w.duty.Load()), uint64(w.top.Load())

	for i := 0; i+4 <= len(p); i += 4 {
		var v float32
		if enabled && hz > 0 {
			// position within the period, in units of 1/sampleRate periods
			pos := (w.n * hz) % w.sampleRate
			if pos*top < duty*w.sampleRate {
				v = w.amplitude
			} else {
				v = -w.amplitude
			}
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
		w.n++
	}
	clear(p[len(p)&^3:])
	return len(p), nil
}
