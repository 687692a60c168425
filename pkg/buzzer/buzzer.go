// Package buzzer drives a piezo speaker from a PWM peripheral.
package buzzer

import (
	"github.com/james-see/musicbox/pkg/hal"
	"github.com/james-see/musicbox/pkg/tone"
)

// MaxVolume is the loudest volume level.
const MaxVolume = 100

// Buzzer gates square-wave tones on a PWM channel. It is the only writer of
// the PWM peripheral.
type Buzzer struct {
	pwm     hal.PWM
	channel int
}

// New returns a buzzer on channel ch of pwm with the output disabled.
func New(pwm hal.PWM, ch int) *Buzzer {
	pwm.Disable()
	return &Buzzer{pwm: pwm, channel: ch}
}

// Tone plays t at volume. REST leaves the output disabled.
func (b *Buzzer) Tone(t tone.Tone, volume uint32) {
	b.pwm.Disable()
	if t.IsRest() {
		return
	}
	b.pwm.SetPeriod(tone.Freq(t))
	b.UpdateVolume(volume)
	b.pwm.Enable()
}

// Stop silences the output.
func (b *Buzzer) Stop() {
	b.pwm.Disable()
}

// UpdateVolume sets the duty for volume without changing the gate.
func (b *Buzzer) UpdateVolume(volume uint32) {
	b.pwm.SetDuty(b.channel, Duty(b.pwm.MaxDuty(), volume))
}

// Duty maps volume 0..100 onto 20%..50% of maxDuty. A 50% duty is the
// loudest square wave; below 20% the tone becomes inaudible. Volumes above
// MaxVolume are treated as MaxVolume.
func Duty(maxDuty, volume uint32) uint32 {
	if volume > MaxVolume {
		volume = MaxVolume
	}
	lo := maxDuty * 2 / 10
	hi := maxDuty / 2
	return lo + (hi-lo)*volume/MaxVolume
}
