// Package button turns a sampled push-button level into click and long-press
// events.
//
// A Recognizer is ticked at a fixed cadence with the current time. It
// debounces the raw level, counts clicks that follow each other within the
// click window and latches a long press once the button is held past the
// press window.
package button

import (
	"errors"
	"fmt"
	"time"

	"github.com/james-see/musicbox/pkg/hal"
)

// ErrDurations is returned for durations that are not strictly increasing.
var ErrDurations = errors.New("button durations must satisfy 0 < debounce < click < press")

// Durations configures the recognizer timing.
type Durations struct {
	Debounce time.Duration // shortest accepted level change
	Click    time.Duration // idle time after a release that ends a click train
	Press    time.Duration // hold time that starts a long press
}

// DefaultDurations returns 50/400/800 ms.
func DefaultDurations() Durations {
	return Durations{
		Debounce: 50 * time.Millisecond,
		Click:    400 * time.Millisecond,
		Press:    800 * time.Millisecond,
	}
}

// Validate checks 0 < Debounce < Click < Press.
func (d Durations) Validate() error {
	if d.Debounce <= 0 || d.Debounce >= d.Click || d.Click >= d.Press {
		return fmt.Errorf("%w: got %v/%v/%v", ErrDurations, d.Debounce, d.Click, d.Press)
	}
	return nil
}

type state uint8

const (
	stateInit state = iota
	stateDown
	stateUp
	stateCount
	statePress
	statePressEnd
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateDown:
		return "down"
	case stateUp:
		return "up"
	case stateCount:
		return "count"
	case statePress:
		return "press"
	case statePressEnd:
		return "press-end"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Recognizer is the per-button event state machine.
type Recognizer struct {
	pin       hal.InputPin
	state     state
	lastState state
	sink      func(Event)

	durations Durations

	clicks    uint32
	startTime time.Duration
}

// New returns a recognizer reading pin with the default durations.
func New(pin hal.InputPin) *Recognizer {
	return &Recognizer{
		pin:       pin,
		durations: DefaultDurations(),
	}
}

// AttachEvent registers the event sink. The sink runs inside Tick and must
// only hand the event off for deferred processing.
func (r *Recognizer) AttachEvent(sink func(Event)) {
	r.sink = sink
}

// SetDurations replaces the timing configuration.
func (r *Recognizer) SetDurations(d Durations) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.durations = d
	return nil
}

// Durations returns the timing configuration.
func (r *Recognizer) Durations() Durations {
	return r.durations
}

// Free releases the pin.
func (r *Recognizer) Free() hal.InputPin {
	pin := r.pin
	r.pin = nil
	r.Reset()
	return pin
}

// Reset returns to the released state and forgets pending clicks.
func (r *Recognizer) Reset() {
	r.state = stateInit
	r.lastState = stateInit
	r.clicks = 0
	r.startTime = 0
}

// Tick samples the pin and advances the state machine to now.
func (r *Recognizer) Tick(now time.Duration) {
	if r.pin == nil {
		return
	}
	active := r.pin.IsLow()
	wait := now - r.startTime
	d := r.durations

	switch r.state {
	case stateInit:
		if active {
			r.update(stateDown)
			r.clicks = 0
			r.startTime = now
		}

	case stateDown:
		switch {
		case !active && wait < d.Debounce:
			r.update(r.lastState)
		case !active:
			r.update(stateUp)
		case wait > d.Press:
			r.update(statePress)
			r.emit(Event{Kind: LongPressStart})
		}

	case stateUp:
		switch {
		case active && wait < d.Debounce:
			r.update(r.lastState)
		case wait >= d.Debounce:
			r.clicks++
			r.update(stateCount)
		}

	case stateCount:
		switch {
		case active:
			r.update(stateDown)
			r.startTime = now
		case wait > d.Click:
			r.emit(clickEvent(r.clicks))
			r.Reset()
		}

	case statePress:
		if !active {
			r.update(statePressEnd)
			r.startTime = now
		} else {
			r.emit(Event{Kind: LongPressDuring})
		}

	case statePressEnd:
		switch {
		case active && wait < d.Debounce:
			r.update(r.lastState)
		case wait > d.Debounce:
			r.emit(Event{Kind: LongPressStop})
			r.Reset()
		}
	}
}

// update keeps the previous state for a single-step debounce rollback.
func (r *Recognizer) update(s state) {
	r.lastState = r.state
	r.state = s
}

func (r *Recognizer) emit(ev Event) {
	if r.sink != nil {
		r.sink(ev)
	}
}
