// Package rpi backs the music box peripherals with periph.io GPIO, for
// single board computers such as the Raspberry Pi.
package rpi

import (
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Init loads the periph.io host drivers.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph host: %w", err)
	}
	return nil
}

// Button is a push button wired between a GPIO and ground.
type Button struct {
	pin gpio.PinIn
}

// OpenButton configures name as an input with the internal pull-up.
func OpenButton(name string) (*Button, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find button pin %s", name)
	}
	return NewButton(p)
}

// NewButton configures p as an input with the internal pull-up.
func NewButton(p gpio.PinIn) (*Button, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s: %w", p.Name(), err)
	}
	return &Button{pin: p}, nil
}

func (b *Button) IsLow() bool {
	return b.pin.Read() == gpio.Low
}

// PWM drives a buzzer from a hardware PWM capable pin.
type PWM struct {
	mu      sync.Mutex
	pin     gpio.PinOut
	hz      uint32
	duty    uint32
	enabled bool
	log     *slog.Logger
}

// OpenPWM claims name for PWM output. Pin errors at run time are logged to
// log since the buzzer contract has no error path.
func OpenPWM(name string, log *slog.Logger) (*PWM, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find speaker pin %s", name)
	}
	return NewPWM(p, log)
}

// NewPWM drives p, which starts low.
func NewPWM(p gpio.PinOut, log *slog.Logger) (*PWM, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure %s: %w", p.Name(), err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &PWM{pin: p, log: log}, nil
}

func (p *PWM) SetPeriod(hz uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hz = hz
	p.apply()
}

func (p *PWM) MaxDuty() uint32 {
	return uint32(gpio.DutyMax)
}

func (p *PWM) SetDuty(ch int, value uint32) {
	if ch != 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duty = min(value, uint32(gpio.DutyMax))
	p.apply()
}

func (p *PWM) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
	p.apply()
}

func (p *PWM) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
	p.apply()
}

// Halt silences the pin and releases it.
func (p *PWM) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
	p.apply()
	return p.pin.Halt()
}

// apply must be called with p.mu held.
func (p *PWM) apply() {
	var err error
	if p.enabled && p.hz > 0 {
		err = p.pin.PWM(gpio.Duty(p.duty), physic.Frequency(p.hz)*physic.Hertz)
	} else {
		err = p.pin.Out(gpio.Low)
	}
	if err != nil {
		p.log.Warn("pwm output failed", "pin", p.pin.Name(), "hz", p.hz, "err", err)
	}
}
