//go:build tinygo && nrf

// Package nrf implements the peripheral contracts on nRF52 registers.
package nrf

import (
	"device/nrf"
	"machine"
	"runtime/interrupt"
)

// Counter is a TIMER peripheral running at 1 MHz in 32-bit mode.
type Counter struct {
	t *nrf.TIMER_Type
}

// NewCounter configures t. The caller registers the interrupt handler.
func NewCounter(t *nrf.TIMER_Type) *Counter {
	t.TASKS_STOP.Set(1)
	t.MODE.Set(nrf.TIMER_MODE_MODE_Timer)
	t.BITMODE.Set(nrf.TIMER_BITMODE_BITMODE_32Bit)
	t.PRESCALER.Set(4) // 16 MHz / 2^4
	t.INTENCLR.Set(0xFFFFFFFF)
	return &Counter{t: t}
}

func (c *Counter) Start() { c.t.TASKS_START.Set(1) }
func (c *Counter) Stop()  { c.t.TASKS_STOP.Set(1) }
func (c *Counter) Clear() { c.t.TASKS_CLEAR.Set(1) }

func (c *Counter) SetCompare(ch int, v uint32) {
	c.t.CC[ch].Set(v)
}

func (c *Counter) Capture(ch int) uint32 {
	c.t.TASKS_CAPTURE[ch].Set(1)
	return c.t.CC[ch].Get()
}

func (c *Counter) CompareEvent(ch int) bool {
	return c.t.EVENTS_COMPARE[ch].Get() != 0
}

func (c *Counter) ClearCompareEvent(ch int) {
	c.t.EVENTS_COMPARE[ch].Set(0)
}

func (c *Counter) EnableInterrupt(ch int) {
	c.t.INTENSET.Set(nrf.TIMER_INTENSET_COMPARE0_Msk << ch)
}

func (c *Counter) DisableInterrupt(ch int) {
	c.t.INTENCLR.Set(nrf.TIMER_INTENCLR_COMPARE0_Msk << ch)
}

// Locker masks interrupts while held. It stands in for a priority ceiling
// covering every context of the device.
type Locker struct {
	state interrupt.State
}

func (l *Locker) Lock() {
	l.state = interrupt.Disable()
}

func (l *Locker) Unlock() {
	interrupt.Restore(l.state)
}

// PWM adapts a TinyGo PWM peripheral. The output is silenced with a zero
// duty since the peripheral has no separate gate.
type PWM struct {
	pwm     *machine.PWM
	ch      uint8
	duty    uint32
	enabled bool
}

// NewPWM routes pin to pwm.
func NewPWM(pwm *machine.PWM, pin machine.Pin) (*PWM, error) {
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	pwm.Set(ch, 0)
	return &PWM{pwm: pwm, ch: ch}, nil
}

func (p *PWM) SetPeriod(hz uint32) {
	if hz == 0 {
		return
	}
	p.pwm.SetPeriod(1e9 / uint64(hz))
}

func (p *PWM) MaxDuty() uint32 {
	return p.pwm.Top()
}

func (p *PWM) SetDuty(_ int, v uint32) {
	p.duty = v
	if p.enabled {
		p.pwm.Set(p.ch, v)
	}
}

func (p *PWM) Enable() {
	p.enabled = true
	p.pwm.Set(p.ch, p.duty)
}

func (p *PWM) Disable() {
	p.enabled = false
	p.pwm.Set(p.ch, 0)
}

// Button is an active-low input with the internal pull-up.
type Button machine.Pin

// NewButton configures pin.
func NewButton(pin machine.Pin) Button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return Button(pin)
}

func (b Button) IsLow() bool {
	return !machine.Pin(b).Get()
}
