//go:build tinygo && microbit_v2

// Command firmware runs the music box on a BBC micro:bit v2.
//
//	tinygo flash -target=microbit-v2 ./cmd/firmware
//
// Button A and B drive the player, the on-board speaker plays the melodies
// and the LED matrix shows the player status.
package main

import (
	"device/arm"
	"device/nrf"
	"image/color"
	"log/slog"
	"machine"
	"runtime/interrupt"
	"time"

	"tinygo.org/x/drivers/microbitmatrix"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/glyph"
	"github.com/james-see/musicbox/pkg/hal"
	halnrf "github.com/james-see/musicbox/pkg/hal/nrf"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/musicbox"
	"github.com/james-see/musicbox/pkg/player"
	"github.com/james-see/musicbox/pkg/tonetimer"
)

// Interrupt priorities, highest first: tone timer, button tick, dispatcher.
const (
	prioTone     = 0x20
	prioTick     = 0x40
	prioDispatch = 0xC0
)

// rtcPrescaler divides the 32768 Hz low frequency clock to about 100 Hz.
const rtcPrescaler = 327

var (
	box   *musicbox.Box
	ticks uint32

	lock   halnrf.Locker
	latest musicbox.Status
	dirty  bool
)

func main() {
	log := slog.New(slog.NewTextHandler(machine.Serial, nil))

	pwm, err := halnrf.NewPWM(machine.PWM0, machine.P0_00)
	if err != nil {
		log.Error("speaker setup failed", "err", err)
		return
	}
	counter := halnrf.NewCounter(nrf.TIMER1)
	p := player.New(tonetimer.New(counter), buzzer.New(pwm, 0), melody.Default())

	a := button.New(halnrf.NewButton(machine.BUTTONA))
	b := button.New(halnrf.NewButton(machine.BUTTONB))
	box = musicbox.New(a, b, p,
		musicbox.WithVolumeStep(2),
		musicbox.WithLocker(func() hal.Locker { return &halnrf.Locker{} }),
		musicbox.WithPend(func() { arm.SetPendingIRQ(nrf.IRQ_SWI0_EGU0) }),
		musicbox.WithObserver(func(st musicbox.Status) {
			lock.Lock()
			latest, dirty = st, true
			lock.Unlock()
		}))

	tone := interrupt.New(nrf.IRQ_TIMER1, func(interrupt.Interrupt) {
		box.OnToneIRQ()
	})
	tone.SetPriority(prioTone)
	tone.Enable()

	dispatch := interrupt.New(nrf.IRQ_SWI0_EGU0, func(interrupt.Interrupt) {
		box.RunPending()
	})
	dispatch.SetPriority(prioDispatch)
	dispatch.Enable()

	startTick()
	log.Info("music box ready", "melodies", melody.Default().Len())

	display := microbitmatrix.New()
	display.Configure(microbitmatrix.Config{})
	show(&display, glyph.Stop)

	for {
		lock.Lock()
		st, changed := latest, dirty
		dirty = false
		lock.Unlock()

		if changed {
			log.Info("player", "state", st.State.String(), "melody", st.Melody, "volume", st.Volume)
			show(&display, glyph.ForMode(st.State.Mode))
		}
		display.Display()
		time.Sleep(time.Millisecond)
	}
}

// startTick runs the button tick from RTC2.
func startTick() {
	rtc := nrf.RTC2
	rtc.TASKS_STOP.Set(1)
	rtc.PRESCALER.Set(rtcPrescaler)
	rtc.EVTENSET.Set(nrf.RTC_EVTENSET_TICK_Msk)
	rtc.INTENSET.Set(nrf.RTC_INTENSET_TICK_Msk)

	irq := interrupt.New(nrf.IRQ_RTC2, func(interrupt.Interrupt) {
		nrf.RTC2.EVENTS_TICK.Set(0)
		ticks++
		box.OnTick(time.Duration(ticks) * 10 * time.Millisecond)
	})
	irq.SetPriority(prioTick)
	irq.Enable()
	rtc.TASKS_START.Set(1)
}

func show(d *microbitmatrix.Device, g glyph.Glyph) {
	on := color.RGBA{255, 255, 255, 255}
	off := color.RGBA{}
	for y := 0; y < glyph.Size; y++ {
		for x := 0; x < glyph.Size; x++ {
			c := off
			if g.At(x, y) {
				c = on
			}
			d.SetPixel(int16(x), int16(y), c)
		}
	}
}
