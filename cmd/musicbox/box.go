package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/james-see/musicbox/pkg/config"
	"github.com/james-see/musicbox/pkg/hal"
	"github.com/james-see/musicbox/pkg/hal/rpi"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/hal/speaker"
	"github.com/james-see/musicbox/pkg/musicbox"
	"github.com/james-see/musicbox/pkg/player"
	"github.com/james-see/musicbox/pkg/tui"
)

// runBox builds the peripherals for cfg.Backend and runs the box until ctx
// is done or the UI quits.
func runBox(ctx context.Context, cfg config.Config, ui bool, log *slog.Logger) error {
	list, err := cfg.Melodies()
	if err != nil {
		return err
	}
	var last musicbox.Status
	hc := musicbox.HostConfig{
		Playlist:   list,
		Durations:  cfg.Durations(),
		TickRate:   cfg.TickRate,
		Volume:     cfg.Volume,
		VolumeStep: cfg.VolumeStep,
		LiveVolume: cfg.LiveVolume,
		Logger:     log,
		Observer: func(st musicbox.Status) {
			// volume ramps arrive every tick while a button is held
			if st.State.Mode != last.State.Mode || st.Melody != last.Melody {
				log.Info("player", "state", st.State.String(), "melody", st.Melody, "volume", st.Volume)
			}
			last = st
		},
	}

	a, b := &sim.Pin{}, &sim.Pin{}
	hc.ButtonA, hc.ButtonB = a, b

	switch cfg.Backend {
	case config.BackendSim:
		start := time.Now()
		pwm := sim.NewPWM(func() time.Duration { return time.Since(start) })
		pwm.Record(false)
		pwm.OnEvent(func(ev sim.Event) {
			log.Debug("pwm", "kind", ev.Kind.String(), "hz", ev.Hz, "duty", ev.Duty, "top", ev.Top)
		})
		hc.PWM = pwm

	case config.BackendSpeaker:
		out, err := speaker.Open(cfg.Speaker.SampleRate)
		if err != nil {
			return err
		}
		defer out.Close()
		hc.PWM = out.Wave()

	case config.BackendRPi:
		pins, pwm, err := openRPi(cfg.RPi, log)
		if err != nil {
			return err
		}
		defer pwm.Halt()
		hc.ButtonA, hc.ButtonB, hc.PWM = pins[0], pins[1], pwm
		ui = false

	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	host, err := musicbox.NewHost(hc)
	if err != nil {
		return err
	}
	if autoplay {
		host.Box().Do((*player.Player).Play)
	}
	log.Info("starting", "backend", cfg.Backend, "ui", ui, "melodies", list.Len())

	if ui {
		return tui.Run(ctx, host, a, b)
	}
	return host.Run(ctx)
}

func openRPi(cfg config.RPi, log *slog.Logger) ([2]hal.InputPin, *rpi.PWM, error) {
	var pins [2]hal.InputPin
	if err := rpi.Init(); err != nil {
		return pins, nil, err
	}
	for i, name := range []string{cfg.ButtonA, cfg.ButtonB} {
		btn, err := rpi.OpenButton(name)
		if err != nil {
			return pins, nil, err
		}
		pins[i] = btn
	}
	pwm, err := rpi.OpenPWM(cfg.Speaker, log)
	if err != nil {
		return pins, nil, err
	}
	return pins, pwm, nil
}
