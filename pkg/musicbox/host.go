package musicbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/hal"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/player"
	"github.com/james-see/musicbox/pkg/tonetimer"
)

// DefaultTickRate is the button sampling frequency in Hz.
const DefaultTickRate = 100

// counterResolution is how often the wall clock is folded into the tone counter.
const counterResolution = time.Millisecond

// HostConfig describes a music box running on a general purpose computer.
type HostConfig struct {
	ButtonA, ButtonB hal.InputPin
	PWM              hal.PWM

	Playlist   melody.Playlist
	Durations  button.Durations
	TickRate   int
	Volume     uint32 // start volume; zero selects buzzer.MaxVolume
	VolumeStep uint32
	LiveVolume bool

	Observer func(Status)
	Logger   *slog.Logger
}

// Host runs a Box in real time with goroutines standing in for the device
// interrupts.
type Host struct {
	box     *Box
	counter *sim.Counter
	period  time.Duration
	wake    chan struct{}
	log     *slog.Logger
}

// NewHost builds the timer, buzzer, player and recognizers for cfg.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.ButtonA == nil || cfg.ButtonB == nil {
		return nil, fmt.Errorf("host: both buttons are required")
	}
	if cfg.PWM == nil {
		return nil, fmt.Errorf("host: PWM output is required")
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.TickRate < 0 || cfg.TickRate > 1000 {
		return nil, fmt.Errorf("host: tick rate %d Hz out of range (1-1000)", cfg.TickRate)
	}
	if cfg.Durations == (button.Durations{}) {
		cfg.Durations = button.DefaultDurations()
	}
	if cfg.Volume == 0 {
		cfg.Volume = buzzer.MaxVolume
	}
	if cfg.Volume > buzzer.MaxVolume {
		return nil, fmt.Errorf("host: volume %d above %d", cfg.Volume, buzzer.MaxVolume)
	}
	if cfg.VolumeStep == 0 {
		cfg.VolumeStep = DefaultVolumeStep
	}
	if cfg.Playlist.Len() == 0 {
		cfg.Playlist = melody.Default()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	a, b := button.New(cfg.ButtonA), button.New(cfg.ButtonB)
	for _, r := range []*button.Recognizer{a, b} {
		if err := r.SetDurations(cfg.Durations); err != nil {
			return nil, fmt.Errorf("host: %w", err)
		}
	}

	counter := sim.NewCounter()
	opts := []player.Option{player.WithVolume(cfg.Volume)}
	if cfg.LiveVolume {
		opts = append(opts, player.WithLiveVolume())
	}
	p := player.New(tonetimer.New(counter), buzzer.New(cfg.PWM, 0), cfg.Playlist, opts...)

	h := &Host{
		counter: counter,
		period:  time.Second / time.Duration(cfg.TickRate),
		wake:    make(chan struct{}, 1),
		log:     log,
	}
	h.box = New(a, b, p,
		WithVolumeStep(cfg.VolumeStep),
		WithObserver(cfg.Observer),
		WithPend(h.pend),
		WithLogger(log))
	counter.OnInterrupt(h.box.OnToneIRQ)
	return h, nil
}

// Box returns the composed music box.
func (h *Host) Box() *Box {
	return h.box
}

// Counter returns the tone counter.
func (h *Host) Counter() *sim.Counter {
	return h.counter
}

func (h *Host) pend() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Run drives the box until ctx is cancelled or a context fails.
func (h *Host) Run(ctx context.Context) error {
	h.log.Info("music box running",
		"tick", h.period,
		"melodies", h.box.Playlist().Len())
	defer h.box.Do(func(p *player.Player) { p.Stop() })

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.counter.Run(ctx, counterResolution)
	})
	g.Go(func() error {
		return h.tick(ctx)
	})
	g.Go(func() error {
		return h.dispatch(ctx)
	})
	return g.Wait()
}

func (h *Host) tick(ctx context.Context) error {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			h.box.OnTick(now.Sub(start))
		}
	}
}

func (h *Host) dispatch(ctx context.Context) error {
	var dropped uint32
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.wake:
			h.box.RunPending()
			if d := h.box.Dropped(); d != dropped {
				h.log.Warn("button events dropped", "total", d)
				dropped = d
			}
		}
	}
}
