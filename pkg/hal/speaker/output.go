//go:build !headless

package speaker

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Output plays a Wave on the default sound device.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *Wave
	mu     sync.Mutex
}

// Open starts the audio device at sampleRate.
func Open(sampleRate int) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	o := &Output{ctx: ctx, wave: NewWave(sampleRate)}
	o.player = ctx.NewPlayer(o.wave)
	o.player.Play()
	return o, nil
}

// Wave returns the PWM peripheral feeding the device.
func (o *Output) Wave() *Wave {
	return o.wave
}

// Close stops playback.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
