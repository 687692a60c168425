//go:build headless

package speaker

// Output discards the wave in headless builds.
type Output struct {
	wave *Wave
}

func Open(sampleRate int) (*Output, error) {
	return &Output{wave: NewWave(sampleRate)}, nil
}

func (o *Output) Wave() *Wave {
	return o.wave
}

func (o *Output) Close() error {
	return nil
}
