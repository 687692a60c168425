// Package config loads the host runtime configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/melody"
)

// Output backends.
const (
	BackendSim     = "sim"
	BackendSpeaker = "speaker"
	BackendRPi     = "rpi"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the host runtime configuration.
type Config struct {
	Backend    string   `yaml:"backend"`
	TickRate   int      `yaml:"tick_rate"`
	Volume     uint32   `yaml:"volume"`
	VolumeStep uint32   `yaml:"volume_step"`
	LiveVolume bool     `yaml:"live_volume"`
	Playlist   []string `yaml:"playlist"`

	Buttons Buttons `yaml:"buttons"`
	Speaker Speaker `yaml:"speaker"`
	RPi     RPi     `yaml:"rpi"`
}

// Buttons holds the recognizer timing.
type Buttons struct {
	Debounce time.Duration `yaml:"debounce"`
	Click    time.Duration `yaml:"click"`
	Press    time.Duration `yaml:"press"`
}

// Speaker configures the sound card backend.
type Speaker struct {
	SampleRate int `yaml:"sample_rate"`
}

// RPi names the periph.io pins of the GPIO backend.
type RPi struct {
	ButtonA string `yaml:"button_a"`
	ButtonB string `yaml:"button_b"`
	Speaker string `yaml:"speaker"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := button.DefaultDurations()
	return Config{
		Backend:    BackendSim,
		TickRate:   100,
		Volume:     buzzer.MaxVolume,
		VolumeStep: 1,
		Buttons: Buttons{
			Debounce: d.Debounce,
			Click:    d.Click,
			Press:    d.Press,
		},
		Speaker: Speaker{SampleRate: 44100},
		RPi: RPi{
			ButtonA: "GPIO17",
			ButtonB: "GPIO27",
			Speaker: "GPIO18",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendSpeaker, BackendRPi:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("%w: tick_rate %d out of range (1-1000)", ErrInvalid, c.TickRate)
	}
	if c.Volume == 0 || c.Volume > buzzer.MaxVolume {
		return fmt.Errorf("%w: volume %d out of range (1-%d)", ErrInvalid, c.Volume, buzzer.MaxVolume)
	}
	if c.VolumeStep == 0 || c.VolumeStep > buzzer.MaxVolume {
		return fmt.Errorf("%w: volume_step %d out of range (1-%d)", ErrInvalid, c.VolumeStep, buzzer.MaxVolume)
	}
	if err := c.Durations().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Speaker.SampleRate < 8000 {
		return fmt.Errorf("%w: sample_rate %d below 8000", ErrInvalid, c.Speaker.SampleRate)
	}
	for _, name := range c.Playlist {
		if _, err := melody.Lookup(name); err != nil {
			return fmt.Errorf("%w: playlist: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Durations returns the button timing.
func (c Config) Durations() button.Durations {
	return button.Durations{
		Debounce: c.Buttons.Debounce,
		Click:    c.Buttons.Click,
		Press:    c.Buttons.Press,
	}
}

// Melodies resolves the playlist names. An empty list is the default playlist.
func (c Config) Melodies() (melody.Playlist, error) {
	if len(c.Playlist) == 0 {
		return melody.Default(), nil
	}
	ms := make([]*melody.Melody, 0, len(c.Playlist))
	for _, name := range c.Playlist {
		m, err := melody.Lookup(name)
		if err != nil {
			return melody.Playlist{}, err
		}
		ms = append(ms, m)
	}
	return melody.NewPlaylist(ms...), nil
}
