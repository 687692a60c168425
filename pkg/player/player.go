// Package player schedules melody notes on the tone timer and buzzer.
package player

import (
	"fmt"
	"time"

	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/tone"
	"github.com/james-see/musicbox/pkg/tonetimer"
)

// IntroDelay is the pause before the first note of a playback.
const IntroDelay = time.Second

// Gate is the share of a note, in percent, during which the tone sounds.
// The remainder is the silence that separates consecutive notes.
const Gate = 90

// Mode is the player's top-level state.
type Mode uint8

const (
	Stop Mode = iota
	Play
	Pause
)

func (m Mode) String() string {
	switch m {
	case Stop:
		return "stop"
	case Play:
		return "play"
	case Pause:
		return "pause"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// State is the player state. Pos and Progress are meaningful in Play and Pause.
type State struct {
	Mode     Mode
	Pos      int // playlist index
	Progress int // note index within the melody
}

func (s State) String() string {
	if s.Mode == Stop {
		return "stop"
	}
	return fmt.Sprintf("%s{pos: %d, progress: %d}", s.Mode, s.Pos, s.Progress)
}

// Timer is the subset of the tone timer the player drives.
type Timer interface {
	Start()
	Stop()
	SetPlayDuration(tonetimer.Duration)
	SetNextDuration(tonetimer.Duration)
	CheckPlay() bool
	CheckNext() bool
}

// Buzzer is the subset of the buzzer driver the player drives.
type Buzzer interface {
	Tone(t tone.Tone, volume uint32)
	Stop()
	UpdateVolume(volume uint32)
}

// Option configures a Player.
type Option func(*Player)

// WithLiveVolume applies volume changes to the sounding note immediately
// instead of at the next note onset.
func WithLiveVolume() Option {
	return func(p *Player) {
		p.liveVolume = true
	}
}

// WithVolume sets the initial volume.
func WithVolume(v uint32) Option {
	return func(p *Player) {
		p.volume = min(v, buzzer.MaxVolume)
	}
}

// Player is the melody player. It is not safe for concurrent use; callers
// serialize access (see the musicbox package).
type Player struct {
	timer      Timer
	buzzer     Buzzer
	list       melody.Playlist
	state      State
	volume     uint32
	liveVolume bool
	sounding   bool
}

// New returns a stopped player at full volume.
func New(timer Timer, bz Buzzer, list melody.Playlist, opts ...Option) *Player {
	p := &Player{
		timer:  timer,
		buzzer: bz,
		list:   list,
		volume: buzzer.MaxVolume,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.timer.Stop()
	p.buzzer.Stop()
	return p
}

// State returns the current state.
func (p *Player) State() State {
	return p.state
}

// Volume returns the current volume in [0, 100].
func (p *Player) Volume() uint32 {
	return p.volume
}

// Playlist returns the active playlist.
func (p *Player) Playlist() melody.Playlist {
	return p.list
}

// Melody returns the melody at the current position, if any.
func (p *Player) Melody() (*melody.Melody, bool) {
	if p.state.Mode == Stop {
		return nil, false
	}
	return p.list.At(p.state.Pos)
}

// Play starts from the first melody when stopped and resumes when paused.
func (p *Player) Play() {
	switch p.state.Mode {
	case Stop:
		p.start(0, 0)
	case Pause:
		p.start(p.state.Pos, p.state.Progress)
	}
}

// Pause freezes playback so Play can resume it.
func (p *Player) Pause() {
	if p.state.Mode != Play {
		return
	}
	p.state.Mode = Pause
	p.halt()
}

// Stop ends playback.
func (p *Player) Stop() {
	p.state = State{Mode: Stop}
	p.halt()
}

// TogglePlay pauses while playing and plays otherwise.
func (p *Player) TogglePlay() {
	if p.state.Mode == Play {
		p.Pause()
		return
	}
	p.Play()
}

// Next starts the following melody, wrapping to the first.
func (p *Player) Next() {
	if pos, ok := p.list.Next(p.state.Pos); ok {
		p.start(pos, 0)
	}
}

// Prev starts the preceding melody, wrapping to the last.
func (p *Player) Prev() {
	if pos, ok := p.list.Prev(p.state.Pos); ok {
		p.start(pos, 0)
	}
}

// Replay restarts the current melody from its first note.
func (p *Player) Replay() {
	if p.list.Len() == 0 {
		return
	}
	p.start(p.state.Pos, 0)
}

// VolumeAdd raises the volume by n, saturating at 100.
func (p *Player) VolumeAdd(n uint32) {
	v := p.volume + n
	if v < p.volume || v > buzzer.MaxVolume {
		v = buzzer.MaxVolume
	}
	p.setVolume(v)
}

// VolumeSub lowers the volume by n, saturating at 0.
func (p *Player) VolumeSub(n uint32) {
	var v uint32
	if n < p.volume {
		v = p.volume - n
	}
	p.setVolume(v)
}

func (p *Player) setVolume(v uint32) {
	p.volume = v
	if p.liveVolume && p.sounding {
		p.buzzer.UpdateVolume(v)
	}
}

// SetList stops playback and replaces the playlist.
func (p *Player) SetList(list melody.Playlist) {
	p.Stop()
	p.list = list
}

// HandlePlayEvent runs the note scheduler. Call it from the tone timer
// interrupt. Calls without a pending compare event do nothing.
func (p *Player) HandlePlayEvent() {
	if p.state.Mode != Play {
		// acknowledge anything left over from before a pause or stop
		p.timer.CheckPlay()
		p.timer.CheckNext()
		return
	}

	// play wins; a simultaneous next event stays pending for the next call
	if p.timer.CheckPlay() {
		m, ok := p.list.At(p.state.Pos)
		if !ok {
			return
		}
		t, ms, ok := m.Get(p.state.Progress)
		if !ok {
			p.start(p.state.Pos, 0)
			return
		}
		p.buzzer.Tone(t, p.volume)
		p.sounding = !t.IsRest()
		p.timer.SetPlayDuration(tonetimer.Millis(ms))
		p.timer.SetNextDuration(tonetimer.Duration(ms * 10 * Gate))
		return
	}

	if p.timer.CheckNext() {
		p.state.Progress++
		p.buzzer.Stop()
		p.sounding = false
	}
}

// start is the common entry of every playback: silence, reset the timer and
// arm the intro delay.
func (p *Player) start(pos, progress int) {
	p.halt()
	if p.list.Len() == 0 {
		p.state = State{Mode: Stop}
		return
	}
	p.state = State{Mode: Play, Pos: pos, Progress: progress}
	p.timer.Start()
	p.timer.SetPlayDuration(tonetimer.Micros(IntroDelay))
}

func (p *Player) halt() {
	p.timer.Stop()
	p.buzzer.Stop()
	p.sounding = false
}
