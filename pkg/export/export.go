// Package export writes melodies as Standard MIDI Files.
//
// Melody writes the score as the player would schedule it. Render runs the
// real player against simulated peripherals and writes what the speaker
// actually did, intro delay included. Both files use a millisecond grid:
// one tick per millisecond with the melody's quarter note as the beat.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/player"
	"github.com/james-see/musicbox/pkg/tone"
	"github.com/james-see/musicbox/pkg/tonetimer"
)

const channel = 0

// DefaultVelocity is used for score export.
const DefaultVelocity = 100

// ErrNilMelody is returned when there is no melody to write.
var ErrNilMelody = errors.New("nil melody")

// Note is a sounding interval.
type Note struct {
	Start    time.Duration
	Length   time.Duration
	Tone     tone.Tone
	Velocity uint8
}

// Score returns the notes of m with the player's gate applied. Rests are
// skipped.
func Score(m *melody.Melody) []Note {
	var notes []Note
	var at time.Duration
	for i := 0; i < m.Len(); i++ {
		t, ms, _ := m.Get(i)
		length := time.Duration(ms) * time.Millisecond
		if !t.IsRest() {
			notes = append(notes, Note{
				Start:    at,
				Length:   length * player.Gate / 100,
				Tone:     t,
				Velocity: DefaultVelocity,
			})
		}
		at += length
	}
	return notes
}

// Capture plays one pass of m at volume through the player on virtual
// peripherals and returns the speaker output as notes.
func Capture(m *melody.Melody, volume uint32) []Note {
	counter := sim.NewCounter()
	pwm := sim.NewPWM(counter.Elapsed)
	p := player.New(tonetimer.New(counter), buzzer.New(pwm, 0),
		melody.NewPlaylist(m), player.WithVolume(volume))
	counter.OnInterrupt(p.HandlePlayEvent)

	p.Play()
	counter.AdvanceDuration(player.IntroDelay + time.Duration(m.Duration())*time.Millisecond)
	p.Stop()

	var notes []Note
	open := -1
	for _, ev := range pwm.Events() {
		switch ev.Kind {
		case sim.EventEnable:
			notes = append(notes, Note{
				Start:    ev.At,
				Tone:     tone.Nearest(ev.Hz),
				Velocity: velocity(ev.Duty, ev.Top),
			})
			open = len(notes) - 1
		case sim.EventDisable:
			if open >= 0 {
				notes[open].Length = ev.At - notes[open].Start
				open = -1
			}
		}
	}
	return notes
}

// velocity maps the buzzer duty range back onto 1..127.
func velocity(duty, top uint32) uint8 {
	lo, hi := buzzer.Duty(top, 0), buzzer.Duty(top, buzzer.MaxVolume)
	if hi <= lo || duty <= lo {
		return 1
	}
	v := 1 + 126*(min(duty, hi)-lo)/(hi-lo)
	return uint8(v)
}

// Melody writes the score of m to w.
func Melody(w io.Writer, m *melody.Melody) error {
	if m == nil {
		return ErrNilMelody
	}
	return write(w, m, Score(m))
}

// Render writes the captured speaker output of one pass of m to w.
func Render(w io.Writer, m *melody.Melody, volume uint32) error {
	if m == nil {
		return ErrNilMelody
	}
	return write(w, m, Capture(m, volume))
}

func write(w io.Writer, m *melody.Melody, notes []Note) error {
	quarter := max(m.WholeNote()/4, 1)
	if quarter > 0xFFFF {
		return fmt.Errorf("melody %q: quarter note of %d ms is too long", m.Name(), quarter)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(quarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(m.Name()))
	track.Add(0, smf.MetaTempo(60000/float64(quarter)))
	track.Add(0, smf.MetaMeter(4, 4))

	// note offs sort before note ons at the same tick
	type event struct {
		at  uint32
		off bool
		msg midi.Message
	}
	var events []event
	for _, n := range notes {
		key, ok := n.Tone.MIDIKey()
		if !ok {
			continue
		}
		on := uint32(n.Start / time.Millisecond)
		off := on + uint32(n.Length/time.Millisecond)
		events = append(events,
			event{on, false, midi.NoteOn(channel, key, n.Velocity)},
			event{off, true, midi.NoteOff(channel, key)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].off && !events[j].off
	})

	var tick uint32
	for _, ev := range events {
		track.Add(ev.at-tick, ev.msg)
		tick = ev.at
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI: %w", err)
	}
	return nil
}
