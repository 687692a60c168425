// Package melody provides the compiled-in note sequences played by the music box.
package melody

import (
	"github.com/james-see/musicbox/pkg/tone"
)

// Note is a single encoded note. Div is the note value denominator
// (4 = quarter, 8 = eighth, ...); a negative Div marks a dotted note.
type Note struct {
	Tone tone.Tone
	Div  int8
}

// N is shorthand for building a Note in melody tables.
func N(t tone.Tone, div int8) Note {
	return Note{Tone: t, Div: div}
}

// Melody is an immutable note sequence with its tempo metadata.
type Melody struct {
	name      string
	tempo     uint32
	wholeNote uint32 // duration of a whole note in ms
	notes     []Note
}

// New builds a melody. The whole note lasts 60000*beat/tempo ms.
// The notes slice is copied so the melody cannot be modified afterwards.
func New(name string, tempo, beat uint32, notes ...Note) *Melody {
	var whole uint32
	if tempo > 0 {
		whole = 60000 * beat / tempo
	}
	return &Melody{
		name:      name,
		tempo:     tempo,
		wholeNote: whole,
		notes:     append([]Note(nil), notes...),
	}
}

// Name returns the melody title.
func (m *Melody) Name() string {
	return m.name
}

// Tempo returns the tempo in beats per minute.
func (m *Melody) Tempo() uint32 {
	return m.tempo
}

// WholeNote returns the duration of a whole note in milliseconds.
func (m *Melody) WholeNote() uint32 {
	return m.wholeNote
}

// Len returns the number of notes.
func (m *Melody) Len() int {
	return len(m.notes)
}

// Get decodes the note at pos into its tone and duration in milliseconds.
// ok is false past the end of the melody.
func (m *Melody) Get(pos int) (t tone.Tone, ms uint32, ok bool) {
	if pos < 0 || pos >= len(m.notes) {
		return tone.REST, 0, false
	}
	n := m.notes[pos]
	return n.Tone, m.duration(n.Div), true
}

// Duration returns the total length of one pass in milliseconds.
func (m *Melody) Duration() uint32 {
	var total uint32
	for _, n := range m.notes {
		total += m.duration(n.Div)
	}
	return total
}

func (m *Melody) duration(div int8) uint32 {
	if div == 0 {
		return 0
	}
	if div < 0 {
		// 1.5x, truncated toward zero
		return m.wholeNote * 3 / (2 * uint32(-int32(div)))
	}
	return m.wholeNote / uint32(div)
}
