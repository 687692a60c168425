// Package tone provides the pitch table used by compiled-in melodies.
package tone

import "fmt"

// Tone is a named pitch. The zero value is REST.
type Tone uint8

// Chromatic pitches from C3 to B6. Sharps are spelled with an S suffix on the
// letter, so A#4 is AS4.
const (
	REST Tone = iota
	C3
	CS3
	D3
	DS3
	E3
	F3
	FS3
	G3
	GS3
	A3
	AS3
	B3
	C4
	CS4
	D4
	DS4
	E4
	F4
	FS4
	G4
	GS4
	A4
	AS4
	B4
	C5
	CS5
	D5
	DS5
	E5
	F5
	FS5
	G5
	GS5
	A5
	AS5
	B5
	C6
	CS6
	D6
	DS6
	E6
	F6
	FS6
	G6
	GS6
	A6
	AS6
	B6
)

// lowestKey is the MIDI key number of C3.
const lowestKey = 48

// table holds the equal-tempered frequency of each tone rounded to the nearest Hz.
var table = [...]uint32{
	REST: 0,
	C3:   131,
	CS3:  139,
	D3:   147,
	DS3:  156,
	E3:   165,
	F3:   175,
	FS3:  185,
	G3:   196,
	GS3:  208,
	A3:   220,
	AS3:  233,
	B3:   247,
	C4:   262,
	CS4:  277,
	D4:   294,
	DS4:  311,
	E4:   330,
	F4:   349,
	FS4:  370,
	G4:   392,
	GS4:  415,
	A4:   440,
	AS4:  466,
	B4:   494,
	C5:   523,
	CS5:  554,
	D5:   587,
	DS5:  622,
	E5:   659,
	F5:   698,
	FS5:  740,
	G5:   784,
	GS5:  831,
	A5:   880,
	AS5:  932,
	B5:   988,
	C6:   1047,
	CS6:  1109,
	D6:   1175,
	DS6:  1245,
	E6:   1319,
	F6:   1397,
	FS6:  1480,
	G6:   1568,
	GS6:  1661,
	A6:   1760,
	AS6:  1865,
	B6:   1976,
}

var names = [...]string{"C", "CS", "D", "DS", "E", "F", "FS", "G", "GS", "A", "AS", "B"}

// Freq returns the frequency of t in Hz. REST and unknown values yield 0.
func Freq(t Tone) uint32 {
	if int(t) >= len(table) {
		return 0
	}
	return table[t]
}

// IsRest reports whether t is the silent tone.
func (t Tone) IsRest() bool {
	return t == REST
}

// Valid reports whether t is one of the declared tones.
func (t Tone) Valid() bool {
	return int(t) < len(table)
}

// MIDIKey returns the MIDI note number for t (C4 = 60). REST has no key.
func (t Tone) MIDIKey() (uint8, bool) {
	if t == REST || !t.Valid() {
		return 0, false
	}
	return uint8(lowestKey + int(t) - 1), true
}

// FromMIDIKey returns the tone for a MIDI note number, if it is in range.
func FromMIDIKey(key uint8) (Tone, bool) {
	t := Tone(int(key) - lowestKey + 1)
	if int(key) < lowestKey || !t.Valid() {
		return REST, false
	}
	return t, true
}

// Nearest returns the tone whose frequency is closest to hz. Frequencies
// outside the table clamp to the lowest or highest tone; 0 is REST.
func Nearest(hz uint32) Tone {
	if hz == 0 {
		return REST
	}
	best := C3
	bestDiff := diff(Freq(C3), hz)
	for t := C3 + 1; t.Valid(); t++ {
		if d := diff(Freq(t), hz); d < bestDiff {
			best, bestDiff = t, d
		}
	}
	return best
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func (t Tone) String() string {
	if t == REST {
		return "REST"
	}
	if !t.Valid() {
		return fmt.Sprintf("Tone(%d)", uint8(t))
	}
	i := int(t) - 1
	return fmt.Sprintf("%s%d", names[i%12], 3+i/12)
}
