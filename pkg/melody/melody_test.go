package melody

import (
	"errors"
	"testing"

	"github.com/james-see/musicbox/pkg/tone"
)

func TestWholeNote(t *testing.T) {
	tests := []struct {
		name        string
		tempo, beat uint32
		want        uint32
	}{
		{"happy birthday", 140, 4, 1714},
		{"tetris", 144, 4, 1666},
		{"mario", 200, 4, 1200},
		{"zero tempo", 0, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.name, tt.tempo, tt.beat)
			if got := m.WholeNote(); got != tt.want {
				t.Errorf("WholeNote() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetDecodesDivisor(t *testing.T) {
	m := New("test", 120, 4, // whole note = 2000 ms
		N(tone.C4, 4),
		N(tone.D4, -4),
		N(tone.E4, 8),
		N(tone.F4, -8),
		N(tone.REST, 1),
		N(tone.G4, -16),
	)

	tests := []struct {
		pos  int
		tone tone.Tone
		ms   uint32
	}{
		{0, tone.C4, 500},
		{1, tone.D4, 750},
		{2, tone.E4, 250},
		{3, tone.F4, 375},
		{4, tone.REST, 2000},
		{5, tone.G4, 187}, // 187.5 truncated
	}
	for _, tt := range tests {
		tn, ms, ok := m.Get(tt.pos)
		if !ok {
			t.Fatalf("Get(%d) ok = false", tt.pos)
		}
		if tn != tt.tone || ms != tt.ms {
			t.Errorf("Get(%d) = %v, %d, want %v, %d", tt.pos, tn, ms, tt.tone, tt.ms)
		}
	}
}

func TestGetPastEnd(t *testing.T) {
	m := New("short", 120, 4, N(tone.C4, 4))
	for _, pos := range []int{1, 2, 100, -1} {
		if _, _, ok := m.Get(pos); ok {
			t.Errorf("Get(%d) ok = true, want false", pos)
		}
	}
}

func TestGetIsPure(t *testing.T) {
	for _, m := range All() {
		for p := 0; p < m.Len(); p++ {
			t1, d1, ok1 := m.Get(p)
			t2, d2, ok2 := m.Get(p)
			if t1 != t2 || d1 != d2 || ok1 != ok2 {
				t.Fatalf("%s: Get(%d) not stable", m.Name(), p)
			}
		}
	}
}

func TestNewCopiesNotes(t *testing.T) {
	notes := []Note{N(tone.C4, 4)}
	m := New("copy", 120, 4, notes...)
	notes[0] = N(tone.B6, 1)
	if tn, _, _ := m.Get(0); tn != tone.C4 {
		t.Errorf("Get(0) = %v after caller mutation, want C4", tn)
	}
}

func TestHappyBirthday(t *testing.T) {
	m := HappyBirthday
	if m.Len() != 25 {
		t.Errorf("Len() = %d, want 25", m.Len())
	}
	tn, ms, _ := m.Get(0)
	if tn != tone.C4 || ms != 428 {
		t.Errorf("Get(0) = %v, %d, want C4, 428", tn, ms)
	}
	tn, ms, _ = m.Get(2)
	if tn != tone.D4 || ms != 642 {
		t.Errorf("Get(2) = %v, %d, want D4, 642", tn, ms)
	}
}

func TestCompiledMelodiesUseValidTones(t *testing.T) {
	for _, m := range All() {
		if m.Len() == 0 {
			t.Errorf("%s is empty", m.Name())
		}
		for p := 0; p < m.Len(); p++ {
			tn, ms, _ := m.Get(p)
			if !tn.Valid() {
				t.Errorf("%s[%d]: invalid tone %v", m.Name(), p, tn)
			}
			if ms == 0 {
				t.Errorf("%s[%d]: zero duration", m.Name(), p)
			}
		}
	}
}

func TestPlaylistWrap(t *testing.T) {
	pl := Default()
	if pl.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", pl.Len())
	}

	pos := 0
	for i := 0; i < pl.Len(); i++ {
		pos, _ = pl.Next(pos)
	}
	if pos != 0 {
		t.Errorf("Next applied Len times = %d, want 0", pos)
	}

	if p, _ := pl.Prev(0); p != pl.Len()-1 {
		t.Errorf("Prev(0) = %d, want %d", p, pl.Len()-1)
	}
	if p, _ := pl.Next(pl.Len() - 1); p != 0 {
		t.Errorf("Next(last) = %d, want 0", p)
	}
}

func TestEmptyPlaylist(t *testing.T) {
	var pl Playlist
	if _, ok := pl.Next(0); ok {
		t.Error("Next on empty playlist ok = true")
	}
	if _, ok := pl.Prev(0); ok {
		t.Error("Prev on empty playlist ok = true")
	}
	if _, ok := pl.At(0); ok {
		t.Error("At on empty playlist ok = true")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want *Melody
	}{
		{"Happy Birthday", HappyBirthday},
		{"happy-birthday", HappyBirthday},
		{"TETRIS", Tetris},
		{"super_mario_bros", SuperMario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %s, want %s", got.Name(), tt.want.Name())
			}
		})
	}

	if _, err := Lookup("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(nope) error = %v, want ErrNotFound", err)
	}
}
