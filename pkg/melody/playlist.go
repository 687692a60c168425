package melody

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a melody name is not compiled in.
var ErrNotFound = errors.New("melody not found")

// Playlist is an immutable ordered list of melodies.
type Playlist struct {
	melodies []*Melody
}

// NewPlaylist builds a playlist from the given melodies.
func NewPlaylist(melodies ...*Melody) Playlist {
	return Playlist{melodies: append([]*Melody(nil), melodies...)}
}

// Len returns the number of melodies.
func (p Playlist) Len() int {
	return len(p.melodies)
}

// At returns the melody at index i.
func (p Playlist) At(i int) (*Melody, bool) {
	if i < 0 || i >= len(p.melodies) {
		return nil, false
	}
	return p.melodies[i], true
}

// Next returns the index after i, wrapping from the last melody to the first.
func (p Playlist) Next(i int) (int, bool) {
	n := len(p.melodies)
	if n == 0 {
		return 0, false
	}
	return (i%n + 1) % n, true
}

// Prev returns the index before i, wrapping from the first melody to the last.
func (p Playlist) Prev(i int) (int, bool) {
	n := len(p.melodies)
	if n == 0 {
		return 0, false
	}
	return (i%n + n - 1) % n, true
}

// Names returns the titles in playlist order.
func (p Playlist) Names() []string {
	names := make([]string, len(p.melodies))
	for i, m := range p.melodies {
		names[i] = m.Name()
	}
	return names
}

// Default returns the playlist of every compiled-in melody.
func Default() Playlist {
	return NewPlaylist(All()...)
}

// Lookup finds a compiled-in melody by name, ignoring case, spaces and
// punctuation ("happy-birthday" matches "Happy Birthday").
func Lookup(name string) (*Melody, error) {
	key := normalize(name)
	for _, m := range All() {
		if normalize(m.Name()) == key {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
