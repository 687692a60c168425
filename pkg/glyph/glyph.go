// Package glyph draws the player status on a 5x5 LED matrix.
package glyph

import (
	"strings"

	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/player"
)

// Size is the matrix width and height.
const Size = 5

// Glyph is a 5x5 bitmap, one byte per row from the top. Bit 4 is the
// leftmost column.
type Glyph [Size]uint8

var (
	Play = Glyph{
		0b01000,
		0b01100,
		0b01110,
		0b01100,
		0b01000,
	}
	Pause = Glyph{
		0b11011,
		0b11011,
		0b11011,
		0b11011,
		0b11011,
	}
	Stop = Glyph{
		0b00000,
		0b01110,
		0b01110,
		0b01110,
		0b00000,
	}
	Blank = Glyph{}
)

var digits = [10]Glyph{
	{0b01100, 0b10010, 0b10010, 0b10010, 0b01100},
	{0b00100, 0b01100, 0b00100, 0b00100, 0b01110},
	{0b11100, 0b00010, 0b01100, 0b10000, 0b11110},
	{0b11110, 0b00010, 0b00100, 0b10010, 0b01100},
	{0b00100, 0b01100, 0b10100, 0b11110, 0b00100},
	{0b11110, 0b10000, 0b11100, 0b00010, 0b11100},
	{0b00010, 0b00100, 0b01110, 0b10001, 0b01110},
	{0b11111, 0b00010, 0b00100, 0b01000, 0b10000},
	{0b01110, 0b10001, 0b01110, 0b10001, 0b01110},
	{0b01110, 0b10001, 0b01110, 0b00100, 0b01000},
}

// At reports whether the LED at column x, row y is lit.
func (g Glyph) At(x, y int) bool {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return false
	}
	return g[y]&(1<<(Size-1-x)) != 0
}

// Lit returns the number of lit LEDs.
func (g Glyph) Lit() int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g.At(x, y) {
				n++
			}
		}
	}
	return n
}

// String renders the glyph as five lines of '#' and '.'.
func (g Glyph) String() string {
	var b strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g.At(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Digit returns the glyph for n modulo 10.
func Digit(n int) Glyph {
	if n < 0 {
		n = -n
	}
	return digits[n%10]
}

// Volume fills the matrix bottom-up, left to right, in proportion to v.
// Any non-zero volume lights at least one LED.
func Volume(v uint32) Glyph {
	v = min(v, buzzer.MaxVolume)
	n := int(v * Size * Size / buzzer.MaxVolume)
	if v > 0 && n == 0 {
		n = 1
	}
	var g Glyph
	for i := 0; i < n; i++ {
		y := Size - 1 - i/Size
		x := i % Size
		g[y] |= 1 << (Size - 1 - x)
	}
	return g
}

// ForMode returns the status glyph of m.
func ForMode(m player.Mode) Glyph {
	switch m {
	case player.Play:
		return Play
	case player.Pause:
		return Pause
	}
	return Stop
}
