package melody

import "github.com/james-see/musicbox/pkg/tone"

// Happy Birthday
// https://musescore.com/user/8221/scores/26906
var HappyBirthday = New("Happy Birthday", 140, 4,
	N(tone.C4, 4), N(tone.C4, 8), N(tone.D4, -4), N(tone.C4, -4), N(tone.F4, -4), N(tone.E4, -2),
	N(tone.C4, 4), N(tone.C4, 8), N(tone.D4, -4), N(tone.C4, -4), N(tone.G4, -4), N(tone.F4, -2),
	N(tone.C4, 4), N(tone.C4, 8), N(tone.C5, -4), N(tone.A4, -4), N(tone.F4, -4), N(tone.E4, -4), N(tone.D4, -4),
	N(tone.AS4, 4), N(tone.AS4, 8), N(tone.A4, -4), N(tone.F4, -4), N(tone.G4, -4), N(tone.F4, -2),
)

// We Wish You a Merry Christmas
var MerryChristmas = New("We Wish You a Merry Christmas", 140, 4,
	N(tone.C5, 4),
	N(tone.F5, 4), N(tone.F5, 8), N(tone.G5, 8), N(tone.F5, 8), N(tone.E5, 8),
	N(tone.D5, 4), N(tone.D5, 4), N(tone.D5, 4),
	N(tone.G5, 4), N(tone.G5, 8), N(tone.A5, 8), N(tone.G5, 8), N(tone.F5, 8),
	N(tone.E5, 4), N(tone.C5, 4), N(tone.C5, 4),
	N(tone.A5, 4), N(tone.A5, 8), N(tone.AS5, 8), N(tone.A5, 8), N(tone.G5, 8),
	N(tone.F5, 4), N(tone.D5, 4), N(tone.C5, 8), N(tone.C5, 8),
	N(tone.D5, 4), N(tone.G5, 4), N(tone.E5, 4),
	N(tone.F5, 2), N(tone.C5, 4),
	N(tone.F5, 4), N(tone.F5, 4), N(tone.F5, 4),
	N(tone.E5, 2), N(tone.E5, 4),
	N(tone.F5, 4), N(tone.E5, 4), N(tone.D5, 4),
	N(tone.C5, 2), N(tone.A5, 4),
	N(tone.AS5, 4), N(tone.A5, 4), N(tone.G5, 4),
	N(tone.C6, 4), N(tone.C5, 4), N(tone.C5, 8), N(tone.C5, 8),
	N(tone.D5, 4), N(tone.G5, 4), N(tone.E5, 4),
	N(tone.F5, 2), N(tone.REST, 8),
)

// Super Mario Bros overworld theme, opening phrase
var SuperMario = New("Super Mario Bros", 200, 4,
	N(tone.E5, 8), N(tone.E5, 8), N(tone.REST, 8), N(tone.E5, 8), N(tone.REST, 8), N(tone.C5, 8), N(tone.E5, 8),
	N(tone.G5, 4), N(tone.REST, 4), N(tone.G4, 8), N(tone.REST, 4),
	N(tone.C5, -4), N(tone.G4, 8), N(tone.REST, 4), N(tone.E4, -4),
	N(tone.A4, 4), N(tone.B4, 4), N(tone.AS4, 8), N(tone.A4, 4),
	N(tone.G4, -8), N(tone.E5, -8), N(tone.G5, -8), N(tone.A5, 4), N(tone.F5, 8), N(tone.G5, 8),
	N(tone.REST, 8), N(tone.E5, 4), N(tone.C5, 8), N(tone.D5, 8), N(tone.B4, -4),
	N(tone.C5, -4), N(tone.G4, 8), N(tone.REST, 4), N(tone.E4, -4),
	N(tone.A4, 4), N(tone.B4, 4), N(tone.AS4, 8), N(tone.A4, 4),
	N(tone.G4, -8), N(tone.E5, -8), N(tone.G5, -8), N(tone.A5, 4), N(tone.F5, 8), N(tone.G5, 8),
	N(tone.REST, 8), N(tone.E5, 4), N(tone.C5, 8), N(tone.D5, 8), N(tone.B4, -4),
)

// Game of Thrones main title
var GameOfThrones = New("Game of Thrones", 85, 4,
	N(tone.G4, 8), N(tone.C4, 8), N(tone.DS4, 16), N(tone.F4, 16), N(tone.G4, 8), N(tone.C4, 8), N(tone.DS4, 16), N(tone.F4, 16),
	N(tone.G4, 8), N(tone.C4, 8), N(tone.DS4, 16), N(tone.F4, 16), N(tone.G4, 8), N(tone.C4, 8), N(tone.DS4, 16), N(tone.F4, 16),
	N(tone.G4, 8), N(tone.C4, 8), N(tone.E4, 16), N(tone.F4, 16), N(tone.G4, 8), N(tone.C4, 8), N(tone.E4, 16), N(tone.F4, 16),
	N(tone.G4, 8), N(tone.C4, 8), N(tone.E4, 16), N(tone.F4, 16), N(tone.G4, 8), N(tone.C4, 8), N(tone.E4, 16), N(tone.F4, 16),
	N(tone.G4, -4), N(tone.C4, -4),
	N(tone.DS4, 16), N(tone.F4, 16), N(tone.G4, 4), N(tone.C4, 4), N(tone.DS4, 16), N(tone.F4, 16),
	N(tone.D4, -1),
	N(tone.F4, -4), N(tone.AS3, -4),
	N(tone.DS4, 16), N(tone.D4, 16), N(tone.F4, 4), N(tone.AS3, -4),
	N(tone.DS4, 16), N(tone.D4, 16), N(tone.C4, -1),
)

// Tetris (Korobeiniki)
var Tetris = New("Tetris", 144, 4,
	N(tone.E5, 4), N(tone.B4, 8), N(tone.C5, 8), N(tone.D5, 4), N(tone.C5, 8), N(tone.B4, 8),
	N(tone.A4, 4), N(tone.A4, 8), N(tone.C5, 8), N(tone.E5, 4), N(tone.D5, 8), N(tone.C5, 8),
	N(tone.B4, -4), N(tone.C5, 8), N(tone.D5, 4), N(tone.E5, 4),
	N(tone.C5, 4), N(tone.A4, 4), N(tone.A4, 8), N(tone.A4, 4), N(tone.B4, 8), N(tone.C5, 8),
	N(tone.D5, -4), N(tone.F5, 8), N(tone.A5, 4), N(tone.G5, 8), N(tone.F5, 8),
	N(tone.E5, -4), N(tone.C5, 8), N(tone.E5, 4), N(tone.D5, 8), N(tone.C5, 8),
	N(tone.B4, 4), N(tone.B4, 8), N(tone.C5, 8), N(tone.D5, 4), N(tone.E5, 4),
	N(tone.C5, 4), N(tone.A4, 4), N(tone.A4, 4), N(tone.REST, 4),
)

// All returns every compiled-in melody in playlist order.
func All() []*Melody {
	return []*Melody{HappyBirthday, MerryChristmas, SuperMario, GameOfThrones, Tetris}
}
