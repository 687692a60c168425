package button

import "fmt"

// Kind identifies a recognized button gesture.
type Kind uint8

const (
	Click Kind = iota
	DoubleClick
	MultiClick
	LongPressStart
	LongPressDuring
	LongPressStop
)

var kindNames = [...]string{
	Click:           "Click",
	DoubleClick:     "DoubleClick",
	MultiClick:      "MultiClick",
	LongPressStart:  "LongPressStart",
	LongPressDuring: "LongPressDuring",
	LongPressStop:   "LongPressStop",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Event is a recognized gesture. Clicks is the train length: 1 for Click,
// 2 for DoubleClick, 3 or more for MultiClick and 0 for long presses.
type Event struct {
	Kind   Kind
	Clicks uint32
}

func clickEvent(n uint32) Event {
	switch n {
	case 1:
		return Event{Kind: Click, Clicks: 1}
	case 2:
		return Event{Kind: DoubleClick, Clicks: 2}
	default:
		return Event{Kind: MultiClick, Clicks: n}
	}
}

func (e Event) String() string {
	if e.Kind == MultiClick {
		return fmt.Sprintf("MultiClick(%d)", e.Clicks)
	}
	return e.Kind.String()
}
