package button

import (
	"errors"
	"testing"
	"time"

	"github.com/james-see/musicbox/pkg/hal/sim"
)

const tick = 10 * time.Millisecond

type edge struct {
	at      time.Duration
	pressed bool
}

type stamped struct {
	at time.Duration
	ev Event
}

// drive ticks a recognizer every 10 ms up to end, applying edges on the way.
func drive(t *testing.T, edges []edge, end time.Duration) []stamped {
	t.Helper()
	pin := &sim.Pin{}
	r := New(pin)
	var got []stamped
	var now time.Duration
	r.AttachEvent(func(ev Event) {
		got = append(got, stamped{now, ev})
	})
	i := 0
	for now = tick; now <= end; now += tick {
		for i < len(edges) && edges[i].at <= now {
			pin.Set(edges[i].pressed)
			i++
		}
		r.Tick(now)
	}
	return got
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func clicks(presses ...[2]int) []edge {
	var edges []edge
	for _, p := range presses {
		edges = append(edges, edge{ms(p[0]), true}, edge{ms(p[1]), false})
	}
	return edges
}

func TestClickTrains(t *testing.T) {
	tests := []struct {
		name  string
		edges []edge
		want  Event
		at    time.Duration
	}{
		{
			name:  "single click",
			edges: clicks([2]int{100, 250}),
			want:  Event{Kind: Click, Clicks: 1},
			at:    ms(510),
		},
		{
			name:  "bounce is absorbed",
			edges: clicks([2]int{100, 120}, [2]int{130, 300}),
			want:  Event{Kind: Click, Clicks: 1},
			at:    ms(540),
		},
		{
			name:  "double click",
			edges: clicks([2]int{100, 200}, [2]int{300, 400}),
			want:  Event{Kind: DoubleClick, Clicks: 2},
			at:    ms(710),
		},
		{
			name:  "triple click",
			edges: clicks([2]int{100, 200}, [2]int{300, 400}, [2]int{500, 600}),
			want:  Event{Kind: MultiClick, Clicks: 3},
			at:    ms(910),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drive(t, tt.edges, 3*time.Second)
			if len(got) != 1 {
				t.Fatalf("got %d events %v, want exactly one", len(got), got)
			}
			if got[0].ev != tt.want {
				t.Errorf("event = %v, want %v", got[0].ev, tt.want)
			}
			if got[0].at != tt.at {
				t.Errorf("emitted at %v, want %v", got[0].at, tt.at)
			}
		})
	}
}

func TestLongPress(t *testing.T) {
	got := drive(t, clicks([2]int{100, 1500}), 3*time.Second)
	if len(got) < 3 {
		t.Fatalf("got %d events, want start, during... and stop", len(got))
	}

	first, last := got[0], got[len(got)-1]
	if first.ev.Kind != LongPressStart || first.at != ms(910) {
		t.Errorf("first = %v at %v, want LongPressStart at 910ms", first.ev, first.at)
	}
	if last.ev.Kind != LongPressStop || last.at != ms(1560) {
		t.Errorf("last = %v at %v, want LongPressStop at 1.56s", last.ev, last.at)
	}
	during := got[1 : len(got)-1]
	for _, s := range during {
		if s.ev.Kind != LongPressDuring {
			t.Fatalf("unexpected %v at %v between start and stop", s.ev, s.at)
		}
	}
	// one per tick from 920 ms through 1490 ms
	if len(during) != 58 {
		t.Errorf("got %d LongPressDuring, want 58", len(during))
	}
}

func TestLongPressReleaseBounce(t *testing.T) {
	edges := []edge{
		{ms(100), true},
		{ms(1000), false},
		{ms(1020), true}, // bounce inside the debounce window
		{ms(1030), false},
	}
	got := drive(t, edges, 2*time.Second)
	var stops int
	for _, s := range got {
		if s.ev.Kind == LongPressStop {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("got %d LongPressStop, want 1 (%v)", stops, got)
	}
}

func TestNoEventWhileIdle(t *testing.T) {
	if got := drive(t, nil, 5*time.Second); len(got) != 0 {
		t.Errorf("idle button produced %v", got)
	}
}

func TestClickNeverDuringHold(t *testing.T) {
	for _, s := range drive(t, clicks([2]int{100, 2000}), 3*time.Second) {
		switch s.ev.Kind {
		case Click, DoubleClick, MultiClick:
			t.Errorf("click event %v during a long press", s.ev)
		}
	}
}

func TestSetDurations(t *testing.T) {
	tests := []struct {
		name    string
		d       Durations
		wantErr bool
	}{
		{"defaults", DefaultDurations(), false},
		{"custom", Durations{Debounce: ms(20), Click: ms(300), Press: ms(600)}, false},
		{"zero debounce", Durations{Debounce: 0, Click: ms(300), Press: ms(600)}, true},
		{"click not above debounce", Durations{Debounce: ms(300), Click: ms(300), Press: ms(600)}, true},
		{"press below click", Durations{Debounce: ms(20), Click: ms(700), Press: ms(600)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&sim.Pin{})
			err := r.SetDurations(tt.d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetDurations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrDurations) {
					t.Errorf("error %v does not wrap ErrDurations", err)
				}
				if r.Durations() != DefaultDurations() {
					t.Error("rejected durations were applied")
				}
				return
			}
			if r.Durations() != tt.d {
				t.Errorf("Durations() = %v, want %v", r.Durations(), tt.d)
			}
		})
	}
}

func TestShorterPressWindow(t *testing.T) {
	pin := &sim.Pin{}
	r := New(pin)
	if err := r.SetDurations(Durations{Debounce: ms(20), Click: ms(100), Press: ms(200)}); err != nil {
		t.Fatal(err)
	}
	var got []Event
	r.AttachEvent(func(ev Event) { got = append(got, ev) })

	pin.Press()
	for now := tick; now <= ms(300); now += tick {
		r.Tick(now)
	}
	if len(got) == 0 || got[0].Kind != LongPressStart {
		t.Errorf("events = %v, want LongPressStart first", got)
	}
}

func TestResetForgetsClicks(t *testing.T) {
	pin := &sim.Pin{}
	r := New(pin)
	var got []Event
	r.AttachEvent(func(ev Event) { got = append(got, ev) })

	pin.Press()
	r.Tick(ms(10))
	pin.Release()
	r.Tick(ms(100))
	r.Tick(ms(110))
	r.Reset()
	for now := ms(120); now <= ms(1000); now += tick {
		r.Tick(now)
	}
	if len(got) != 0 {
		t.Errorf("events after Reset() = %v", got)
	}
}

func TestFree(t *testing.T) {
	pin := &sim.Pin{}
	r := New(pin)
	var got []Event
	r.AttachEvent(func(ev Event) { got = append(got, ev) })

	if r.Free() != pin {
		t.Fatal("Free() did not return the pin")
	}
	pin.Press()
	for now := tick; now <= ms(2000); now += tick {
		r.Tick(now)
	}
	if len(got) != 0 {
		t.Errorf("freed recognizer emitted %v", got)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: Click, Clicks: 1}, "Click"},
		{Event{Kind: DoubleClick, Clicks: 2}, "DoubleClick"},
		{Event{Kind: MultiClick, Clicks: 5}, "MultiClick(5)"},
		{Event{Kind: LongPressDuring}, "LongPressDuring"},
		{Event{Kind: Kind(42)}, "Kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
