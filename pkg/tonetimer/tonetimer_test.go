package tonetimer

import (
	"testing"
	"time"

	"github.com/james-see/musicbox/pkg/hal/sim"
)

func TestSetPlayDurationIsRelativeToNow(t *testing.T) {
	c := sim.NewCounter()
	tm := New(c)
	tm.Start()
	c.Advance(250)

	tm.SetPlayDuration(Millis(1))
	c.Advance(999)
	if tm.CheckPlay() {
		t.Fatal("CheckPlay() = true before deadline")
	}
	c.Advance(1)
	if !tm.CheckPlay() {
		t.Fatal("CheckPlay() = false at deadline")
	}
	if tm.Now() != 1250 {
		t.Errorf("Now() = %d, want 1250", tm.Now())
	}
}

func TestCheckIsEdgeConsuming(t *testing.T) {
	c := sim.NewCounter()
	tm := New(c)
	tm.Start()
	tm.SetPlayDuration(10)
	tm.SetNextDuration(5)
	c.Advance(10)

	if !tm.CheckNext() {
		t.Error("first CheckNext() = false")
	}
	if tm.CheckNext() {
		t.Error("second CheckNext() = true")
	}
	if !tm.CheckPlay() {
		t.Error("first CheckPlay() = false")
	}
	if tm.CheckPlay() {
		t.Error("second CheckPlay() = true")
	}
}

func TestStartClearsPendingEvents(t *testing.T) {
	c := sim.NewCounter()
	tm := New(c)
	tm.Start()
	tm.SetPlayDuration(10)
	c.Advance(20)

	tm.Start()
	if tm.CheckPlay() {
		t.Error("CheckPlay() = true after restart")
	}
	if tm.Now() != 0 {
		t.Errorf("Now() = %d after restart, want 0", tm.Now())
	}
}

func TestStopHaltsCounter(t *testing.T) {
	c := sim.NewCounter()
	tm := New(c)
	tm.Start()
	c.Advance(100)
	tm.Stop()
	c.Advance(100)
	if tm.Now() != 0 {
		t.Errorf("Now() = %d after stop, want 0", tm.Now())
	}
}

func TestInterruptRaisedForArmedChannels(t *testing.T) {
	c := sim.NewCounter()
	tm := New(c)
	var order []string
	c.OnInterrupt(func() {
		if tm.CheckPlay() {
			order = append(order, "play")
		} else if tm.CheckNext() {
			order = append(order, "next")
		}
	})
	tm.Start()
	tm.SetPlayDuration(Millis(100))
	tm.SetNextDuration(Millis(90))
	c.AdvanceDuration(200 * time.Millisecond)

	if len(order) != 2 || order[0] != "next" || order[1] != "play" {
		t.Errorf("order = %v, want [next play]", order)
	}
}

func TestConversions(t *testing.T) {
	if Micros(1500*time.Microsecond) != 1500 {
		t.Errorf("Micros() = %d, want 1500", Micros(1500*time.Microsecond))
	}
	if Millis(3) != 3000 {
		t.Errorf("Millis(3) = %d, want 3000", Millis(3))
	}
}
