// Package trace replays scripted button presses through the event
// recognizer.
//
// A script has one step per line:
//
//	# double click on A, then hold B
//	100  press   a
//	180  release a
//	300  press   a
//	380  release a
//	1000 press   b
//	2500 release b
//
// The first field is the time in milliseconds, the button defaults to a.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/musicbox"
)

// Tick is the sampling period used for replay.
const Tick = 10 * time.Millisecond

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("trace syntax error")

// Step is a level change of one button.
type Step struct {
	At      time.Duration
	Button  musicbox.ButtonID
	Pressed bool
	Line    int
}

// Script is a time-ordered list of steps.
type Script []Step

// Parse reads a script. Steps are sorted by time; steps sharing a time keep
// their order.
func Parse(r io.Reader) (Script, error) {
	var s Script
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		fields, err := shlex.Split(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, n, err)
		}
		if len(fields) == 0 {
			continue
		}
		step, err := parseStep(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, n, err)
		}
		step.Line = n
		s = append(s, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].At < s[j].At })
	return s, nil
}

func parseStep(fields []string) (Step, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return Step{}, fmt.Errorf("want \"<ms> press|release [a|b]\", got %d fields", len(fields))
	}
	ms, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return Step{}, fmt.Errorf("bad time %q", fields[0])
	}
	step := Step{At: time.Duration(ms) * time.Millisecond}

	switch strings.ToLower(fields[1]) {
	case "press", "down":
		step.Pressed = true
	case "release", "up":
	default:
		return Step{}, fmt.Errorf("unknown action %q", fields[1])
	}

	if len(fields) == 3 {
		switch strings.ToLower(fields[2]) {
		case "a":
			step.Button = musicbox.ButtonA
		case "b":
			step.Button = musicbox.ButtonB
		default:
			return Step{}, fmt.Errorf("unknown button %q", fields[2])
		}
	}
	return step, nil
}

// End returns the time of the last step.
func (s Script) End() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].At
}

// Recognized is an event reported during replay.
type Recognized struct {
	At     time.Duration
	Button musicbox.ButtonID
	Event  button.Event
}

func (r Recognized) String() string {
	return fmt.Sprintf("%6dms %s %s", r.At.Milliseconds(), r.Button, r.Event)
}

// Replay feeds the script to two recognizers ticked every Tick and returns
// the events in emission order. Replay continues past the last step until
// every pending click train or long press has resolved.
func (s Script) Replay(d button.Durations) ([]Recognized, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var pins [2]sim.Pin
	var recs [2]*button.Recognizer
	var out []Recognized
	var now time.Duration

	for i := range recs {
		id := musicbox.ButtonID(i)
		recs[i] = button.New(&pins[i])
		if err := recs[i].SetDurations(d); err != nil {
			return nil, err
		}
		recs[i].AttachEvent(func(ev button.Event) {
			out = append(out, Recognized{At: now, Button: id, Event: ev})
		})
	}

	end := s.End() + d.Press + d.Click + 2*d.Debounce
	next := 0
	for now = Tick; now <= end; now += Tick {
		for next < len(s) && s[next].At <= now {
			pins[s[next].Button].Set(s[next].Pressed)
			next++
		}
		recs[musicbox.ButtonA].Tick(now)
		recs[musicbox.ButtonB].Tick(now)
	}
	// a button still held at the end keeps its long press open
	return out, nil
}
