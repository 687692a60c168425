// Package musicbox wires the buttons, the tone timer and the player into
// the three execution contexts of the device: the periodic button tick, the
// tone timer interrupt and the low-priority task dispatcher.
package musicbox

import (
	"log/slog"
	"time"

	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/hal"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/player"
)

// DefaultVolumeStep is the volume change applied per LongPressDuring event.
const DefaultVolumeStep = 1

// Status is a snapshot of the player published after each handled task.
type Status struct {
	State  player.State
	Volume uint32
	Melody string
}

// Option configures a Box.
type Option func(*Box)

// WithVolumeStep sets the volume change per held-button tick.
func WithVolumeStep(step uint32) Option {
	return func(b *Box) {
		b.step = step
	}
}

// WithObserver registers fn to receive the player status after every task.
func WithObserver(fn func(Status)) Option {
	return func(b *Box) {
		b.observer = fn
	}
}

// WithPend registers the hook that wakes the dispatcher after a spawn.
func WithPend(fn func()) Option {
	return func(b *Box) {
		b.pend = fn
	}
}

// WithLogger sets the logger for dispatched events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Box) {
		b.log = l
	}
}

// WithLocker sets the lock factory used for the shared player and the task
// queue. The default is a sync.Mutex per resource.
func WithLocker(fn func() hal.Locker) Option {
	return func(b *Box) {
		b.newLocker = fn
	}
}

// Box owns the two recognizers and the player.
type Box struct {
	buttons [2]*button.Recognizer
	player  *Resource[*player.Player]
	tasks   *TaskQueue

	step      uint32
	observer  func(Status)
	pend      func()
	log       *slog.Logger
	newLocker func() hal.Locker
}

// New connects a and b to p. Recognized events are queued for RunPending.
func New(a, b *button.Recognizer, p *player.Player, opts ...Option) *Box {
	box := &Box{
		buttons: [2]*button.Recognizer{a, b},
		step:    DefaultVolumeStep,
	}
	for _, opt := range opts {
		opt(box)
	}
	if box.log == nil {
		box.log = slog.New(slog.DiscardHandler)
	}
	var lockPlayer, lockQueue hal.Locker
	if box.newLocker != nil {
		lockPlayer, lockQueue = box.newLocker(), box.newLocker()
	}
	box.player = NewResource(lockPlayer, p)
	box.tasks = NewTaskQueue(lockQueue)

	for i, r := range box.buttons {
		id := ButtonID(i)
		r.AttachEvent(func(ev button.Event) {
			box.spawn(Task{Button: id, Event: ev})
		})
	}
	return box
}

func (b *Box) spawn(t Task) {
	if !b.tasks.Spawn(t) {
		// nothing is logged here: this runs in the tick context
		return
	}
	if b.pend != nil {
		b.pend()
	}
}

// OnTick is the periodic button tick. It samples button A before button B.
func (b *Box) OnTick(now time.Duration) {
	b.buttons[ButtonA].Tick(now)
	b.buttons[ButtonB].Tick(now)
}

// OnToneIRQ is the tone timer interrupt handler.
func (b *Box) OnToneIRQ() {
	b.player.Lock(func(p *player.Player) {
		p.HandlePlayEvent()
	})
}

// RunPending applies every queued task in order and returns how many ran.
func (b *Box) RunPending() int {
	n := 0
	for {
		t, ok := b.tasks.Pop()
		if !ok {
			return n
		}
		n++
		var st Status
		b.player.Lock(func(p *player.Player) {
			apply(p, t, b.step)
			st = status(p)
		})
		b.log.Debug("button event",
			"button", t.Button,
			"event", t.Event,
			"state", st.State,
			"volume", st.Volume)
		b.notify(st)
	}
}

// Do runs fn on the player and publishes the resulting status.
func (b *Box) Do(fn func(p *player.Player)) {
	var st Status
	b.player.Lock(func(p *player.Player) {
		fn(p)
		st = status(p)
	})
	b.notify(st)
}

// Status returns the current player status.
func (b *Box) Status() Status {
	var st Status
	b.player.Lock(func(p *player.Player) {
		st = status(p)
	})
	return st
}

// Playlist returns the player's playlist.
func (b *Box) Playlist() melody.Playlist {
	var list melody.Playlist
	b.player.Lock(func(p *player.Player) {
		list = p.Playlist()
	})
	return list
}

// Dropped returns the number of events lost to a full queue.
func (b *Box) Dropped() uint32 {
	return b.tasks.Drops()
}

func (b *Box) notify(st Status) {
	if b.observer != nil {
		b.observer(st)
	}
}

func status(p *player.Player) Status {
	st := Status{State: p.State(), Volume: p.Volume()}
	if m, ok := p.Melody(); ok {
		st.Melody = m.Name()
	}
	return st
}
