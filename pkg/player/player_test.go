package player

import (
	"math"
	"testing"
	"time"

	"github.com/james-see/musicbox/pkg/buzzer"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/tone"
	"github.com/james-see/musicbox/pkg/tonetimer"
)

type rig struct {
	counter *sim.Counter
	pwm     *sim.PWM
	player  *Player
}

func newRig(list melody.Playlist, opts ...Option) *rig {
	c := sim.NewCounter()
	pwm := sim.NewPWM(c.Elapsed)
	p := New(tonetimer.New(c), buzzer.New(pwm, 0), list, opts...)
	c.OnInterrupt(p.HandlePlayEvent)
	return &rig{counter: c, pwm: pwm, player: p}
}

func (r *rig) advance(d time.Duration) {
	r.counter.AdvanceDuration(d)
}

func (r *rig) enables() []sim.Event {
	var out []sim.Event
	for _, ev := range r.pwm.Events() {
		if ev.Kind == sim.EventEnable {
			out = append(out, ev)
		}
	}
	return out
}

func TestNewIsStoppedAtFullVolume(t *testing.T) {
	r := newRig(melody.Default())
	if r.player.State().Mode != Stop {
		t.Errorf("State() = %v, want stop", r.player.State())
	}
	if r.player.Volume() != 100 {
		t.Errorf("Volume() = %d, want 100", r.player.Volume())
	}
	if r.counter.Running() {
		t.Error("tone timer running after New")
	}
}

func TestIntroDelay(t *testing.T) {
	r := newRig(melody.NewPlaylist(melody.HappyBirthday))
	r.player.Play()

	r.advance(IntroDelay - time.Millisecond)
	if len(r.enables()) != 0 {
		t.Fatal("note sounded before the intro delay")
	}
	r.advance(time.Millisecond)
	evs := r.enables()
	if len(evs) != 1 {
		t.Fatalf("enables = %d, want 1", len(evs))
	}
	if evs[0].Hz != 262 || evs[0].At != IntroDelay {
		t.Errorf("first note = %d Hz at %v, want 262 Hz at %v", evs[0].Hz, evs[0].At, IntroDelay)
	}
}

func TestNoteGap(t *testing.T) {
	r := newRig(melody.NewPlaylist(melody.HappyBirthday))
	r.player.Play()
	r.advance(IntroDelay + 500*time.Millisecond)

	evs := r.pwm.Events()
	if len(evs) < 3 {
		t.Fatalf("events = %v", evs)
	}
	// C4:4 lasts 428 ms: off at 90%, next note at 100%
	if evs[0].Kind != sim.EventEnable || evs[0].At != time.Second {
		t.Errorf("events[0] = %+v", evs[0])
	}
	if evs[1].Kind != sim.EventDisable || evs[1].At != time.Second+385200*time.Microsecond {
		t.Errorf("events[1] = %+v, want disable at 1.3852s", evs[1])
	}
	if evs[2].Kind != sim.EventEnable || evs[2].At != time.Second+428*time.Millisecond {
		t.Errorf("events[2] = %+v, want enable at 1.428s", evs[2])
	}
	if r.player.State().Progress != 1 {
		t.Errorf("Progress = %d, want 1", r.player.State().Progress)
	}
}

func TestEndOfMelodyRestarts(t *testing.T) {
	m := melody.HappyBirthday
	r := newRig(melody.NewPlaylist(m))
	r.player.Play()

	pass := time.Duration(m.Duration()) * time.Millisecond
	r.advance(IntroDelay + pass)

	if got := len(r.enables()); got != m.Len() {
		t.Fatalf("enables after one pass = %d, want %d", got, m.Len())
	}
	st := r.player.State()
	if st.Mode != Play || st.Progress != 0 {
		t.Fatalf("State() = %v, want play at progress 0", st)
	}

	r.advance(IntroDelay - time.Millisecond)
	if got := len(r.enables()); got != m.Len() {
		t.Fatalf("note sounded during replay intro: %d enables", got)
	}
	r.advance(time.Millisecond)
	evs := r.enables()
	if len(evs) != m.Len()+1 {
		t.Fatalf("enables = %d, want %d", len(evs), m.Len()+1)
	}
	first, _, _ := m.Get(0)
	if last := evs[len(evs)-1]; last.Hz != tone.Freq(first) || last.At != 2*IntroDelay+pass {
		t.Errorf("replayed first note = %d Hz at %v, want %d Hz at %v",
			last.Hz, last.At, tone.Freq(first), 2*IntroDelay+pass)
	}
}

func TestRestKeepsTempo(t *testing.T) {
	m := melody.New("rest", 120, 4, // whole = 2000 ms
		melody.N(tone.C4, 4),
		melody.N(tone.REST, 4),
		melody.N(tone.E4, 4),
	)
	r := newRig(melody.NewPlaylist(m))
	r.player.Play()
	r.advance(IntroDelay + 1200*time.Millisecond)

	evs := r.enables()
	if len(evs) != 2 {
		t.Fatalf("enables = %d, want 2", len(evs))
	}
	if evs[1].Hz != 330 || evs[1].At != IntroDelay+time.Second {
		t.Errorf("E4 = %d Hz at %v, want 330 Hz at %v", evs[1].Hz, evs[1].At, IntroDelay+time.Second)
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	r := newRig(melody.NewPlaylist(melody.Tetris))
	r.player.Play()
	prev := 0
	for i := 0; i < 2000; i++ {
		r.advance(5 * time.Millisecond)
		st := r.player.State()
		if st.Progress < prev && st.Progress != 0 {
			t.Fatalf("progress went from %d to %d", prev, st.Progress)
		}
		prev = st.Progress
	}
}

func TestPauseResume(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Play()
	r.advance(IntroDelay + 1500*time.Millisecond)

	before := r.player.State()
	r.player.Pause()
	paused := r.player.State()
	if paused.Mode != Pause || paused.Pos != before.Pos || paused.Progress != before.Progress {
		t.Fatalf("Pause() state = %v, from %v", paused, before)
	}
	if r.pwm.Enabled() || r.counter.Running() {
		t.Error("buzzer or timer still active while paused")
	}

	r.advance(10 * time.Second)
	r.player.Play()
	resumed := r.player.State()
	if resumed.Mode != Play || resumed.Pos != before.Pos || resumed.Progress != before.Progress {
		t.Errorf("Play() after pause = %v, want %v", resumed, before)
	}
}

func TestPauseWhenNotPlaying(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Pause()
	if r.player.State().Mode != Stop {
		t.Errorf("Pause() from stop = %v", r.player.State())
	}
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Play()
	r.advance(IntroDelay + 2*time.Second)
	before := r.player.State()
	r.player.Play()
	if r.player.State() != before {
		t.Errorf("Play() while playing changed state from %v to %v", before, r.player.State())
	}
}

func TestStopThenPlayStartsOver(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Next()
	r.advance(IntroDelay + 2*time.Second)
	r.player.Stop()
	if r.pwm.Enabled() || r.counter.Running() {
		t.Error("buzzer or timer active after Stop()")
	}
	r.player.Play()
	want := State{Mode: Play}
	if r.player.State() != want {
		t.Errorf("State() = %v, want %v", r.player.State(), want)
	}
}

func TestNextPrevWrap(t *testing.T) {
	list := melody.Default()
	r := newRig(list)
	r.player.Play()
	for i := 0; i < list.Len(); i++ {
		r.player.Next()
	}
	if st := r.player.State(); st.Pos != 0 || st.Progress != 0 || st.Mode != Play {
		t.Errorf("after %d Next() = %v, want play{pos: 0, progress: 0}", list.Len(), st)
	}

	r.player.Prev()
	if st := r.player.State(); st.Pos != list.Len()-1 {
		t.Errorf("Prev() from 0 = %v, want pos %d", st, list.Len()-1)
	}
}

func TestNextResetsProgress(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Play()
	r.advance(IntroDelay + 3*time.Second)
	if r.player.State().Progress == 0 {
		t.Fatal("no progress after 3s")
	}
	r.player.Next()
	if st := r.player.State(); st.Pos != 1 || st.Progress != 0 {
		t.Errorf("Next() = %v, want pos 1 progress 0", st)
	}
}

func TestReplay(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Next()
	r.advance(IntroDelay + 2*time.Second)
	r.player.Replay()
	if st := r.player.State(); st.Pos != 1 || st.Progress != 0 {
		t.Errorf("Replay() = %v, want pos 1 progress 0", st)
	}
}

func TestEmptyPlaylist(t *testing.T) {
	r := newRig(melody.NewPlaylist())
	r.player.Play()
	r.player.Next()
	r.player.Prev()
	r.player.Replay()
	r.advance(5 * time.Second)
	if r.player.State().Mode != Stop {
		t.Errorf("State() = %v, want stop", r.player.State())
	}
	if len(r.pwm.Events()) != 0 {
		t.Errorf("buzzer sounded with empty playlist: %v", r.pwm.Events())
	}
}

func TestSetListStops(t *testing.T) {
	r := newRig(melody.Default())
	r.player.Play()
	r.advance(IntroDelay + time.Second)
	r.player.SetList(melody.NewPlaylist(melody.Tetris))
	if r.player.State().Mode != Stop {
		t.Errorf("State() = %v, want stop", r.player.State())
	}
	if r.player.Playlist().Len() != 1 {
		t.Errorf("Playlist().Len() = %d, want 1", r.player.Playlist().Len())
	}
	if r.pwm.Enabled() {
		t.Error("buzzer enabled after SetList")
	}
}

func TestVolumeSaturates(t *testing.T) {
	tests := []struct {
		name string
		ops  func(p *Player)
		want uint32
	}{
		{"add max", func(p *Player) { p.VolumeAdd(math.MaxUint32) }, 100},
		{"sub max", func(p *Player) { p.VolumeSub(math.MaxUint32) }, 0},
		{"sub then add", func(p *Player) { p.VolumeSub(30); p.VolumeAdd(10) }, 80},
		{"round trip", func(p *Player) { p.VolumeSub(40); p.VolumeAdd(40) }, 100},
		{"clamped round trip", func(p *Player) { p.VolumeAdd(40); p.VolumeSub(40) }, 60},
		{"sub below zero", func(p *Player) { p.VolumeSub(99); p.VolumeSub(5) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(melody.Default())
			tt.ops(r.player)
			if got := r.player.Volume(); got != tt.want {
				t.Errorf("Volume() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVolumeAppliedAtNextOnset(t *testing.T) {
	r := newRig(melody.NewPlaylist(melody.HappyBirthday))
	r.player.Play()
	r.advance(IntroDelay + 100*time.Millisecond)
	_, dutyBefore, top := r.pwm.Output()

	r.player.VolumeSub(100)
	if _, duty, _ := r.pwm.Output(); duty != dutyBefore {
		t.Errorf("duty changed mid-note: %d -> %d", dutyBefore, duty)
	}

	r.advance(400 * time.Millisecond) // next onset at 1.428s
	_, duty, top := r.pwm.Output()
	if duty != buzzer.Duty(top, 0) {
		t.Errorf("duty at next onset = %d, want %d", duty, buzzer.Duty(top, 0))
	}
}

func TestLiveVolume(t *testing.T) {
	r := newRig(melody.NewPlaylist(melody.HappyBirthday), WithLiveVolume())
	r.player.Play()
	r.advance(IntroDelay + 100*time.Millisecond)

	r.player.VolumeSub(100)
	_, duty, top := r.pwm.Output()
	if duty != buzzer.Duty(top, 0) {
		t.Errorf("duty = %d, want %d", duty, buzzer.Duty(top, 0))
	}
	if !r.pwm.Enabled() {
		t.Error("live volume change interrupted the note")
	}
}

func TestWithVolume(t *testing.T) {
	r := newRig(melody.Default(), WithVolume(250))
	if r.player.Volume() != 100 {
		t.Errorf("Volume() = %d, want 100", r.player.Volume())
	}
	r = newRig(melody.Default(), WithVolume(30))
	if r.player.Volume() != 30 {
		t.Errorf("Volume() = %d, want 30", r.player.Volume())
	}
}

type fakeTimer struct {
	play, next bool
	started    int
	armedPlay  []tonetimer.Duration
}

func (f *fakeTimer) Start()                               { f.started++ }
func (f *fakeTimer) Stop()                                {}
func (f *fakeTimer) SetPlayDuration(d tonetimer.Duration) { f.armedPlay = append(f.armedPlay, d) }
func (f *fakeTimer) SetNextDuration(tonetimer.Duration)   {}
func (f *fakeTimer) CheckPlay() bool                      { v := f.play; f.play = false; return v }
func (f *fakeTimer) CheckNext() bool                      { v := f.next; f.next = false; return v }

type fakeBuzzer struct {
	tones []tone.Tone
	stops int
}

func (f *fakeBuzzer) Tone(t tone.Tone, _ uint32) { f.tones = append(f.tones, t) }
func (f *fakeBuzzer) Stop()                      { f.stops++ }
func (f *fakeBuzzer) UpdateVolume(uint32)        {}

func TestPlayWinsOverNext(t *testing.T) {
	tm := &fakeTimer{}
	bz := &fakeBuzzer{}
	p := New(tm, bz, melody.NewPlaylist(melody.HappyBirthday))
	p.Play()

	tm.play, tm.next = true, true
	p.HandlePlayEvent()
	if len(bz.tones) != 1 || p.State().Progress != 0 {
		t.Fatalf("after first dispatch tones=%v progress=%d", bz.tones, p.State().Progress)
	}
	if !tm.next {
		t.Fatal("next event consumed alongside play")
	}

	p.HandlePlayEvent()
	if p.State().Progress != 1 {
		t.Errorf("after second dispatch progress = %d, want 1", p.State().Progress)
	}
}

func TestSpuriousDispatch(t *testing.T) {
	tm := &fakeTimer{}
	bz := &fakeBuzzer{}
	p := New(tm, bz, melody.Default())
	p.Play()
	before := p.State()
	p.HandlePlayEvent()
	p.HandlePlayEvent()
	if p.State() != before || len(bz.tones) != 0 {
		t.Errorf("spurious dispatch changed state to %v, tones %v", p.State(), bz.tones)
	}
}

func TestDispatchWhileStoppedConsumesFlags(t *testing.T) {
	tm := &fakeTimer{play: true, next: true}
	bz := &fakeBuzzer{}
	p := New(tm, bz, melody.Default())
	p.HandlePlayEvent()
	if tm.play || tm.next {
		t.Error("flags left pending while stopped")
	}
	if len(bz.tones) != 0 {
		t.Error("tone played while stopped")
	}
}

func TestIntroDelayArmed(t *testing.T) {
	tm := &fakeTimer{}
	p := New(tm, &fakeBuzzer{}, melody.Default())
	p.Play()
	if len(tm.armedPlay) != 1 || tm.armedPlay[0] != 1_000_000 {
		t.Errorf("armed play = %v, want [1000000]", tm.armedPlay)
	}
	if tm.started != 1 {
		t.Errorf("timer started %d times, want 1", tm.started)
	}
}
