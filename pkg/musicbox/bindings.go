package musicbox

import (
	"github.com/james-see/musicbox/pkg/button"
	"github.com/james-see/musicbox/pkg/player"
)

// apply maps a button event onto a player operation.
//
//	A click       play/pause     B click       next
//	A double      prev           B double      replay
//	A hold        volume down    B hold        volume up
//	3+ clicks on either button stop
func apply(p *player.Player, t Task, step uint32) {
	switch t.Event.Kind {
	case button.MultiClick:
		p.Stop()
	case button.Click:
		if t.Button == ButtonA {
			p.TogglePlay()
		} else {
			p.Next()
		}
	case button.DoubleClick:
		if t.Button == ButtonA {
			p.Prev()
		} else {
			p.Replay()
		}
	case button.LongPressDuring:
		if t.Button == ButtonA {
			p.VolumeSub(step)
		} else {
			p.VolumeAdd(step)
		}
	}
}
