package gpio

import "github.com/sweeney/grid-sync/internal/engine"

// Press is a button press edge mapped to a player signal.
type Press struct {
	Player engine.Player
	Signal engine.Signal
}

// EdgeDetector turns successive level samples into press events. Only
// rising edges count; a held button produces a single press. The first
// sample is taken as baseline so a button stuck down at boot does not fire
// a phantom press.
type EdgeDetector struct {
	prev   Buttons
	primed bool
}

// Detect compares the sample against the previous one and returns presses
// for each button that went down, in P1 up/down, P2 up/down order.
func (d *EdgeDetector) Detect(b Buttons) []Press {
	if !d.primed {
		d.prev = b
		d.primed = true
		return nil
	}

	var presses []Press
	if b.P1Up && !d.prev.P1Up {
		presses = append(presses, Press{Player: engine.PlayerOne, Signal: engine.SignalUp})
	}
	if b.P1Down && !d.prev.P1Down {
		presses = append(presses, Press{Player: engine.PlayerOne, Signal: engine.SignalDown})
	}
	if b.P2Up && !d.prev.P2Up {
		presses = append(presses, Press{Player: engine.PlayerTwo, Signal: engine.SignalUp})
	}
	if b.P2Down && !d.prev.P2Down {
		presses = append(presses, Press{Player: engine.PlayerTwo, Signal: engine.SignalDown})
	}
	d.prev = b
	return presses
}
