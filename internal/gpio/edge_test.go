package gpio

import (
	"testing"

	"github.com/sweeney/grid-sync/internal/engine"
)

func TestEdgeDetectorBaseline(t *testing.T) {
	var d EdgeDetector
	// A button held during boot must not fire a phantom press.
	if presses := d.Detect(Buttons{P1Up: true}); presses != nil {
		t.Errorf("first sample is baseline, got presses %+v", presses)
	}
	// Still held: no edge.
	if presses := d.Detect(Buttons{P1Up: true}); presses != nil {
		t.Errorf("held button should not re-fire, got %+v", presses)
	}
	// Released and pressed again: one press.
	d.Detect(Buttons{})
	presses := d.Detect(Buttons{P1Up: true})
	if len(presses) != 1 {
		t.Fatalf("expected 1 press, got %d", len(presses))
	}
	if presses[0] != (Press{Player: engine.PlayerOne, Signal: engine.SignalUp}) {
		t.Errorf("unexpected press %+v", presses[0])
	}
}

func TestEdgeDetectorMapsAllButtons(t *testing.T) {
	var d EdgeDetector
	d.Detect(Buttons{})

	presses := d.Detect(Buttons{P1Up: true, P1Down: true, P2Up: true, P2Down: true})
	want := []Press{
		{Player: engine.PlayerOne, Signal: engine.SignalUp},
		{Player: engine.PlayerOne, Signal: engine.SignalDown},
		{Player: engine.PlayerTwo, Signal: engine.SignalUp},
		{Player: engine.PlayerTwo, Signal: engine.SignalDown},
	}
	if len(presses) != len(want) {
		t.Fatalf("expected %d presses, got %d", len(want), len(presses))
	}
	for i := range want {
		if presses[i] != want[i] {
			t.Errorf("press %d: got %+v, want %+v", i, presses[i], want[i])
		}
	}
}

func TestEdgeDetectorOnlyRisingEdges(t *testing.T) {
	var d EdgeDetector
	d.Detect(Buttons{P2Down: true})

	// Release fires nothing.
	if presses := d.Detect(Buttons{}); presses != nil {
		t.Errorf("release should not fire, got %+v", presses)
	}
	// Press fires once per edge across samples.
	total := 0
	script := []Buttons{{P2Down: true}, {P2Down: true}, {}, {P2Down: true}}
	for _, s := range script {
		total += len(d.Detect(s))
	}
	if total != 2 {
		t.Errorf("expected 2 presses across the script, got %d", total)
	}
}
