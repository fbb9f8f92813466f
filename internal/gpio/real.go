//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [4]*gpiocdev.Line
}

// NewRealReader creates a button reader for the exhibit's Raspberry Pi.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	names := [4]string{"P1 up", "P1 down", "P2 up", "P2 down"}
	offsets := [4]int{pins.P1Up, pins.P1Down, pins.P2Up, pins.P2Down}
	for i, offset := range offsets {
		// Pull-down so an unplugged button harness reads released, not
		// floating.
		line, err := chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", names[i], offset, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read returns the logical button levels. Active-high wiring: raw 1 = pressed.
func (r *RealReader) Read() (Buttons, error) {
	var vals [4]bool
	names := [4]string{"P1 up", "P1 down", "P2 up", "P2 down"}
	for i, line := range r.lines {
		raw, err := line.Value()
		if err != nil {
			return Buttons{}, fmt.Errorf("read %s pin: %w", names[i], err)
		}
		vals[i] = raw != 0
	}
	return Buttons{P1Up: vals[0], P1Down: vals[1], P2Up: vals[2], P2Down: vals[3]}, nil
}

// Close releases GPIO resources. Pins are reconfigured to input with
// pull-down (the Pi boot default) before closing so a restart sees the same
// line state the kernel boots with.
func (r *RealReader) Close() error {
	var errs []error
	for _, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
