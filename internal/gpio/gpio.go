// Package gpio reads the exhibit's arcade buttons with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Buttons is one sample of the four button levels. true = pressed.
type Buttons struct {
	P1Up   bool
	P1Down bool
	P2Up   bool
	P2Down bool
}

// Reader reads the button states.
type Reader interface {
	// Read returns the logical button levels. The buttons are wired
	// active-high to 3.3V with the lines pulled down, so no inversion
	// is needed.
	Read() (Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinP1Up   = 5
	DefaultPinP1Down = 6
	DefaultPinP2Up   = 16
	DefaultPinP2Down = 26
)

// Pins names the four button lines for a reader.
type Pins struct {
	P1Up   int
	P1Down int
	P2Up   int
	P2Down int
}

// DefaultPins returns the shipped wiring.
func DefaultPins() Pins {
	return Pins{
		P1Up:   DefaultPinP1Up,
		P1Down: DefaultPinP1Down,
		P2Up:   DefaultPinP2Up,
		P2Down: DefaultPinP2Down,
	}
}
