package extirq

import "extirq-go/services/hal/internal/halcore"

// Mode selects which edges arm a line. Rising and falling are independent
// register bits; RisingFalling sets both.
type Mode uint8

const (
	Disabled Mode = iota
	Rising
	Falling
	RisingFalling
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	case RisingFalling:
		return "rising_falling"
	default:
		return "invalid"
	}
}

// Edges reports the edge-select bits for m.
func (m Mode) Edges() (rising, falling bool) {
	switch m {
	case Rising:
		return true, false
	case Falling:
		return false, true
	case RisingFalling:
		return true, true
	default:
		return false, false
	}
}

func (m Mode) valid() bool { return m <= RisingFalling }

// ModeFromEdge converts the HAL edge selection.
func ModeFromEdge(e halcore.Edge) Mode {
	switch e {
	case halcore.EdgeRising:
		return Rising
	case halcore.EdgeFalling:
		return Falling
	case halcore.EdgeBoth:
		return RisingFalling
	default:
		return Disabled
	}
}
