// services/hal/internal/halcore/types.go
package halcore

import (
	"tinygo.org/x/drivers"
)

// ---- Buses ----

// I2CBusFactory injects configured I²C instances by id.
// Uses the TinyGo drivers.I2C interface to remain compatible on MCU builds.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	Get() bool
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends GPIOPin with interrupts.
// handler runs in interrupt context: it must be short and must not block.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies interrupt-capable pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

// Util
func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseEdge is the inverse of EdgeToString.
func ParseEdge(s string) (Edge, bool) {
	switch s {
	case "rising":
		return EdgeRising, true
	case "falling":
		return EdgeFalling, true
	case "both":
		return EdgeBoth, true
	case "none", "":
		return EdgeNone, true
	default:
		return EdgeNone, false
	}
}

// ParsePull maps "up", "down" and "none" to a Pull.
func ParsePull(s string) (Pull, bool) {
	switch s {
	case "up":
		return PullUp, true
	case "down":
		return PullDown, true
	case "none", "":
		return PullNone, true
	default:
		return PullNone, false
	}
}
