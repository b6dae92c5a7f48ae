// services/hal/internal/extirq/line.go
package extirq

// NumLines is the number of EXTI lines, one per pin offset within a bank.
const NumLines = 16

// PinsPerBank is the width of a GPIO port.
const PinsPerBank = 16

// Pin is a dense GPIO identifier: bank*16 + offset (PA0 = 0, PB0 = 16, ...).
type Pin uint16

// Bank is a GPIO port index (A = 0).
type Bank uint8

func (p Pin) Bank() Bank    { return Bank(p / PinsPerBank) }
func (p Pin) Offset() uint8 { return uint8(p % PinsPerBank) }

// String renders the pin as a port label, e.g. PC13.
func (p Pin) String() string {
	port := byte('?')
	if p.Bank() < 26 {
		port = p.Bank().Letter()
	}
	b := []byte{'P', port}
	o := p.Offset()
	if o >= 10 {
		b = append(b, '1')
		o -= 10
	}
	return string(append(b, '0'+o))
}

// Letter is the port name used in pin labels (PA3, PC13).
func (b Bank) Letter() byte { return 'A' + byte(b) }

// Pin returns the pin at offset o of bank b.
func (b Bank) Pin(o uint8) Pin { return Pin(b)*PinsPerBank + Pin(o%PinsPerBank) }

// Line is one of the 16 edge-detection lines. Values are produced by
// Resolve; index the callback table only through a Line.
type Line uint8

// Mask is the line's bit in the EXTI IMR/RTSR/FTSR/PR registers.
func (l Line) Mask() uint32 { return 1 << l }

// Vector is an interrupt-controller entry point serving one or more lines.
type Vector uint8

const (
	EXTI0 Vector = iota
	EXTI1
	EXTI2
	EXTI3
	EXTI4
	EXTI9_5
	EXTI15_10
)

// NumVectors is the number of EXTI entry points in the vector table.
const NumVectors = int(EXTI15_10) + 1

var vectorNames = [NumVectors]string{"EXTI0", "EXTI1", "EXTI2", "EXTI3", "EXTI4", "EXTI9_5", "EXTI15_10"}

func (v Vector) String() string {
	if int(v) < len(vectorNames) {
		return vectorNames[v]
	}
	return "EXTI?"
}

// First and Last bound the contiguous line range a vector serves.
func (v Vector) First() Line {
	switch v {
	case EXTI9_5:
		return 5
	case EXTI15_10:
		return 10
	default:
		return Line(v)
	}
}

func (v Vector) Last() Line {
	switch v {
	case EXTI9_5:
		return 9
	case EXTI15_10:
		return 15
	default:
		return Line(v)
	}
}

// Lines returns the lines served by v in ascending order.
func (v Vector) Lines() []Line {
	out := make([]Line, 0, int(v.Last()-v.First())+1)
	for l := v.First(); l <= v.Last(); l++ {
		out = append(out, l)
	}
	return out
}

// Shared reports whether several lines multiplex onto v.
func (v Vector) Shared() bool { return v.First() != v.Last() }

// Mask covers every line of v.
func (v Vector) Mask() uint32 {
	var m uint32
	for l := v.First(); l <= v.Last(); l++ {
		m |= l.Mask()
	}
	return m
}

// VectorOf returns the vector that services line l.
func VectorOf(l Line) Vector {
	switch {
	case l <= 4:
		return Vector(l)
	case l <= 9:
		return EXTI9_5
	default:
		return EXTI15_10
	}
}

// Selector locates the routing field (AFIO_EXTICRx.EXTIy) that connects a
// line to one bank. Reg is the EXTICR index (0..3), the field is 4 bits wide
// at Shift.
type Selector struct {
	Reg   uint8
	Shift uint8
}

// SelectorMask is the width of one routing field.
const SelectorMask = 0xF

// SelectorOf returns the routing field for line l.
func SelectorOf(l Line) Selector {
	return Selector{Reg: uint8(l) / 4, Shift: (uint8(l) % 4) * 4}
}

// Route is everything the hardware needs to connect one pin.
type Route struct {
	Pin      Pin
	Bank     Bank
	Line     Line
	Vector   Vector
	Selector Selector
}

// Resolve maps a pin to its line, vector and routing field.
// It has no side effects; bank validity is checked by the Controller.
func Resolve(p Pin) Route {
	l := Line(p.Offset())
	return Route{
		Pin:      p,
		Bank:     p.Bank(),
		Line:     l,
		Vector:   VectorOf(l),
		Selector: SelectorOf(l),
	}
}
