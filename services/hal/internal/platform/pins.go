// services/hal/internal/platform/pins.go
package platform

import (
	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"
)

// pinIO is the GPIO side of an interrupt pin. The interrupt side always
// goes through the EXTI controller.
type pinIO interface {
	configureInput(p extirq.Pin, pull halcore.Pull)
	level(p extirq.Pin) bool
}

// EXTIPinFactory hands out halcore.IRQPin values backed by one controller.
type EXTIPinFactory struct {
	ctrl *extirq.Controller
	io   pinIO
	sd   extirq.Shutdown
}

// NewPinFactory builds a factory over ctrl. sd is called when a pin's line
// is already claimed; nil leaves conflicts as plain errors.
func NewPinFactory(ctrl *extirq.Controller, io pinIO, sd extirq.Shutdown) *EXTIPinFactory {
	return &EXTIPinFactory{ctrl: ctrl, io: io, sd: sd}
}

func (f *EXTIPinFactory) ByNumber(n int) (halcore.IRQPin, bool) {
	if n < 0 || n > 0xFFFF || !f.ctrl.Valid(extirq.Pin(n)) {
		return nil, false
	}
	return &irqPin{n: n, pin: extirq.Pin(n), f: f}, true
}

type irqPin struct {
	n   int
	pin extirq.Pin
	f   *EXTIPinFactory
}

func (p *irqPin) ConfigureInput(pull halcore.Pull) error {
	p.f.io.configureInput(p.pin, pull)
	return nil
}

func (p *irqPin) Get() bool   { return p.f.io.level(p.pin) }
func (p *irqPin) Number() int { return p.n }

// SetIRQ arms the pin's EXTI line. handler runs in interrupt context.
func (p *irqPin) SetIRQ(edge halcore.Edge, handler func()) error {
	if edge == halcore.EdgeNone || handler == nil {
		return p.ClearIRQ()
	}
	return extirq.ConfigureOrShutdown(p.f.ctrl, p.f.sd, p.pin, extirq.ModeFromEdge(edge), callHandler, handler)
}

func (p *irqPin) ClearIRQ() error {
	return p.f.ctrl.Configure(p.pin, extirq.Disabled, nil, nil)
}

// callHandler runs a HAL handler stored as the line's context, so arming
// does not allocate a closure per pin.
func callHandler(ctx any) { ctx.(func())() }
