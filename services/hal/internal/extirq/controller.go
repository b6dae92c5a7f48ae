// services/hal/internal/extirq/controller.go
package extirq

import (
	"sync/atomic"

	"extirq-go/errcode"
)

const opConfigure = "extirq.configure"

// DefaultBanks covers ports A..G of the STM32F103 family.
const DefaultBanks = 7

// DefaultPriority is the single NVIC level used for every EXTI vector.
const DefaultPriority uint8 = 0

// Controller owns the callback table for the 16 EXTI lines and the
// hardware state that goes with it.
type Controller struct {
	hw    Hardware
	cs    Critical
	banks int
	prio  uint8

	slots registry

	delivered atomic.Uint32
	spurious  atomic.Uint32
}

type Option func(*Controller)

// WithBanks sets how many GPIO ports exist. Pins on higher banks are
// rejected with errcode.InvalidPin.
func WithBanks(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.banks = n
		}
	}
}

// WithPriority overrides the NVIC level shared by all EXTI vectors.
func WithPriority(p uint8) Option {
	return func(c *Controller) { c.prio = p }
}

func New(hw Hardware, cs Critical, opts ...Option) *Controller {
	c := &Controller{hw: hw, cs: cs, banks: DefaultBanks, prio: DefaultPriority}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configure arms pin p for mode m, or disarms it when m is Disabled.
//
// Arming fails with errcode.IRQConflict when the pin's line already holds a
// callback, whichever pin installed it; reconfigure by disarming first.
// The existing registration and hardware state are left untouched.
//
// Disarming is idempotent. It only acts when the line is free or owned by p,
// so disarming PB3 cannot tear down an interrupt armed on PA3.
func (c *Controller) Configure(p Pin, m Mode, cb Callback, ctx any) error {
	if !m.valid() {
		return &errcode.E{C: errcode.InvalidMode, Op: opConfigure, Msg: m.String()}
	}
	if !c.Valid(p) {
		return &errcode.E{C: errcode.InvalidPin, Op: opConfigure, Msg: p.String()}
	}
	r := Resolve(p)
	if m == Disabled {
		c.disarm(r)
		return nil
	}
	if cb == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: opConfigure, Msg: "nil callback"}
	}
	return c.arm(r, m, cb, ctx)
}

func (c *Controller) arm(r Route, m Mode, cb Callback, ctx any) error {
	defer enter(c.cs).exit()

	if c.slots[r.Line].armed() {
		return &errcode.E{C: errcode.IRQConflict, Op: opConfigure, Msg: ConflictReason}
	}
	c.slots.install(r.Line, r.Pin, cb, ctx)

	c.hw.Route(r.Selector, r.Bank)
	rising, falling := m.Edges()
	c.hw.SetEdges(r.Line, rising, falling)

	// An edge latched while the line was free belongs to nobody.
	c.hw.ClearPending(r.Line)
	c.hw.SetMask(r.Line, true)

	c.hw.SetPriority(r.Vector, c.prio)
	c.hw.EnableVector(r.Vector)
	return nil
}

func (c *Controller) disarm(r Route) {
	defer enter(c.cs).exit()

	if s := c.slots[r.Line]; s.armed() && s.owner != r.Pin {
		return
	}
	if !c.slots.siblingsArmed(r.Vector, r.Line) {
		c.hw.DisableVector(r.Vector)
	}
	c.hw.SetMask(r.Line, false)
	c.slots.clear(r.Line)
}

// Valid reports whether p lies on an existing bank.
func (c *Controller) Valid(p Pin) bool { return int(p.Bank()) < c.banks }

// Armed reports whether p currently owns its line.
func (c *Controller) Armed(p Pin) bool {
	if !c.Valid(p) {
		return false
	}
	defer enter(c.cs).exit()
	s := c.slots[Resolve(p).Line]
	return s.armed() && s.owner == p
}

// Owner returns the pin holding line l, if any.
func (c *Controller) Owner(l Line) (Pin, bool) {
	if l >= NumLines {
		return 0, false
	}
	defer enter(c.cs).exit()
	s := c.slots[l]
	return s.owner, s.armed()
}

// Stats counts callbacks delivered and pending flags dropped because their
// line had no callback.
type Stats struct {
	Delivered uint32
	Spurious  uint32
}

func (c *Controller) Stats() Stats {
	return Stats{Delivered: c.delivered.Load(), Spurious: c.spurious.Load()}
}
