// services/hal/internal/platform/exti_host.go
//go:build !stm32f103

package platform

import (
	"sync"

	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"
	"extirq-go/x/bitx"
)

// SimEXTI simulates the STM32F1 EXTI, AFIO and NVIC blocks on a single
// core for host builds and tests. It implements extirq.Hardware and
// extirq.Critical.
//
// Interrupt delivery follows the hardware: an edge on a routed pin with its
// edge bit selected latches the line's pending flag; with the mask bit set
// the vector pends at the NVIC, and an enabled vector runs its handler as
// soon as interrupts are not disabled and no handler is already running.
// Drive it from one goroutine; register access itself is mutex-protected
// so other goroutines may read pin levels.
type SimEXTI struct {
	mu sync.Mutex

	imr, rtsr, ftsr, pr uint32
	exticr              [4]uint32
	afioClock           bool

	enabled  [extirq.NumVectors]bool
	nvicPend [extirq.NumVectors]bool
	prio     [extirq.NumVectors]uint8
	handlers [extirq.NumVectors]func()

	disabled bool
	inISR    bool

	levels map[extirq.Pin]bool
	pulls  map[extirq.Pin]halcore.Pull
}

func NewSim() *SimEXTI {
	return &SimEXTI{
		levels: make(map[extirq.Pin]bool),
		pulls:  make(map[extirq.Pin]halcore.Pull),
	}
}

// NewSimController returns a simulator with a controller bound to its
// vector table.
func NewSimController(opts ...extirq.Option) (*SimEXTI, *extirq.Controller) {
	s := NewSim()
	c := extirq.New(s, s, opts...)
	s.Attach(c)
	return s, c
}

// Attach installs c's handlers in the simulated vector table.
func (s *SimEXTI) Attach(c *extirq.Controller) {
	s.mu.Lock()
	for v := extirq.Vector(0); int(v) < extirq.NumVectors; v++ {
		s.handlers[v] = func() { c.HandleVector(v) }
	}
	s.mu.Unlock()
}

// ---- extirq.Critical ----

func (s *SimEXTI) Disable() extirq.State {
	s.mu.Lock()
	prev := s.disabled
	s.disabled = true
	s.mu.Unlock()
	if prev {
		return 1
	}
	return 0
}

func (s *SimEXTI) Restore(st extirq.State) {
	s.mu.Lock()
	s.disabled = st != 0
	s.mu.Unlock()
	s.deliver()
}

// ---- extirq.Hardware ----

func (s *SimEXTI) Pending(l extirq.Line) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bitx.Has(s.pr, uint8(l))
}

func (s *SimEXTI) ClearPending(l extirq.Line) {
	s.mu.Lock()
	s.pr = bitx.Clear(s.pr, l.Mask())
	s.mu.Unlock()
}

func (s *SimEXTI) SetMask(l extirq.Line, on bool) {
	s.mu.Lock()
	s.imr = bitx.Assign(s.imr, l.Mask(), on)
	s.request(l)
	s.mu.Unlock()
}

func (s *SimEXTI) SetEdges(l extirq.Line, rising, falling bool) {
	s.mu.Lock()
	s.rtsr = bitx.Assign(s.rtsr, l.Mask(), rising)
	s.ftsr = bitx.Assign(s.ftsr, l.Mask(), falling)
	s.mu.Unlock()
}

func (s *SimEXTI) Route(sel extirq.Selector, b extirq.Bank) {
	s.mu.Lock()
	s.afioClock = true
	s.exticr[sel.Reg] = bitx.Replace(s.exticr[sel.Reg], uint32(b), extirq.SelectorMask, sel.Shift)
	s.mu.Unlock()
}

func (s *SimEXTI) EnableVector(v extirq.Vector) {
	s.mu.Lock()
	s.enabled[v] = true
	s.mu.Unlock()
}

func (s *SimEXTI) DisableVector(v extirq.Vector) {
	s.mu.Lock()
	s.enabled[v] = false
	s.mu.Unlock()
}

func (s *SimEXTI) SetPriority(v extirq.Vector, prio uint8) {
	s.mu.Lock()
	s.prio[v] = prio
	s.mu.Unlock()
}

// ClearVector drops the NVIC pending bit. The EXTI request is level
// sensitive, so a line still pending and unmasked pends the vector again.
func (s *SimEXTI) ClearVector(v extirq.Vector) {
	s.mu.Lock()
	s.nvicPend[v] = s.pr&s.imr&v.Mask() != 0
	s.mu.Unlock()
}

// ---- stimulus ----

// Drive sets the electrical level of pin p and runs the edge detector.
// Handlers run synchronously unless interrupts are disabled.
func (s *SimEXTI) Drive(p extirq.Pin, level bool) {
	s.mu.Lock()
	old := s.levels[p]
	s.levels[p] = level
	if old != level {
		l := extirq.Resolve(p).Line
		sel := extirq.SelectorOf(l)
		routed := extirq.Bank(bitx.Field(s.exticr[sel.Reg], extirq.SelectorMask, sel.Shift))
		edgeOn := (level && bitx.Has(s.rtsr, uint8(l))) || (!level && bitx.Has(s.ftsr, uint8(l)))
		if routed == p.Bank() && edgeOn {
			s.pr = bitx.Set(s.pr, l.Mask())
			s.request(l)
		}
	}
	s.mu.Unlock()
	s.deliver()
}

// Pulse drives p to level and back.
func (s *SimEXTI) Pulse(p extirq.Pin, level bool) {
	s.Drive(p, level)
	s.Drive(p, !level)
}

// SetPending latches line l's pending flag directly, as if an edge had been
// seen, regardless of routing and edge selection.
func (s *SimEXTI) SetPending(l extirq.Line) {
	s.mu.Lock()
	s.pr = bitx.Set(s.pr, l.Mask())
	s.request(l)
	s.mu.Unlock()
	s.deliver()
}

// Level returns the last driven level of p, or the idle level given by its
// pull when never driven.
func (s *SimEXTI) Level(p extirq.Pin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.levels[p]; ok {
		return v
	}
	return s.pulls[p] == halcore.PullUp
}

// SetPull records the input pull; an undriven pull-up pin idles high.
func (s *SimEXTI) SetPull(p extirq.Pin, pull halcore.Pull) {
	s.mu.Lock()
	s.pulls[p] = pull
	if _, driven := s.levels[p]; !driven {
		s.levels[p] = pull == halcore.PullUp
	}
	s.mu.Unlock()
}

// ---- inspection ----

// Regs is a snapshot of the simulated registers.
type Regs struct {
	IMR, RTSR, FTSR, PR uint32
	EXTICR              [4]uint32
	AFIOClock           bool
	Enabled             [extirq.NumVectors]bool
	Priority            [extirq.NumVectors]uint8
}

func (s *SimEXTI) Regs() Regs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Regs{
		IMR:       s.imr,
		RTSR:      s.rtsr,
		FTSR:      s.ftsr,
		PR:        s.pr,
		EXTICR:    s.exticr,
		AFIOClock: s.afioClock,
		Enabled:   s.enabled,
		Priority:  s.prio,
	}
}

// Routed returns the bank connected to line l.
func (r Regs) Routed(l extirq.Line) extirq.Bank {
	sel := extirq.SelectorOf(l)
	return extirq.Bank(bitx.Field(r.EXTICR[sel.Reg], extirq.SelectorMask, sel.Shift))
}

// ---- internals ----

// request pends l's vector if the line is pending and unmasked. mu held.
func (s *SimEXTI) request(l extirq.Line) {
	if bitx.Has(s.pr&s.imr, uint8(l)) {
		s.nvicPend[extirq.VectorOf(l)] = true
	}
}

// next picks the pending enabled vector to run: lowest priority value,
// then lowest vector number. mu held.
func (s *SimEXTI) next() (extirq.Vector, bool) {
	best, found := extirq.Vector(0), false
	for v := extirq.Vector(0); int(v) < extirq.NumVectors; v++ {
		if !s.enabled[v] || !s.nvicPend[v] {
			continue
		}
		if !found || s.prio[v] < s.prio[best] {
			best, found = v, true
		}
	}
	return best, found
}

// deliver runs pending handlers back to back. Handlers never nest: all
// EXTI vectors share one priority level.
func (s *SimEXTI) deliver() {
	for {
		s.mu.Lock()
		if s.disabled || s.inISR {
			s.mu.Unlock()
			return
		}
		v, ok := s.next()
		if !ok {
			s.mu.Unlock()
			return
		}
		s.nvicPend[v] = false
		h := s.handlers[v]
		s.inISR = true
		s.mu.Unlock()

		if h != nil {
			h()
		}

		s.mu.Lock()
		s.inISR = false
		s.mu.Unlock()
	}
}

// ---- pinIO ----

func (s *SimEXTI) configureInput(p extirq.Pin, pull halcore.Pull) { s.SetPull(p, pull) }
func (s *SimEXTI) level(p extirq.Pin) bool                         { return s.Level(p) }
