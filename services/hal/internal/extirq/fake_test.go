package extirq

import "testing"

// fakeCS counts nesting depth; interrupt context is simulated by the tests
// calling HandleVector directly.
type fakeCS struct {
	depth int
	max   int
}

func (c *fakeCS) Disable() State {
	prev := c.depth
	c.depth++
	if c.depth > c.max {
		c.max = c.depth
	}
	return State(prev)
}

func (c *fakeCS) Restore(s State) { c.depth = int(s) }

// fakeHW is a register file with the STM32 EXTI/AFIO/NVIC shape. Every
// write records whether it happened inside the critical section.
type fakeHW struct {
	cs *fakeCS

	imr, rtsr, ftsr, pr uint32
	exticr              [4]uint32
	enabled             [NumVectors]bool
	prio                [NumVectors]uint8
	vecCleared          [NumVectors]int

	writes       int
	unguardedOps int
	onClearPend  func(l Line)
}

func newFake() (*fakeHW, *fakeCS) {
	cs := &fakeCS{}
	return &fakeHW{cs: cs}, cs
}

func (h *fakeHW) note() {
	h.writes++
	if h.cs.depth == 0 {
		h.unguardedOps++
	}
}

func (h *fakeHW) Pending(l Line) bool { return h.pr&l.Mask() != 0 }

func (h *fakeHW) ClearPending(l Line) {
	h.note()
	h.pr &^= l.Mask()
	if h.onClearPend != nil {
		h.onClearPend(l)
	}
}

func (h *fakeHW) SetMask(l Line, on bool) {
	h.note()
	if on {
		h.imr |= l.Mask()
	} else {
		h.imr &^= l.Mask()
	}
}

func (h *fakeHW) SetEdges(l Line, rising, falling bool) {
	h.note()
	h.rtsr &^= l.Mask()
	h.ftsr &^= l.Mask()
	if rising {
		h.rtsr |= l.Mask()
	}
	if falling {
		h.ftsr |= l.Mask()
	}
}

func (h *fakeHW) Route(sel Selector, b Bank) {
	h.note()
	h.exticr[sel.Reg] = (h.exticr[sel.Reg] &^ (SelectorMask << sel.Shift)) | uint32(b)<<sel.Shift
}

func (h *fakeHW) routed(l Line) Bank {
	sel := SelectorOf(l)
	return Bank((h.exticr[sel.Reg] >> sel.Shift) & SelectorMask)
}

func (h *fakeHW) EnableVector(v Vector)            { h.note(); h.enabled[v] = true }
func (h *fakeHW) DisableVector(v Vector)           { h.note(); h.enabled[v] = false }
func (h *fakeHW) SetPriority(v Vector, prio uint8) { h.note(); h.prio[v] = prio }
func (h *fakeHW) ClearVector(v Vector)             { h.note(); h.vecCleared[v]++ }

// raise latches line l's pending flag as the edge detector would.
func (h *fakeHW) raise(l Line) { h.pr |= l.Mask() }

type hits struct {
	n   int
	ctx []any
}

func (h *hits) cb(ctx any) {
	h.n++
	h.ctx = append(h.ctx, ctx)
}

func mustConfigure(t *testing.T, c *Controller, p Pin, m Mode, cb Callback, ctx any) {
	t.Helper()
	if err := c.Configure(p, m, cb, ctx); err != nil {
		t.Fatalf("Configure(%s, %s): %v", p, m, err)
	}
}
