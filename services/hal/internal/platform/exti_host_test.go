//go:build !stm32f103

package platform

import (
	"errors"
	"testing"

	"extirq-go/errcode"
	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"
)

func TestSimEndToEndRisingOnPC5(t *testing.T) {
	sim, c := NewSimController()
	ctx := new(int)
	var calls int
	cb := func(got any) {
		if got != ctx {
			t.Errorf("callback context = %v", got)
		}
		calls++
	}

	// Pin 37 = PC5: line 5, shared vector EXTI9_5, EXTICR2 bits 4..7.
	if err := c.Configure(37, extirq.Rising, cb, ctx); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	r := sim.Regs()
	if !r.AFIOClock {
		t.Fatal("AFIO clock not enabled before routing")
	}
	if r.Routed(5) != 2 || r.EXTICR[1] != 0x20 {
		t.Fatalf("EXTICR = %#x, line 5 routed to %d", r.EXTICR, r.Routed(5))
	}
	if r.IMR != 1<<5 || r.RTSR != 1<<5 || r.FTSR != 0 {
		t.Fatalf("IMR/RTSR/FTSR = %#x/%#x/%#x", r.IMR, r.RTSR, r.FTSR)
	}
	if !r.Enabled[extirq.EXTI9_5] {
		t.Fatal("EXTI9_5 not enabled")
	}

	sim.Drive(37, true)
	if calls != 1 {
		t.Fatalf("calls = %d after rising edge", calls)
	}
	if sim.Regs().PR != 0 {
		t.Fatal("pending flag not cleared")
	}
	sim.Drive(37, false) // falling: not selected
	if calls != 1 {
		t.Fatalf("falling edge delivered")
	}

	if err := c.Configure(37, extirq.Disabled, nil, nil); err != nil {
		t.Fatalf("disarm: %v", err)
	}
	sim.SetPending(5)
	if calls != 1 {
		t.Fatal("callback ran after disarm")
	}
	if sim.Regs().Enabled[extirq.EXTI9_5] {
		t.Fatal("EXTI9_5 still enabled with no armed line")
	}
}

func TestSimWrongBankDoesNotFire(t *testing.T) {
	sim, c := NewSimController()
	var calls int
	if err := c.Configure(37, extirq.Rising, func(any) { calls++ }, nil); err != nil {
		t.Fatal(err)
	}
	sim.Drive(5, true)  // PA5 shares line 5 but is not routed
	sim.Drive(21, true) // PB5
	if calls != 0 {
		t.Fatalf("unrouted pins fired %d times", calls)
	}
}

func TestSimEdgeDuringCriticalSectionIsDeferred(t *testing.T) {
	sim, c := NewSimController()
	var calls int
	if err := c.Configure(3, extirq.Falling, func(any) { calls++ }, nil); err != nil {
		t.Fatal(err)
	}
	sim.Drive(3, true)

	st := sim.Disable()
	sim.Drive(3, false)
	if calls != 0 {
		t.Fatal("delivered with interrupts disabled")
	}
	sim.Restore(st)
	if calls != 1 {
		t.Fatalf("calls = %d after restore", calls)
	}
}

func TestSimSharedVectorServicesBothLines(t *testing.T) {
	sim, c := NewSimController()
	var order []int
	_ = c.Configure(10, extirq.Rising, func(any) { order = append(order, 10) }, nil)
	_ = c.Configure(47, extirq.Rising, func(any) { order = append(order, 15) }, nil) // PC15

	st := sim.Disable()
	sim.Drive(47, true)
	sim.Drive(10, true)
	sim.Restore(st)

	if len(order) != 2 || order[0] != 10 || order[1] != 15 {
		t.Fatalf("service order = %v", order)
	}
}

func TestPinFactoryConflictRequestsShutdown(t *testing.T) {
	sim, c := NewSimController()
	log := &ShutdownLog{}
	pins := NewPinFactory(c, sim, log)

	a, ok := pins.ByNumber(12) // PA12
	if !ok {
		t.Fatal("PA12 not available")
	}
	b, _ := pins.ByNumber(28) // PB12, same line
	if err := a.SetIRQ(halcore.EdgeRising, func() {}); err != nil {
		t.Fatalf("first SetIRQ: %v", err)
	}
	err := b.SetIRQ(halcore.EdgeFalling, func() {})
	if !errors.Is(err, errcode.IRQConflict) {
		t.Fatalf("second SetIRQ = %v", err)
	}
	if rs := log.Reasons(); len(rs) != 1 || rs[0] != extirq.ConflictReason {
		t.Fatalf("shutdown reasons = %q", rs)
	}
	if owner, ok := c.Owner(12); !ok || owner != 12 {
		t.Fatalf("owner = %v, want PA12", owner)
	}

	// The losing pin cannot disarm the winner.
	_ = b.ClearIRQ()
	if !c.Armed(12) {
		t.Fatal("non-owner ClearIRQ disarmed the line")
	}
}

func TestPinFactoryLevelsAndBounds(t *testing.T) {
	sim, c := NewSimController(extirq.WithBanks(3))
	pins := NewPinFactory(c, sim, nil)

	if _, ok := pins.ByNumber(48); ok {
		t.Fatal("pin in bank D accepted with three banks")
	}
	if _, ok := pins.ByNumber(-1); ok {
		t.Fatal("negative pin accepted")
	}

	p, _ := pins.ByNumber(45)
	if err := p.ConfigureInput(halcore.PullUp); err != nil {
		t.Fatal(err)
	}
	if !p.Get() {
		t.Fatal("pull-up input idles low")
	}
	sim.Drive(45, false)
	if p.Get() || p.Number() != 45 {
		t.Fatalf("Get=%v Number=%d", p.Get(), p.Number())
	}
}

func TestHostI2CRegisterDevice(t *testing.T) {
	h := NewHostI2C()
	if err := h.Tx(0x20, []byte{0x01, 0xAA, 0x55}, nil); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 2)
	if err := h.Tx(0x20, []byte{0x01}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0xAA || r[1] != 0x55 {
		t.Fatalf("read back % x", r)
	}
	if h.Peek(0x21, 0x01) != 0 {
		t.Fatal("devices share registers")
	}
	if h.Transactions() != 2 {
		t.Fatalf("Transactions = %d", h.Transactions())
	}
}
