// services/hal/internal/platform/factories_stm32f103.go
//go:build stm32f103

package platform

import (
	"device/arm"
	"device/stm32"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"

	"tinygo.org/x/drivers"

	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"
)

// -----------------------------------------------------------------------------
// Defaults used on STM32F103 boards (Blue Pill and friends)
// -----------------------------------------------------------------------------

// DefaultI2CFactory configures I2C1 on its default pins (PB6/PB7) at 400 kHz.
func DefaultI2CFactory() halcore.I2CBusFactory {
	f := &stm32I2CFactory{buses: make(map[string]drivers.I2C)}
	b := machine.I2C0
	_ = b.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})
	f.buses["i2c1"] = b
	return f
}

type stm32I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *stm32I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ---- EXTI ----

var ctrl = extirq.New(stm32EXTI{}, stm32Critical{}, extirq.WithBanks(extirq.DefaultBanks))

// Vector table entries. interrupt.New needs constant IRQ numbers, so the
// seven EXTI vectors are spelled out.
var vectors = [extirq.NumVectors]interrupt.Interrupt{
	interrupt.New(stm32.IRQ_EXTI0, func(interrupt.Interrupt) { ctrl.HandleEXTI0() }),
	interrupt.New(stm32.IRQ_EXTI1, func(interrupt.Interrupt) { ctrl.HandleEXTI1() }),
	interrupt.New(stm32.IRQ_EXTI2, func(interrupt.Interrupt) { ctrl.HandleEXTI2() }),
	interrupt.New(stm32.IRQ_EXTI3, func(interrupt.Interrupt) { ctrl.HandleEXTI3() }),
	interrupt.New(stm32.IRQ_EXTI4, func(interrupt.Interrupt) { ctrl.HandleEXTI4() }),
	interrupt.New(stm32.IRQ_EXTI9_5, func(interrupt.Interrupt) { ctrl.HandleEXTI9_5() }),
	interrupt.New(stm32.IRQ_EXTI15_10, func(interrupt.Interrupt) { ctrl.HandleEXTI15_10() }),
}

var irqNums = [extirq.NumVectors]uint32{
	stm32.IRQ_EXTI0, stm32.IRQ_EXTI1, stm32.IRQ_EXTI2, stm32.IRQ_EXTI3, stm32.IRQ_EXTI4,
	stm32.IRQ_EXTI9_5, stm32.IRQ_EXTI15_10,
}

var exticr = [4]*volatile.Register32{
	&stm32.AFIO.EXTICR1, &stm32.AFIO.EXTICR2, &stm32.AFIO.EXTICR3, &stm32.AFIO.EXTICR4,
}

type stm32Critical struct{}

func (stm32Critical) Disable() extirq.State  { return extirq.State(interrupt.Disable()) }
func (stm32Critical) Restore(s extirq.State) { interrupt.Restore(interrupt.State(s)) }

type stm32EXTI struct{}

func (stm32EXTI) Pending(l extirq.Line) bool { return stm32.EXTI.PR.HasBits(l.Mask()) }

// PR is write-one-to-clear.
func (stm32EXTI) ClearPending(l extirq.Line) { stm32.EXTI.PR.Set(l.Mask()) }

func (stm32EXTI) SetMask(l extirq.Line, on bool) {
	if on {
		stm32.EXTI.IMR.SetBits(l.Mask())
	} else {
		stm32.EXTI.IMR.ClearBits(l.Mask())
	}
}

func (stm32EXTI) SetEdges(l extirq.Line, rising, falling bool) {
	if rising {
		stm32.EXTI.RTSR.SetBits(l.Mask())
	} else {
		stm32.EXTI.RTSR.ClearBits(l.Mask())
	}
	if falling {
		stm32.EXTI.FTSR.SetBits(l.Mask())
	} else {
		stm32.EXTI.FTSR.ClearBits(l.Mask())
	}
}

func (stm32EXTI) Route(sel extirq.Selector, b extirq.Bank) {
	stm32.RCC.APB2ENR.SetBits(stm32.RCC_APB2ENR_AFIOEN)
	_ = stm32.RCC.APB2ENR.Get() // wait for the clock before touching AFIO
	exticr[sel.Reg].ReplaceBits(uint32(b), extirq.SelectorMask, sel.Shift)
}

func (stm32EXTI) EnableVector(v extirq.Vector)  { vectors[v].Enable() }
func (stm32EXTI) DisableVector(v extirq.Vector) { arm.DisableIRQ(irqNums[v]) }

func (stm32EXTI) SetPriority(v extirq.Vector, prio uint8) { vectors[v].SetPriority(prio) }

func (stm32EXTI) ClearVector(v extirq.Vector) {
	n := irqNums[v]
	arm.NVIC.ICPR[n>>5].Set(1 << (n & 0x1F))
}

// DefaultController returns the controller wired into the vector table.
func DefaultController() *extirq.Controller { return ctrl }

// DefaultShutdown halts the core after reporting the reason.
func DefaultShutdown() extirq.Shutdown { return haltShutdown{} }

type haltShutdown struct{}

func (haltShutdown) TryShutdown(reason string) {
	interrupt.Disable()
	println("[extirq] shutdown:", reason)
	stm32.EXTI.IMR.Set(0)
	for {
		arm.Asm("wfi")
	}
}

// DefaultPinFactory maps numbers to machine.Pin (PA0 = 0, PB0 = 16, ...),
// with interrupts routed through the EXTI controller.
func DefaultPinFactory() halcore.PinFactory {
	return NewPinFactory(ctrl, stm32PinIO{}, haltShutdown{})
}

type stm32PinIO struct{}

func (stm32PinIO) configureInput(p extirq.Pin, pull halcore.Pull) {
	mode := machine.PinInput
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	}
	machine.Pin(p).Configure(machine.PinConfig{Mode: mode})
}

func (stm32PinIO) level(p extirq.Pin) bool { return machine.Pin(p).Get() }
