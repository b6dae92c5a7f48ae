// services/hal/internal/platform/factories_host.go
//go:build !stm32f103

package platform

import (
	"sync"

	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"

	"tinygo.org/x/drivers"
)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C over a bank of 8-bit register
// devices: a write of [reg, v...] stores from reg onward, a write of [reg]
// followed by a read returns registers from reg onward.
type HostI2C struct {
	mu   sync.Mutex
	regs map[uint16]*[256]byte
	txs  int
}

func NewHostI2C() *HostI2C { return &HostI2C{regs: make(map[uint16]*[256]byte)} }

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txs++
	dev := h.dev(addr)
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for i, b := range w[1:] {
		dev[reg+byte(i)] = b
	}
	for i := range r {
		r[i] = dev[reg+byte(i)]
	}
	return nil
}

// Poke sets a device register as if the device had changed it.
func (h *HostI2C) Poke(addr uint16, reg, v byte) {
	h.mu.Lock()
	h.dev(addr)[reg] = v
	h.mu.Unlock()
}

// Peek reads a device register without a bus transaction.
func (h *HostI2C) Peek(addr uint16, reg byte) byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dev(addr)[reg]
}

// Transactions counts Tx calls.
func (h *HostI2C) Transactions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.txs
}

func (h *HostI2C) dev(addr uint16) *[256]byte {
	d, ok := h.regs[addr]
	if !ok {
		d = new([256]byte)
		h.regs[addr] = d
	}
	return d
}

type hostI2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *hostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// DefaultI2CFactory provides the process-wide host I²C buses "i2c1" and
// "i2c2", both *HostI2C.
func DefaultI2CFactory() halcore.I2CBusFactory { hostInit(); return hostBuses }

// ----------------------------- EXTI (host) -----------------------------------

var (
	hostOnce sync.Once
	hostSim  *SimEXTI
	hostCtrl *extirq.Controller
	hostSD   = &ShutdownLog{}

	hostBuses *hostI2CFactory
)

func hostInit() {
	hostOnce.Do(func() {
		hostSim, hostCtrl = NewSimController()
		hostBuses = &hostI2CFactory{
			buses: map[string]drivers.I2C{
				"i2c1": NewHostI2C(),
				"i2c2": NewHostI2C(),
			},
		}
	})
}

// HostSim exposes the simulator behind DefaultController so host tools can
// drive pin edges.
func HostSim() *SimEXTI { hostInit(); return hostSim }

// DefaultController returns the process-wide EXTI controller.
func DefaultController() *extirq.Controller { hostInit(); return hostCtrl }

// DefaultShutdown records shutdown reasons instead of halting.
func DefaultShutdown() extirq.Shutdown { return hostSD }

// DefaultPinFactory provides interrupt pins on the simulated EXTI.
func DefaultPinFactory() halcore.PinFactory {
	hostInit()
	return NewPinFactory(hostCtrl, hostSim, hostSD)
}

// ShutdownLog is a host Shutdown that logs and remembers each reason.
type ShutdownLog struct {
	mu      sync.Mutex
	reasons []string
}

func (s *ShutdownLog) TryShutdown(reason string) {
	println("[extirq] shutdown requested:", reason)
	s.mu.Lock()
	s.reasons = append(s.reasons, reason)
	s.mu.Unlock()
}

func (s *ShutdownLog) Reasons() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reasons...)
}
