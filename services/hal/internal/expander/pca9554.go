// services/hal/internal/expander/pca9554.go

// Package expander fans a PCA9554 I/O expander's shared INT output out to
// per-bit handlers. INT is wired to an EXTI pin; the interrupt only signals
// a goroutine, which reads the input port over I²C.
package expander

import (
	"context"
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"extirq-go/errcode"
	"extirq-go/services/hal/internal/halcore"
	"extirq-go/services/hal/internal/halerr"
	"extirq-go/types"
	"extirq-go/x/bitx"
)

// PCA9554 register map.
const (
	RegInput    = 0x00
	RegOutput   = 0x01
	RegPolarity = 0x02
	RegConfig   = 0x03
)

// NumBits is the width of the expander's port.
const NumBits = 8

const opWatch = "expander.watch"

// Handler receives a changed input bit and its new level.
type Handler func(bit uint8, level bool)

// PCA9554 is one expander on an I²C bus.
type PCA9554 struct {
	bus  drivers.I2C
	addr uint16

	intPin halcore.IRQPin
	sig    chan struct{}

	mu       sync.Mutex
	inputs   byte // direction cache, 1 = input
	last     byte
	handlers [NumBits]Handler

	signals atomic.Uint32
	reads   atomic.Uint32
}

func New(bus drivers.I2C, addr uint16) *PCA9554 {
	return &PCA9554{
		bus:    bus,
		addr:   addr,
		inputs: 0xFF, // power-on default
		sig:    make(chan struct{}, 1),
	}
}

// Open builds the expander described by cfg, arms its INT pin and takes the
// first input snapshot.
func Open(cfg types.Expander, buses halcore.I2CBusFactory, pins halcore.PinFactory) (*PCA9554, error) {
	if cfg.Bus == "" {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "expander.open", Msg: cfg.ID, Err: halerr.ErrMissingBusRef}
	}
	bus, ok := buses.ByID(cfg.Bus)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "expander.open", Msg: cfg.Bus, Err: halerr.ErrUnknownBus}
	}
	pin, ok := pins.ByNumber(cfg.IntPin)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "expander.open", Msg: cfg.ID, Err: halerr.ErrUnknownPin}
	}
	d := New(bus, cfg.Addr)
	if err := d.Configure(0xFF); err != nil {
		return nil, err
	}
	if err := d.Attach(pin); err != nil {
		return nil, err
	}
	return d, nil
}

// Configure writes the direction register. A set bit is an input.
func (d *PCA9554) Configure(inputs byte) error {
	if err := d.bus.Tx(d.addr, []byte{RegConfig, inputs}, nil); err != nil {
		return err
	}
	d.mu.Lock()
	d.inputs = inputs
	d.mu.Unlock()
	return nil
}

// ReadInput reads the input port. Reading also releases INT.
func (d *PCA9554) ReadInput() (byte, error) {
	var r [1]byte
	if err := d.bus.Tx(d.addr, []byte{RegInput}, r[:]); err != nil {
		return 0, err
	}
	d.reads.Add(1)
	return r[0], nil
}

// WriteOutput drives the output bits.
func (d *PCA9554) WriteOutput(v byte) error {
	return d.bus.Tx(d.addr, []byte{RegOutput, v}, nil)
}

// SetPolarity inverts the input bits set in mask, in the device.
func (d *PCA9554) SetPolarity(mask byte) error {
	return d.bus.Tx(d.addr, []byte{RegPolarity, mask}, nil)
}

// Watch installs h for bit. A nil h removes the handler.
func (d *PCA9554) Watch(bit uint8, h Handler) error {
	if bit >= NumBits {
		return &errcode.E{C: errcode.InvalidParams, Op: opWatch, Err: halerr.ErrExpanderBit}
	}
	d.mu.Lock()
	d.handlers[bit] = h
	d.mu.Unlock()
	return nil
}

// Attach arms pin on the falling edge of INT (active low), then records the
// current port state as the baseline. The read comes after arming: it
// releases INT, so a change from here on produces a fresh edge.
func (d *PCA9554) Attach(pin halcore.IRQPin) error {
	if err := pin.ConfigureInput(halcore.PullUp); err != nil {
		return err
	}
	if err := pin.SetIRQ(halcore.EdgeFalling, d.isr); err != nil {
		return err
	}
	v, err := d.ReadInput()
	if err != nil {
		_ = pin.ClearIRQ()
		return err
	}
	d.mu.Lock()
	d.last = v
	d.mu.Unlock()
	d.intPin = pin
	return nil
}

// isr runs in interrupt context: no bus traffic, just a coalescing signal.
func (d *PCA9554) isr() {
	select {
	case d.sig <- struct{}{}:
	default:
	}
	d.signals.Add(1)
}

// Run services INT signals until ctx is done.
func (d *PCA9554) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.sig:
			if err := d.Poll(); err != nil {
				println("[expander] read failed:", err.Error())
			}
		}
	}
}

// Poll reads the port and calls the handler of every input bit that changed
// since the previous read, lowest bit first.
func (d *PCA9554) Poll() error {
	v, err := d.ReadInput()
	if err != nil {
		return err
	}
	d.mu.Lock()
	changed := (v ^ d.last) & d.inputs
	d.last = v
	hs := d.handlers
	d.mu.Unlock()

	for b := uint8(0); b < NumBits; b++ {
		if !bitx.Has(changed, b) || hs[b] == nil {
			continue
		}
		hs[b](b, bitx.Has(v, b))
	}
	return nil
}

// Close disarms the INT pin.
func (d *PCA9554) Close() error {
	if d.intPin == nil {
		return nil
	}
	err := d.intPin.ClearIRQ()
	d.intPin = nil
	return err
}

// Signals counts INT interrupts; Reads counts input-port reads.
func (d *PCA9554) Signals() uint32 { return d.signals.Load() }
func (d *PCA9554) Reads() uint32   { return d.reads.Load() }
