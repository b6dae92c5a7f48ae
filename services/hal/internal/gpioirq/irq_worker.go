// services/hal/internal/gpioirq/irq_worker.go
package gpioirq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"extirq-go/services/hal/internal/halcore"
)

// GPIOEvent is delivered from the worker to the consumer.
type GPIOEvent struct {
	ID    string
	Pin   int
	Level int // 0/1 after inversion applied
	Edge  halcore.Edge
	TS    time.Time
}

// Worker moves EXTI callbacks out of interrupt context: the ISR side only
// samples the pin and does a non-blocking send.
type Worker struct {
	// Written by ISR; MUST NOT block the ISR:
	isrQ chan isrEvent
	// Consumed by the application:
	outQ    chan GPIOEvent
	stopped chan struct{}

	mu     sync.RWMutex
	inputs map[string]*watch // id -> watch

	drops atomic.Uint32 // ISR-side drops (isrQ full)
	lost  atomic.Uint32 // consumer-side drops (outQ full)
}

type isrEvent struct {
	id    string
	level bool // captured in ISR
}

type watch struct {
	id     string
	pin    halcore.IRQPin
	edge   halcore.Edge
	invert bool
}

func New(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Worker{
		isrQ:    make(chan isrEvent, isrBuf),
		outQ:    make(chan GPIOEvent, outBuf),
		stopped: make(chan struct{}),
		inputs:  map[string]*watch{},
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				w.handleISR(ev)
			}
		}
	}()
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.stopped }

func (w *Worker) Events() <-chan GPIOEvent { return w.outQ }

// RegisterInput arms pin for edge and returns a function that disarms it.
// An id may only be registered once at a time.
func (w *Worker) RegisterInput(id string, pin halcore.IRQPin, edge halcore.Edge, invert bool) (func(), error) {
	if edge == halcore.EdgeNone {
		return func() {}, nil
	}
	wh := &watch{
		id:     id,
		pin:    pin,
		edge:   edge,
		invert: invert,
	}

	w.mu.Lock()
	if _, dup := w.inputs[id]; dup {
		w.mu.Unlock()
		return nil, errDuplicate(id)
	}
	w.inputs[id] = wh
	w.mu.Unlock()

	// ISR handler: fast register read + non-blocking channel send.
	handler := func() {
		l := pin.Get()
		select {
		case w.isrQ <- isrEvent{id: id, level: l}:
		default:
			w.drops.Add(1) // protect ISR path
		}
	}
	if err := pin.SetIRQ(edge, handler); err != nil {
		w.mu.Lock()
		delete(w.inputs, id)
		w.mu.Unlock()
		return nil, err
	}

	return func() {
		w.mu.Lock()
		if cur, ok := w.inputs[id]; ok && cur == wh {
			_ = cur.pin.ClearIRQ()
			delete(w.inputs, id)
		}
		w.mu.Unlock()
	}, nil
}

func (w *Worker) handleISR(ev isrEvent) {
	w.mu.RLock()
	wh := w.inputs[ev.id]
	w.mu.RUnlock()
	if wh == nil {
		return
	}
	raw := ev.level
	if wh.invert {
		raw = !raw
	}

	// Edge classification. Every ISR event follows a real edge, so for
	// EdgeBoth the level sampled just after it names the direction; no
	// snapshot taken outside the ISR is needed.
	var e halcore.Edge
	if wh.edge == halcore.EdgeBoth {
		e = halcore.EdgeFalling
		if raw {
			e = halcore.EdgeRising
		}
	} else {
		// Only the configured edge reaches us; the sampled level may
		// already have moved on, so trust the configuration.
		e = wh.edge
		if wh.invert {
			e = flip(e)
		}
	}

	select {
	case w.outQ <- GPIOEvent{ID: ev.id, Pin: wh.pin.Number(), Level: boolToInt(raw), Edge: e, TS: time.Now()}:
	default:
		w.lost.Add(1)
	}
}

func (w *Worker) ISRDrops() uint32 { return w.drops.Load() }
func (w *Worker) Lost() uint32     { return w.lost.Load() }

func flip(e halcore.Edge) halcore.Edge {
	switch e {
	case halcore.EdgeRising:
		return halcore.EdgeFalling
	case halcore.EdgeFalling:
		return halcore.EdgeRising
	}
	return e
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
