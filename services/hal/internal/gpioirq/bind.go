package gpioirq

import (
	"extirq-go/errcode"
	"extirq-go/services/hal/internal/halcore"
	"extirq-go/services/hal/internal/halerr"
	"extirq-go/types"
)

const opBind = "gpioirq.bind"

func errDuplicate(id string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: opBind, Msg: id, Err: halerr.ErrDuplicateID}
}

// Bind configures and arms every input of cfg. If one fails, the inputs
// armed before it are released and the error names the failing id.
// The returned function disarms everything Bind armed.
func (w *Worker) Bind(cfg types.EXTIConfig, pins halcore.PinFactory) (func(), error) {
	var cancels []func()
	release := func() {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
	}
	for _, in := range cfg.Inputs {
		cancel, err := w.bindOne(in, pins)
		if err != nil {
			release()
			return nil, err
		}
		cancels = append(cancels, cancel)
	}
	return release, nil
}

func (w *Worker) bindOne(in types.EXTIInput, pins halcore.PinFactory) (func(), error) {
	edge, ok := halcore.ParseEdge(in.Edge)
	if !ok {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: opBind, Msg: in.ID, Err: halerr.ErrInvalidEdge}
	}
	pull, ok := halcore.ParsePull(in.Pull)
	if !ok {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: opBind, Msg: in.ID, Err: halerr.ErrInvalidPull}
	}
	pin, ok := pins.ByNumber(in.Pin)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: opBind, Msg: in.ID, Err: halerr.ErrUnknownPin}
	}
	if err := pin.ConfigureInput(pull); err != nil {
		return nil, err
	}
	return w.RegisterInput(in.ID, pin, edge, in.Invert)
}
