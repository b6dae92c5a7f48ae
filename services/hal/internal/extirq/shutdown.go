package extirq

import (
	"errors"

	"extirq-go/errcode"
)

// ConflictReason is the shutdown reason for a line claimed twice.
const ConflictReason = "External interrupt conflict"

// Shutdown is the system's fatal-error facility. Whether it halts, resets
// or enters a safe mode is up to the implementation; it may not return.
type Shutdown interface {
	TryShutdown(reason string)
}

// ShutdownFunc adapts a function to Shutdown.
type ShutdownFunc func(reason string)

func (f ShutdownFunc) TryShutdown(reason string) { f(reason) }

// ConfigureOrShutdown is Configure for callers that treat a line conflict
// as fatal: sd is invoked once with ConflictReason and the error is still
// returned in case sd returns.
func ConfigureOrShutdown(c *Controller, sd Shutdown, p Pin, m Mode, cb Callback, ctx any) error {
	err := c.Configure(p, m, cb, ctx)
	if err != nil && errors.Is(err, errcode.IRQConflict) && sd != nil {
		sd.TryShutdown(ConflictReason)
	}
	return err
}
