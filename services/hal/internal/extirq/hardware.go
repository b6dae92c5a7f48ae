package extirq

// Hardware is the register-level collaborator. Writes are assumed to
// succeed; callers hold the critical section around multi-step sequences.
type Hardware interface {
	// EXTI line registers.
	Pending(l Line) bool
	ClearPending(l Line)
	SetMask(l Line, on bool)
	SetEdges(l Line, rising, falling bool)

	// Route connects the selector's line to bank b. Implementations
	// enable the routing block's clock if needed.
	Route(sel Selector, b Bank)

	// Interrupt controller.
	EnableVector(v Vector)
	DisableVector(v Vector)
	SetPriority(v Vector, prio uint8)
	ClearVector(v Vector)
}
