package extirq

// State is the interrupt mask state saved by Critical.Disable.
type State uintptr

// Critical masks interrupt delivery on the core. Disable returns the prior
// state and Restore reinstates it, so sections nest.
type Critical interface {
	Disable() State
	Restore(State)
}

// section is one entered critical section. Use as:
//
//	defer enter(cs).exit()
type section struct {
	cs    Critical
	saved State
}

func enter(cs Critical) section { return section{cs: cs, saved: cs.Disable()} }

func (s section) exit() { s.cs.Restore(s.saved) }
