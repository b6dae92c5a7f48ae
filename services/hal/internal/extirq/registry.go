package extirq

// Callback runs in interrupt context with the context value given at
// registration. It must be short and must not block.
type Callback func(ctx any)

type slot struct {
	fn    Callback
	ctx   any
	owner Pin
}

func (s slot) armed() bool { return s.fn != nil }

// registry holds one slot per line. A slot is populated iff its line is
// unmasked; both change together under the critical section.
type registry [NumLines]slot

func (r *registry) install(l Line, owner Pin, fn Callback, ctx any) {
	r[l] = slot{fn: fn, ctx: ctx, owner: owner}
}

func (r *registry) clear(l Line) { r[l] = slot{} }

// siblingsArmed reports whether any line of v other than l holds a callback.
func (r *registry) siblingsArmed(v Vector, l Line) bool {
	for x := v.First(); x <= v.Last(); x++ {
		if x != l && r[x].armed() {
			return true
		}
	}
	return false
}
