// services/hal/internal/extirq/dispatch.go
package extirq

// HandleVector services every pending line of v in ascending order, then
// clears the vector's pending state at the controller. It runs in interrupt
// context and never modifies the callback table. Unknown vectors are ignored.
func (c *Controller) HandleVector(v Vector) {
	if int(v) >= NumVectors {
		return
	}
	defer enter(c.cs).exit()
	for l := v.First(); l <= v.Last(); l++ {
		c.service(l)
	}
	c.hw.ClearVector(v)
}

// service clears a pending line before calling back, so an edge arriving
// during the callback pends again instead of being lost.
func (c *Controller) service(l Line) {
	if !c.hw.Pending(l) {
		return
	}
	c.hw.ClearPending(l)
	s := c.slots[l]
	if !s.armed() {
		// Disarmed after the edge latched.
		c.spurious.Add(1)
		return
	}
	c.delivered.Add(1)
	s.fn(s.ctx)
}

// Entry points for the vector table.

func (c *Controller) HandleEXTI0()     { c.HandleVector(EXTI0) }
func (c *Controller) HandleEXTI1()     { c.HandleVector(EXTI1) }
func (c *Controller) HandleEXTI2()     { c.HandleVector(EXTI2) }
func (c *Controller) HandleEXTI3()     { c.HandleVector(EXTI3) }
func (c *Controller) HandleEXTI4()     { c.HandleVector(EXTI4) }
func (c *Controller) HandleEXTI9_5()   { c.HandleVector(EXTI9_5) }
func (c *Controller) HandleEXTI15_10() { c.HandleVector(EXTI15_10) }
