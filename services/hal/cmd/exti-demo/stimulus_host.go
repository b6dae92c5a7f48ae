//go:build !stm32f103

package main

import (
	"context"
	"time"

	"extirq-go/services/hal/internal/expander"
	"extirq-go/services/hal/internal/extirq"
	"extirq-go/services/hal/internal/halcore"
	"extirq-go/services/hal/internal/platform"
	"extirq-go/types"
)

// stimulate toggles every configured input once a second on the simulated
// EXTI block and changes each expander's input port.
func stimulate(ctx context.Context, cfg types.EXTIConfig, buses halcore.I2CBusFactory) {
	sim := platform.HostSim()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for round := 0; ; round++ {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		for _, in := range cfg.Inputs {
			p := extirq.Pin(in.Pin)
			sim.Pulse(p, !sim.Level(p))
		}
		for _, xc := range cfg.Expanders {
			b, _ := buses.ByID(xc.Bus)
			bus, ok := b.(*platform.HostI2C)
			if !ok {
				continue
			}
			bus.Poke(xc.Addr, expander.RegInput, byte(round))
			sim.Pulse(extirq.Pin(xc.IntPin), false) // INT is active low
		}
	}
}
