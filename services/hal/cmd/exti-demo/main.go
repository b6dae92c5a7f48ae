// Command exti-demo: arms a board's external-interrupt inputs and I/O
// expanders and prints every edge.
//
// Build/flash (TinyGo):
//   tinygo flash -target bluepill -tags bluepill_endstops ./services/hal/cmd/exti-demo
//
// Without a selected setup the Blue Pill endstop plan is used. Host builds
// run on the simulated EXTI block and drive the inputs themselves.

package main

import (
	"context"
	"time"

	"extirq-go/errcode"
	"extirq-go/services/hal/internal/expander"
	"extirq-go/services/hal/internal/gpioirq"
	"extirq-go/services/hal/internal/halcore"
	"extirq-go/services/hal/internal/platform"
	"extirq-go/services/hal/internal/platform/setups"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("\n== EXTI demo ==")

	cfg := platform.GetInitialConfig()
	if len(cfg.Inputs) == 0 && len(cfg.Expanders) == 0 {
		println("[main] no setup selected, using BluePillEndstops")
		cfg = setups.BluePillEndstops
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pins := platform.DefaultPinFactory()
	buses := platform.DefaultI2CFactory()

	w := gpioirq.New(32, 32)
	w.Start(ctx)
	release, err := w.Bind(cfg, pins)
	if err != nil {
		println("[main] bind failed:", string(errcode.Of(err)), err.Error())
		return
	}
	defer release()
	println("[main] armed", len(cfg.Inputs), "inputs")

	for _, xc := range cfg.Expanders {
		x, err := expander.Open(xc, buses, pins)
		if err != nil {
			println("[main] expander", xc.ID, "failed:", err.Error())
			continue
		}
		defer x.Close()
		id := xc.ID
		for b := uint8(0); b < expander.NumBits; b++ {
			_ = x.Watch(b, func(bit uint8, level bool) {
				println("[expander]", id, "bit", bit, "level", level)
			})
		}
		go x.Run(ctx)
		println("[main] expander", id, "on pin", xc.IntPin)
	}

	go stimulate(ctx, cfg, buses)

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()
	ctrl := platform.DefaultController()
	for {
		select {
		case ev := <-w.Events():
			println("[gpio]", ev.ID, halcore.EdgeToString(ev.Edge), "level", ev.Level)
		case <-tick.C:
			st := ctrl.Stats()
			println("[main] delivered", st.Delivered, "spurious", st.Spurious, "isr drops", w.ISRDrops(), "lost", w.Lost())
		}
	}
}
