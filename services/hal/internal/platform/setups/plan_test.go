package setups

import (
	"testing"

	"extirq-go/services/hal/internal/halcore"
	"extirq-go/types"
)

// Every board plan must give each input its own EXTI line; two pins with
// the same offset would conflict at boot.
func TestPlansUseDistinctLines(t *testing.T) {
	plans := map[string]types.EXTIConfig{
		"BluePillEndstops": BluePillEndstops,
		"SelectedSetup":    SelectedSetup,
	}
	for name, cfg := range plans {
		lines := map[int]string{}
		ids := map[string]bool{}
		claim := func(id string, pin int) {
			if prev, ok := lines[pin%16]; ok {
				t.Errorf("%s: %s and %s share EXTI line %d", name, prev, id, pin%16)
			}
			lines[pin%16] = id
			if ids[id] {
				t.Errorf("%s: duplicate id %q", name, id)
			}
			ids[id] = true
		}
		for _, in := range cfg.Inputs {
			claim(in.ID, in.Pin)
			if e, ok := halcore.ParseEdge(in.Edge); !ok || e == halcore.EdgeNone {
				t.Errorf("%s: %s has edge %q", name, in.ID, in.Edge)
			}
			if _, ok := halcore.ParsePull(in.Pull); !ok {
				t.Errorf("%s: %s has pull %q", name, in.ID, in.Pull)
			}
		}
		for _, x := range cfg.Expanders {
			claim(x.ID, x.IntPin)
			if x.Bus == "" || x.Addr > 0x7F {
				t.Errorf("%s: expander %s bus=%q addr=%#x", name, x.ID, x.Bus, x.Addr)
			}
		}
	}
}
