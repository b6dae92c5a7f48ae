package setups

import "extirq-go/types"

// BluePillEndstops: three endstops and a probe on a Blue Pill, plus a
// PCA9554 on I2C1 with its INT line on PB12. Every input sits on its own
// EXTI line.
var BluePillEndstops = types.EXTIConfig{
	Inputs: []types.EXTIInput{
		{ID: "x_min", Pin: 0, Edge: "falling", Pull: "up", Invert: true}, // PA0
		{ID: "y_min", Pin: 1, Edge: "falling", Pull: "up", Invert: true}, // PA1
		{ID: "z_min", Pin: 4, Edge: "falling", Pull: "up", Invert: true}, // PA4
		{ID: "probe", Pin: 45, Edge: "both", Pull: "none"},               // PC13
	},
	Expanders: []types.Expander{
		{ID: "panel", Bus: "i2c1", Addr: 0x20, IntPin: 28}, // PB12
	},
}
