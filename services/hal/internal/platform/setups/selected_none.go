//go:build !bluepill_endstops

package setups

import "extirq-go/types"

var SelectedSetup = types.EXTIConfig{}
