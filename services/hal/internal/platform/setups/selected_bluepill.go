//go:build bluepill_endstops

package setups

var SelectedSetup = BluePillEndstops
