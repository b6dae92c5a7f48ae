//go:build stm32f103

package main

import (
	"context"

	"extirq-go/services/hal/internal/halcore"
	"extirq-go/types"
)

// Real pins are driven by the outside world.
func stimulate(context.Context, types.EXTIConfig, halcore.I2CBusFactory) {}
