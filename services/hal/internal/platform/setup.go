package platform

import (
	"extirq-go/services/hal/internal/platform/setups"
	"extirq-go/types"
)

// GetInitialConfig returns the board setup selected by build tags.
func GetInitialConfig() types.EXTIConfig { return setups.SelectedSetup }
