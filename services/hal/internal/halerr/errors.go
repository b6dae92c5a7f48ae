// services/hal/internal/halerr/errors.go
package halerr

import "errors"

var (
	// Build/config
	ErrMissingBusRef = errors.New("missing_bus_ref")
	ErrUnknownBus    = errors.New("unknown_bus")
	ErrInvalidEdge   = errors.New("invalid_edge")
	ErrInvalidPull   = errors.New("invalid_pull")
	ErrUnknownPin    = errors.New("unknown_pin")
	ErrDuplicateID   = errors.New("duplicate_id")

	// Expander
	ErrExpanderBit = errors.New("invalid_expander_bit")
)
