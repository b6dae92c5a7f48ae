package types

// EXTIConfig lists the interrupt inputs a board arms at boot.
type EXTIConfig struct {
	Inputs    []EXTIInput `json:"inputs"`
	Expanders []Expander  `json:"expanders,omitempty"`
}

// EXTIInput is one GPIO wired to an EXTI line.
type EXTIInput struct {
	ID     string `json:"id"`
	Pin    int    `json:"pin"`            // dense number: PA0 = 0, PB0 = 16, ...
	Edge   string `json:"edge"`           // "rising", "falling", "both"
	Pull   string `json:"pull,omitempty"` // "none", "up", "down"
	Invert bool   `json:"invert,omitempty"`
}

// Expander is an I²C GPIO expander whose INT output drives an EXTI pin.
type Expander struct {
	ID     string `json:"id"`
	Bus    string `json:"bus"`     // e.g. "i2c1"
	Addr   uint16 `json:"addr"`    // 7-bit address
	IntPin int    `json:"int_pin"` // EXTI pin wired to INT (active low)
}
