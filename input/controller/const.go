package controller

// Button bitmasks (XInput-style layout) used by the wire encoding.
const (
	ButtonDPadUp    = 0x0001
	ButtonDPadDown  = 0x0002
	ButtonDPadLeft  = 0x0004
	ButtonDPadRight = 0x0008
	ButtonStart     = 0x0010
	ButtonSelect    = 0x0020 // Back
	ButtonLStick    = 0x0040 // Left stick click
	ButtonRStick    = 0x0080 // Right stick click
	ButtonLShoulder = 0x0100
	ButtonRShoulder = 0x0200
	ButtonGuide     = 0x0400
	ButtonA         = 0x1000
	ButtonB         = 0x2000
	ButtonX         = 0x4000
	ButtonY         = 0x8000
)

// StateSize is the size in bytes of an encoded State: 2 button bytes and six float32 axes.
const StateSize = 2 + 6*4

// StickThreshold is how far a stick has to be pushed along an axis before it
// counts as a d-pad press when projected onto an NES pad.
const StickThreshold = 0.5
