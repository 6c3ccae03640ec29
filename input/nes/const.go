package nes

// Button bitmasks used by the 1-byte wire encoding.
const (
	ButtonA      = 0x01
	ButtonB      = 0x02
	ButtonUp     = 0x04
	ButtonDown   = 0x08
	ButtonLeft   = 0x10
	ButtonRight  = 0x20
	ButtonStart  = 0x40
	ButtonSelect = 0x80
)

// StateSize is the size in bytes of an encoded State.
const StateSize = 1
