// Package input normalizes a frame's worth of physical input devices into one
// device per player.
//
// A Device is a closed union of the nes, controller and keyboard states. Each
// device can report how well it stands in for a requested DeviceType
// (Affinity) and project itself onto that type (Convert). Assign distributes a
// Pool of devices over the players' requested types, folding surplus devices
// into slots that are already filled.
//
// Nothing in this package blocks, keeps state between calls, or panics on
// any input; absence is always reported through a bool or a nil slot.
package input

import (
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

// Device is one input device's state for a single frame. The zero Device has
// no variant and is incompatible with every DeviceType.
type Device struct {
	kind       DeviceType
	nes        nes.State
	controller controller.State
	keyboard   keyboard.State
}

// NesDevice wraps an NES pad state.
func NesDevice(s nes.State) Device {
	return Device{kind: Nes, nes: s}
}

// ControllerDevice wraps a controller state.
func ControllerDevice(s controller.State) Device {
	return Device{kind: Controller, controller: s}
}

// KeyboardDevice wraps a keyboard state. The key list is copied.
func KeyboardDevice(s keyboard.State) Device {
	return Device{kind: Keyboard, keyboard: s.Clone()}
}

// Type returns the device's variant, or 0 for the zero Device.
func (d Device) Type() DeviceType { return d.kind }

// Nes returns the NES state if d is an NES pad.
func (d Device) Nes() (nes.State, bool) {
	if d.kind != Nes {
		return nes.State{}, false
	}
	return d.nes, true
}

// Controller returns the controller state if d is a controller.
func (d Device) Controller() (controller.State, bool) {
	if d.kind != Controller {
		return controller.State{}, false
	}
	return d.controller, true
}

// Keyboard returns a copy of the keyboard state if d is a keyboard.
func (d Device) Keyboard() (keyboard.State, bool) {
	if d.kind != Keyboard {
		return keyboard.State{}, false
	}
	return d.keyboard.Clone(), true
}

// Affinity reports how closely d matches target. Lower is a better fit and
// 0 means d already is a target. ok is false when d cannot be expressed as
// target at all.
//
//	nes        -> nes         0
//	controller -> controller  0
//	keyboard   -> keyboard    0
//	controller -> nes         1
//	keyboard   -> nes         2
func (d Device) Affinity(target DeviceType) (score int, ok bool) {
	switch d.kind {
	case Nes:
		switch target {
		case Nes:
			return 0, true
		}
	case Controller:
		switch target {
		case Controller:
			return 0, true
		case Nes:
			return 1, true
		}
	case Keyboard:
		switch target {
		case Keyboard:
			return 0, true
		case Nes:
			return 2, true
		}
	}
	return 0, false
}

// Convert projects d onto target. It succeeds exactly when Affinity does.
// Converting to d's own type returns an independent copy of d.
func (d Device) Convert(target DeviceType) (Device, bool) {
	switch d.kind {
	case Nes:
		switch target {
		case Nes:
			return d, true
		}
	case Controller:
		switch target {
		case Controller:
			return d, true
		case Nes:
			return NesDevice(d.controller.ToNes()), true
		}
	case Keyboard:
		switch target {
		case Keyboard:
			return KeyboardDevice(d.keyboard), true
		case Nes:
			return NesDevice(d.keyboard.ToNes()), true
		}
	}
	return Device{}, false
}

// Equal reports whether d and other are the same variant with the same state.
func (d Device) Equal(other Device) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case Nes:
		return d.nes == other.nes
	case Controller:
		return d.controller == other.controller
	case Keyboard:
		return d.keyboard.Equal(other.keyboard)
	}
	return true
}

func (d Device) String() string {
	return d.kind.String()
}
