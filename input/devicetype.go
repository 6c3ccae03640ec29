package input

import (
	"fmt"
	"strings"
)

// DeviceType identifies a device variant. It names both what a player asks
// for and what a device is asked to become.
type DeviceType uint8

const (
	// Nes is a Nintendo Entertainment System style pad.
	Nes DeviceType = iota + 1
	// Controller is a modern dual-stick controller, similar to an Xbox 360 pad.
	Controller
	// Keyboard is a computer keyboard.
	Keyboard
)

// DeviceTypes lists every valid device type.
var DeviceTypes = []DeviceType{Nes, Controller, Keyboard}

func (t DeviceType) String() string {
	switch t {
	case Nes:
		return "nes"
	case Controller:
		return "controller"
	case Keyboard:
		return "keyboard"
	default:
		return fmt.Sprintf("DeviceType(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the defined device types.
func (t DeviceType) Valid() bool {
	return t >= Nes && t <= Keyboard
}

// ParseDeviceType parses a device type name, ignoring case.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nes":
		return Nes, nil
	case "controller":
		return Controller, nil
	case "keyboard":
		return Keyboard, nil
	default:
		return 0, fmt.Errorf("unknown device type %q", s)
	}
}

// ParseDeviceTypes parses a list of device type names in order.
func ParseDeviceTypes(names []string) ([]DeviceType, error) {
	out := make([]DeviceType, 0, len(names))
	for i, n := range names {
		t, err := ParseDeviceType(n)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (t DeviceType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid device type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *DeviceType) UnmarshalText(b []byte) error {
	v, err := ParseDeviceType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
