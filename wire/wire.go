// Package wire implements the binary encoding of device pools and player
// assignments used by the streaming API.
//
// A device is encoded as its type byte followed by the variant payload:
//
//	nes:        1 byte button mask
//	controller: 2 byte LE button mask, 6 LE float32 axes
//	keyboard:   1 byte key count, then (scan, code) byte pairs
//
// A pool frame is a count byte followed by that many devices. An assignment
// frame is a count byte followed by one entry per player; an unassigned
// player is encoded as the single type byte 0.
package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

// MaxEntries is the largest number of devices or players one frame can carry.
const MaxEntries = 0xff

var (
	ErrUnknownDeviceType = errors.New("wire: unknown device type")
	ErrTooManyEntries    = errors.New("wire: too many entries")
	ErrTrailingData      = errors.New("wire: trailing data after frame")
)

// unassigned marks an empty slot in an assignment frame.
const unassigned = 0

// AppendDevice appends the encoding of d to dst.
func AppendDevice(dst []byte, d input.Device) ([]byte, error) {
	var payload []byte
	var err error
	switch d.Type() {
	case input.Nes:
		s, _ := d.Nes()
		payload, err = s.MarshalBinary()
	case input.Controller:
		s, _ := d.Controller()
		payload, err = s.MarshalBinary()
	case input.Keyboard:
		s, _ := d.Keyboard()
		payload, err = s.MarshalBinary()
	default:
		return dst, fmt.Errorf("%w: %d", ErrUnknownDeviceType, uint8(d.Type()))
	}
	if err != nil {
		return dst, err
	}
	dst = append(dst, uint8(d.Type()))
	return append(dst, payload...), nil
}

// ReadDevice decodes one device from the start of b and reports how many
// bytes it used.
func ReadDevice(b []byte) (input.Device, int, error) {
	if len(b) < 1 {
		return input.Device{}, 0, io.ErrUnexpectedEOF
	}
	body := b[1:]
	switch t := input.DeviceType(b[0]); t {
	case input.Nes:
		var s nes.State
		if err := s.UnmarshalBinary(body); err != nil {
			return input.Device{}, 0, err
		}
		return input.NesDevice(s), 1 + nes.StateSize, nil
	case input.Controller:
		var s controller.State
		if err := s.UnmarshalBinary(body); err != nil {
			return input.Device{}, 0, err
		}
		return input.ControllerDevice(s), 1 + controller.StateSize, nil
	case input.Keyboard:
		var s keyboard.State
		if err := s.UnmarshalBinary(body); err != nil {
			return input.Device{}, 0, err
		}
		// The header count decides the size even if repeated scan codes
		// collapsed into fewer keys.
		return input.KeyboardDevice(s), 2 + 2*int(body[0]), nil
	default:
		return input.Device{}, 0, fmt.Errorf("%w: %d", ErrUnknownDeviceType, uint8(t))
	}
}

// MarshalPool encodes every device of p in insertion order.
func MarshalPool(p input.Pool) ([]byte, error) {
	devices := p.Devices()
	if len(devices) > MaxEntries {
		return nil, fmt.Errorf("%w: %d devices", ErrTooManyEntries, len(devices))
	}
	out := []byte{uint8(len(devices))}
	for i, d := range devices {
		var err error
		if out, err = AppendDevice(out, d); err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
	}
	return out, nil
}

// UnmarshalPool decodes a pool frame. The frame must be consumed exactly.
func UnmarshalPool(b []byte) (input.Pool, error) {
	if len(b) < 1 {
		return input.Pool{}, io.ErrUnexpectedEOF
	}
	n := int(b[0])
	off := 1
	var p input.Pool
	for i := 0; i < n; i++ {
		d, used, err := ReadDevice(b[off:])
		if err != nil {
			return input.Pool{}, fmt.Errorf("device %d: %w", i, err)
		}
		p.Add(d)
		off += used
	}
	if off != len(b) {
		return input.Pool{}, ErrTrailingData
	}
	return p, nil
}

// MarshalAssignment encodes one entry per player slot.
func MarshalAssignment(a input.Assignment) ([]byte, error) {
	if len(a) > MaxEntries {
		return nil, fmt.Errorf("%w: %d players", ErrTooManyEntries, len(a))
	}
	out := []byte{uint8(len(a))}
	for i, d := range a {
		if d == nil {
			out = append(out, unassigned)
			continue
		}
		var err error
		if out, err = AppendDevice(out, *d); err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
	}
	return out, nil
}

// UnmarshalAssignment decodes an assignment frame.
func UnmarshalAssignment(b []byte) (input.Assignment, error) {
	if len(b) < 1 {
		return nil, io.ErrUnexpectedEOF
	}
	n := int(b[0])
	off := 1
	a := make(input.Assignment, n)
	for i := range a {
		if off >= len(b) {
			return nil, fmt.Errorf("player %d: %w", i, io.ErrUnexpectedEOF)
		}
		if b[off] == unassigned {
			off++
			continue
		}
		d, used, err := ReadDevice(b[off:])
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		a[i] = &d
		off += used
	}
	if off != len(b) {
		return nil, ErrTrailingData
	}
	return a, nil
}
