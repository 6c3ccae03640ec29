// Package keyboard provides the input state of a computer keyboard: the set
// of keys currently held down.
package keyboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/romyengine/romy/input/nes"
)

// Key is a pressed key. Scan is the physical, layout-independent position;
// Code is what that position produces under the active keyboard layout.
type Key struct {
	Scan Code `json:"scan"`
	Code Code `json:"code"`
}

// MaxKeys is the number of held keys the wire format can carry.
const MaxKeys = 0xff

// ErrTooManyKeys is returned by MarshalBinary when more than MaxKeys keys are held.
var ErrTooManyKeys = errors.New("keyboard: too many held keys")

// State is the set of keys currently held down, in press order.
// There is at most one entry per scan code.
type State struct {
	pressed []Key
}

// New returns a State with the given keys pressed in order.
func New(keys ...Key) State {
	var s State
	for _, k := range keys {
		s.KeyDown(k)
	}
	return s
}

// KeyDown marks a key as held. Pressing a scan code that is already held
// replaces its key code.
func (s *State) KeyDown(k Key) {
	s.KeyUp(k.Scan)
	s.pressed = append(s.pressed, k)
}

// KeyUp releases the key at the given scan code. Releasing a key that is not
// held is a no-op.
func (s *State) KeyUp(scan Code) {
	out := make([]Key, 0, len(s.pressed))
	for _, k := range s.pressed {
		if k.Scan != scan {
			out = append(out, k)
		}
	}
	s.pressed = out
}

// IsDownScan reports whether the key at the given physical position is held.
// It is not affected by the keyboard layout.
func (s State) IsDownScan(scan Code) bool {
	for _, k := range s.pressed {
		if k.Scan == scan {
			return true
		}
	}
	return false
}

// IsDownKey reports whether any held key produces the given key code under the
// active layout.
func (s State) IsDownKey(code Code) bool {
	for _, k := range s.pressed {
		if k.Code == code {
			return true
		}
	}
	return false
}

// Pressed returns a copy of the held keys in press order.
func (s State) Pressed() []Key {
	out := make([]Key, len(s.pressed))
	copy(out, s.pressed)
	return out
}

// Len returns the number of held keys.
func (s State) Len() int { return len(s.pressed) }

// Clone returns a State that shares no memory with s.
func (s State) Clone() State {
	if len(s.pressed) == 0 {
		return State{}
	}
	return State{pressed: s.Pressed()}
}

// Combine returns the union of held keys. Keys of with are pressed after
// those of s, so on a shared scan code the key code from with wins.
func (s State) Combine(with State) State {
	out := s.Clone()
	for _, k := range with.pressed {
		out.KeyDown(k)
	}
	return out
}

// ToNes projects the keyboard onto an NES pad using NesBindings.
func (s State) ToNes() nes.State {
	return NesBindings.Apply(s)
}

// MarshalBinary encodes State to variable-length wire format.
//
// Wire format:
//
//	Byte 0: Key count
//	Then per key: scan code, key code
func (s State) MarshalBinary() ([]byte, error) {
	n := len(s.pressed)
	if n > MaxKeys {
		return nil, fmt.Errorf("%w: %d", ErrTooManyKeys, n)
	}
	b := make([]byte, 1+2*n)
	b[0] = uint8(n)
	for i, k := range s.pressed {
		b[1+2*i] = uint8(k.Scan)
		b[2+2*i] = uint8(k.Code)
	}
	return b, nil
}

// UnmarshalBinary decodes variable-length wire format into State.
// A scan code that appears twice keeps the later key code.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return io.ErrUnexpectedEOF
	}
	n := int(data[0])
	if len(data) < 1+2*n {
		return io.ErrUnexpectedEOF
	}
	var st State
	for i := 0; i < n; i++ {
		st.KeyDown(Key{Scan: Code(data[1+2*i]), Code: Code(data[2+2*i])})
	}
	*s = st
	return nil
}

// EncodedSize returns the number of bytes MarshalBinary produces when it succeeds.
func (s State) EncodedSize() int {
	return 1 + 2*len(s.pressed)
}

// Equal reports whether both states hold the same keys with the same key
// codes, regardless of press order.
func (s State) Equal(other State) bool {
	if len(s.pressed) != len(other.pressed) {
		return false
	}
	for _, k := range s.pressed {
		found := false
		for _, o := range other.pressed {
			if o == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
