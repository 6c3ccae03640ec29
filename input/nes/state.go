// Package nes provides the NES-style pad input state: a d-pad, two primary
// buttons, start and select.
package nes

import "io"

// State is the button state of an NES-style pad.
type State struct {
	A      bool
	B      bool
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	Start  bool
	Select bool
}

// Combine returns the state where a button is down if it is down in either s or with.
func (s State) Combine(with State) State {
	return State{
		A:      s.A || with.A,
		B:      s.B || with.B,
		Up:     s.Up || with.Up,
		Down:   s.Down || with.Down,
		Left:   s.Left || with.Left,
		Right:  s.Right || with.Right,
		Start:  s.Start || with.Start,
		Select: s.Select || with.Select,
	}
}

// Buttons packs the state into a bitmask of Button* values.
func (s State) Buttons() uint8 {
	var b uint8
	set := func(on bool, mask uint8) {
		if on {
			b |= mask
		}
	}
	set(s.A, ButtonA)
	set(s.B, ButtonB)
	set(s.Up, ButtonUp)
	set(s.Down, ButtonDown)
	set(s.Left, ButtonLeft)
	set(s.Right, ButtonRight)
	set(s.Start, ButtonStart)
	set(s.Select, ButtonSelect)
	return b
}

// FromButtons unpacks a bitmask of Button* values.
func FromButtons(b uint8) State {
	return State{
		A:      b&ButtonA != 0,
		B:      b&ButtonB != 0,
		Up:     b&ButtonUp != 0,
		Down:   b&ButtonDown != 0,
		Left:   b&ButtonLeft != 0,
		Right:  b&ButtonRight != 0,
		Start:  b&ButtonStart != 0,
		Select: b&ButtonSelect != 0,
	}
}

// MarshalBinary encodes State to a single button byte.
func (s State) MarshalBinary() ([]byte, error) {
	return []byte{s.Buttons()}, nil
}

// UnmarshalBinary decodes a single button byte into State.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < StateSize {
		return io.ErrUnexpectedEOF
	}
	*s = FromButtons(data[0])
	return nil
}
