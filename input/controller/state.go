// Package controller provides the input state of a modern dual-stick
// controller, similar to an Xbox 360 pad.
package controller

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/romyengine/romy/input/nes"
)

// State represents a controller's buttons and analog axes.
//
// Stick axes are in [-1, 1] where -1 is left/up and +1 is right/down.
// Triggers are in [0, 1] where 1 is fully pressed.
type State struct {
	A, B, X, Y            bool
	Up, Down, Left, Right bool
	Start, Select, Guide  bool
	LeftShoulder          bool
	RightShoulder         bool
	LeftStick             bool
	RightStick            bool

	LeftStickX, LeftStickY   float32
	RightStickX, RightStickY float32
	LeftTrigger              float32
	RightTrigger             float32
}

// Combine merges two controllers: buttons are OR'd, axes take the larger value.
func (s State) Combine(with State) State {
	return State{
		A:             s.A || with.A,
		B:             s.B || with.B,
		X:             s.X || with.X,
		Y:             s.Y || with.Y,
		Up:            s.Up || with.Up,
		Down:          s.Down || with.Down,
		Left:          s.Left || with.Left,
		Right:         s.Right || with.Right,
		Start:         s.Start || with.Start,
		Select:        s.Select || with.Select,
		Guide:         s.Guide || with.Guide,
		LeftShoulder:  s.LeftShoulder || with.LeftShoulder,
		RightShoulder: s.RightShoulder || with.RightShoulder,
		LeftStick:     s.LeftStick || with.LeftStick,
		RightStick:    s.RightStick || with.RightStick,
		LeftStickX:    max(s.LeftStickX, with.LeftStickX),
		LeftStickY:    max(s.LeftStickY, with.LeftStickY),
		RightStickX:   max(s.RightStickX, with.RightStickX),
		RightStickY:   max(s.RightStickY, with.RightStickY),
		LeftTrigger:   max(s.LeftTrigger, with.LeftTrigger),
		RightTrigger:  max(s.RightTrigger, with.RightTrigger),
	}
}

// ToNes projects the controller onto an NES pad. The left stick doubles as
// the d-pad once it passes StickThreshold.
func (s State) ToNes() nes.State {
	return nes.State{
		A:      s.A,
		B:      s.B,
		Up:     s.Up || s.LeftStickY < -StickThreshold,
		Down:   s.Down || s.LeftStickY >= StickThreshold,
		Left:   s.Left || s.LeftStickX < -StickThreshold,
		Right:  s.Right || s.LeftStickX >= StickThreshold,
		Start:  s.Start,
		Select: s.Select,
	}
}

// Buttons packs the digital inputs into a bitmask of Button* values.
func (s State) Buttons() uint16 {
	var b uint16
	set := func(on bool, mask uint16) {
		if on {
			b |= mask
		}
	}
	set(s.Up, ButtonDPadUp)
	set(s.Down, ButtonDPadDown)
	set(s.Left, ButtonDPadLeft)
	set(s.Right, ButtonDPadRight)
	set(s.Start, ButtonStart)
	set(s.Select, ButtonSelect)
	set(s.LeftStick, ButtonLStick)
	set(s.RightStick, ButtonRStick)
	set(s.LeftShoulder, ButtonLShoulder)
	set(s.RightShoulder, ButtonRShoulder)
	set(s.Guide, ButtonGuide)
	set(s.A, ButtonA)
	set(s.B, ButtonB)
	set(s.X, ButtonX)
	set(s.Y, ButtonY)
	return b
}

func (s *State) setButtons(b uint16) {
	s.Up = b&ButtonDPadUp != 0
	s.Down = b&ButtonDPadDown != 0
	s.Left = b&ButtonDPadLeft != 0
	s.Right = b&ButtonDPadRight != 0
	s.Start = b&ButtonStart != 0
	s.Select = b&ButtonSelect != 0
	s.LeftStick = b&ButtonLStick != 0
	s.RightStick = b&ButtonRStick != 0
	s.LeftShoulder = b&ButtonLShoulder != 0
	s.RightShoulder = b&ButtonRShoulder != 0
	s.Guide = b&ButtonGuide != 0
	s.A = b&ButtonA != 0
	s.B = b&ButtonB != 0
	s.X = b&ButtonX != 0
	s.Y = b&ButtonY != 0
}

// MarshalBinary encodes State to the fixed 26-byte wire format.
//
// Layout (little-endian):
//
//	0-1:   Buttons
//	2-5:   LeftStickX (float32)
//	6-9:   LeftStickY
//	10-13: RightStickX
//	14-17: RightStickY
//	18-21: LeftTrigger
//	22-25: RightTrigger
func (s State) MarshalBinary() ([]byte, error) {
	b := make([]byte, StateSize)
	binary.LittleEndian.PutUint16(b[0:2], s.Buttons())
	o := 2
	for _, v := range []float32{s.LeftStickX, s.LeftStickY, s.RightStickX, s.RightStickY, s.LeftTrigger, s.RightTrigger} {
		binary.LittleEndian.PutUint32(b[o:o+4], math.Float32bits(v))
		o += 4
	}
	return b, nil
}

// UnmarshalBinary decodes the 26-byte wire format into State.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < StateSize {
		return io.ErrUnexpectedEOF
	}
	var st State
	st.setButtons(binary.LittleEndian.Uint16(data[0:2]))
	axis := func(o int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[o : o+4]))
	}
	st.LeftStickX = axis(2)
	st.LeftStickY = axis(6)
	st.RightStickX = axis(10)
	st.RightStickY = axis(14)
	st.LeftTrigger = axis(18)
	st.RightTrigger = axis(22)
	*s = st
	return nil
}
