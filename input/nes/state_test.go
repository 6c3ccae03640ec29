package nes_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/romyengine/romy/input/nes"
)

func TestCombine(t *testing.T) {
	a := nes.State{A: true, Up: true}
	b := nes.State{B: true, Up: true, Select: true}
	c := nes.State{Start: true}

	assert.Equal(t, nes.State{A: true, B: true, Up: true, Select: true}, a.Combine(b))
	assert.Equal(t, a.Combine(b), b.Combine(a), "commutative")
	assert.Equal(t, a.Combine(b).Combine(c), a.Combine(b.Combine(c)), "associative")
	assert.Equal(t, a, a.Combine(a), "idempotent")
	assert.Equal(t, a, a.Combine(nes.State{}), "zero is identity")
}

func TestWireFormat(t *testing.T) {
	tests := []struct {
		name  string
		state nes.State
		want  byte
	}{
		{name: "neutral", state: nes.State{}, want: 0x00},
		{name: "a", state: nes.State{A: true}, want: nes.ButtonA},
		{name: "dpad", state: nes.State{Up: true, Left: true}, want: nes.ButtonUp | nes.ButtonLeft},
		{
			name:  "everything",
			state: nes.State{A: true, B: true, Up: true, Down: true, Left: true, Right: true, Start: true, Select: true},
			want:  0xff,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.state.MarshalBinary()
			assert.NoError(t, err)
			assert.Equal(t, []byte{tt.want}, b)

			var got nes.State
			assert.NoError(t, got.UnmarshalBinary(b))
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestUnmarshalShort(t *testing.T) {
	var s nes.State
	assert.ErrorIs(t, s.UnmarshalBinary(nil), io.ErrUnexpectedEOF)
}
