package input_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

func sampleDevices() []input.Device {
	return []input.Device{
		input.NesDevice(nes.State{A: true, Left: true}),
		input.ControllerDevice(controller.State{B: true, LeftStickX: 0.75, RightTrigger: 0.5}),
		input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyW, Code: keyboard.KeyZ})),
	}
}

func TestIdentity(t *testing.T) {
	for _, d := range sampleDevices() {
		t.Run(d.Type().String(), func(t *testing.T) {
			score, ok := d.Affinity(d.Type())
			assert.True(t, ok)
			assert.Equal(t, 0, score)

			got, ok := d.Convert(d.Type())
			assert.True(t, ok)
			if diff := cmp.Diff(d, got); diff != "" {
				t.Errorf("identity conversion changed the device (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAffinityTable(t *testing.T) {
	tests := []struct {
		from   input.DeviceType
		to     input.DeviceType
		score  int
		wantOK bool
	}{
		{from: input.Nes, to: input.Nes, score: 0, wantOK: true},
		{from: input.Nes, to: input.Controller},
		{from: input.Nes, to: input.Keyboard},
		{from: input.Controller, to: input.Controller, score: 0, wantOK: true},
		{from: input.Controller, to: input.Nes, score: 1, wantOK: true},
		{from: input.Controller, to: input.Keyboard},
		{from: input.Keyboard, to: input.Keyboard, score: 0, wantOK: true},
		{from: input.Keyboard, to: input.Nes, score: 2, wantOK: true},
		{from: input.Keyboard, to: input.Controller},
	}
	devices := map[input.DeviceType]input.Device{}
	for _, d := range sampleDevices() {
		devices[d.Type()] = d
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			d := devices[tt.from]
			score, ok := d.Affinity(tt.to)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.score, score)
			}

			converted, cok := d.Convert(tt.to)
			assert.Equal(t, ok, cok, "convert must mirror affinity")
			if cok {
				assert.Equal(t, tt.to, converted.Type())
			}
		})
	}
}

func TestZeroDeviceIsIncompatible(t *testing.T) {
	var d input.Device
	for _, target := range []input.DeviceType{input.Nes, input.Controller, input.Keyboard, 0, 42} {
		_, ok := d.Affinity(target)
		assert.False(t, ok)
		_, ok = d.Convert(target)
		assert.False(t, ok)
	}
	d = input.NesDevice(nes.State{})
	_, ok := d.Affinity(0)
	assert.False(t, ok)
}

func TestConvertToNes(t *testing.T) {
	c := input.ControllerDevice(controller.State{A: true, LeftStickY: -0.8})
	got, ok := c.Convert(input.Nes)
	assert.True(t, ok)
	st, ok := got.Nes()
	assert.True(t, ok)
	assert.Equal(t, nes.State{A: true, Up: true}, st)

	k := input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyEnter, Code: keyboard.KeyEnter}))
	got, ok = k.Convert(input.Nes)
	assert.True(t, ok)
	st, _ = got.Nes()
	assert.Equal(t, nes.State{Start: true}, st)
}

func TestVariantAccessors(t *testing.T) {
	d := input.NesDevice(nes.State{B: true})
	_, ok := d.Controller()
	assert.False(t, ok)
	_, ok = d.Keyboard()
	assert.False(t, ok)
	st, ok := d.Nes()
	assert.True(t, ok)
	assert.True(t, st.B)
}

func TestKeyboardDeviceDoesNotAliasCaller(t *testing.T) {
	ks := keyboard.New(keyboard.Key{Scan: keyboard.KeyA, Code: keyboard.KeyA})
	d := input.KeyboardDevice(ks)
	ks.KeyDown(keyboard.Key{Scan: keyboard.KeyB, Code: keyboard.KeyB})

	got, _ := d.Keyboard()
	assert.Equal(t, 1, got.Len())

	got.KeyUp(keyboard.KeyA)
	again, _ := d.Keyboard()
	assert.True(t, again.IsDownScan(keyboard.KeyA))
}

func TestParseDeviceType(t *testing.T) {
	for _, dt := range input.DeviceTypes {
		got, err := input.ParseDeviceType(dt.String())
		assert.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	got, err := input.ParseDeviceType(" Controller ")
	assert.NoError(t, err)
	assert.Equal(t, input.Controller, got)

	_, err = input.ParseDeviceType("joystick")
	assert.Error(t, err)

	_, err = input.ParseDeviceTypes([]string{"nes", "mouse"})
	assert.ErrorContains(t, err, "player 1")

	_, err = input.DeviceType(0).MarshalText()
	assert.Error(t, err)
}
