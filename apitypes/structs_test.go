package apitypes_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

func TestDeviceConversion(t *testing.T) {
	devices := []input.Device{
		input.NesDevice(nes.State{A: true, Select: true}),
		input.ControllerDevice(controller.State{Up: true, Guide: true, LeftStickY: -0.75, RightTrigger: 1}),
		input.KeyboardDevice(keyboard.New(
			keyboard.Key{Scan: keyboard.KeyA, Code: keyboard.KeyQ},
			keyboard.Key{Scan: keyboard.KeyEnter, Code: keyboard.KeyEnter},
		)),
	}
	for _, d := range devices {
		t.Run(d.Type().String(), func(t *testing.T) {
			b, err := json.Marshal(apitypes.FromDevice(d))
			require.NoError(t, err)

			var dto apitypes.Device
			require.NoError(t, json.Unmarshal(b, &dto))
			got, err := dto.ToDevice()
			require.NoError(t, err)
			if diff := cmp.Diff(d, got); diff != "" {
				t.Errorf("device mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeviceJSON(t *testing.T) {
	b, err := json.Marshal(apitypes.FromDevice(input.NesDevice(nes.State{Up: true, B: true})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"nes","nes":{"b":true,"up":true}}`, string(b))

	b, err = json.Marshal(apitypes.FromDevice(input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyZ, Code: keyboard.KeyW}))))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"keyboard","keyboard":{"keys":[{"scan":"Z","code":"W"}]}}`, string(b))
}

func TestToDevice(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    input.Device
		wantErr string
	}{
		{
			name: "missing payload is released",
			json: `{"type":"controller"}`,
			want: input.ControllerDevice(controller.State{}),
		},
		{
			name: "numeric and named keys",
			json: `{"type":"keyboard","keyboard":{"keys":[{"scan":40},{"scan":"0x04","code":"q"}]}}`,
			want: input.KeyboardDevice(keyboard.New(
				keyboard.Key{Scan: keyboard.KeyEnter, Code: keyboard.KeyEnter},
				keyboard.Key{Scan: keyboard.KeyA, Code: keyboard.KeyQ},
			)),
		},
		{
			name: "type is case insensitive",
			json: `{"type":"NES","nes":{"start":true}}`,
			want: input.NesDevice(nes.State{Start: true}),
		},
		{
			name:    "payload of another variant",
			json:    `{"type":"nes","controller":{"a":true}}`,
			wantErr: "payload does not match device type nes",
		},
		{
			name:    "missing type",
			json:    `{"nes":{"a":true}}`,
			wantErr: "invalid device type 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto apitypes.Device
			require.NoError(t, json.Unmarshal([]byte(tt.json), &dto))
			got, err := dto.ToDevice()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("device mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "unknown name", json: `{"scan":"hyper"}`},
		{name: "out of range", json: `{"scan":256}`},
		{name: "fraction", json: `{"scan":4.5}`},
		{name: "missing scan", json: `{"code":"a"}`},
		{name: "wrong type", json: `{"scan":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k apitypes.Key
			assert.Error(t, json.Unmarshal([]byte(tt.json), &k))
		})
	}
}

func TestUnknownDeviceTypeJSON(t *testing.T) {
	var dto apitypes.Device
	assert.Error(t, json.Unmarshal([]byte(`{"type":"wheel"}`), &dto))
}

func TestAssignResponse(t *testing.T) {
	d := input.NesDevice(nes.State{A: true})
	resp := apitypes.NewAssignResponse(input.Assignment{nil, &d})

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[null,{"type":"nes","nes":{"a":true}}]}`, string(b))

	var back apitypes.AssignResponse
	require.NoError(t, json.Unmarshal(b, &back))
	a, err := back.Assignment()
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Nil(t, a[0])
	require.NotNil(t, a[1])
	assert.True(t, a[1].Equal(d))
}

func TestAssignRequestPool(t *testing.T) {
	var req apitypes.AssignRequest
	require.NoError(t, json.Unmarshal([]byte(`{"devices":[{"type":"nes"},{"type":"keyboard"}]}`), &req))
	p, err := req.Pool()
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, input.Keyboard, p.Devices()[1].Type())

	req.Devices = append(req.Devices, apitypes.Device{})
	_, err = req.Pool()
	assert.ErrorContains(t, err, "device 2")
}

func TestApiErrorString(t *testing.T) {
	assert.Equal(t, "unknown error", apitypes.ApiError{}.Error())
	assert.Equal(t, "Oops: x", apitypes.ApiError{Title: "Oops", Detail: "x"}.Error())
	assert.Equal(t, "404 Not Found: gone", apitypes.ApiError{Status: 404, Title: "Not Found", Detail: "gone"}.Error())
}
