package apitypes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type GameInfoResponse struct {
	Name           string             `json:"name"`
	StepsPerSecond int                `json:"stepsPerSecond"`
	StepInterval   string             `json:"stepInterval"`
	Players        []input.DeviceType `json:"players"`
}

type AssignRequest struct {
	Devices []Device `json:"devices"`
}

// AssignResponse lists one entry per player; null marks an unassigned player.
type AssignResponse struct {
	Players []*Device `json:"players"`
}

type PlayerResponse struct {
	Index  int    `json:"index"`
	Device Device `json:"device"`
	// Nes is the player's input as seen by a game that reads NES pads.
	Nes NesState `json:"nes"`
}

// Device is the JSON form of an input device. Only the payload matching Type
// may be set; a missing payload means nothing is pressed.
type Device struct {
	Type       input.DeviceType `json:"type"`
	Nes        *NesState        `json:"nes,omitempty"`
	Controller *ControllerState `json:"controller,omitempty"`
	Keyboard   *KeyboardState   `json:"keyboard,omitempty"`
}

type NesState struct {
	A      bool `json:"a,omitempty"`
	B      bool `json:"b,omitempty"`
	Up     bool `json:"up,omitempty"`
	Down   bool `json:"down,omitempty"`
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
	Start  bool `json:"start,omitempty"`
	Select bool `json:"select,omitempty"`
}

type ControllerState struct {
	Up            bool    `json:"up,omitempty"`
	Down          bool    `json:"down,omitempty"`
	Left          bool    `json:"left,omitempty"`
	Right         bool    `json:"right,omitempty"`
	Start         bool    `json:"start,omitempty"`
	Select        bool    `json:"select,omitempty"`
	Guide         bool    `json:"guide,omitempty"`
	A             bool    `json:"a,omitempty"`
	B             bool    `json:"b,omitempty"`
	X             bool    `json:"x,omitempty"`
	Y             bool    `json:"y,omitempty"`
	LeftShoulder  bool    `json:"leftShoulder,omitempty"`
	RightShoulder bool    `json:"rightShoulder,omitempty"`
	LeftStick     bool    `json:"leftStick,omitempty"`
	RightStick    bool    `json:"rightStick,omitempty"`
	LeftStickX    float32 `json:"leftStickX,omitempty"`
	LeftStickY    float32 `json:"leftStickY,omitempty"`
	RightStickX   float32 `json:"rightStickX,omitempty"`
	RightStickY   float32 `json:"rightStickY,omitempty"`
	LeftTrigger   float32 `json:"leftTrigger,omitempty"`
	RightTrigger  float32 `json:"rightTrigger,omitempty"`
}

type KeyboardState struct {
	Keys []Key `json:"keys"`
}

// Key is a held key. When Code is omitted it defaults to Scan.
type Key struct {
	Scan keyboard.Code `json:"scan"`
	Code keyboard.Code `json:"code"`
}

// UnmarshalJSON implements custom unmarshaling to accept both key names and
// numeric HID codes (e.g., "Enter", 40 or "0x28").
func (k *Key) UnmarshalJSON(data []byte) error {
	var raw struct {
		Scan any `json:"scan"`
		Code any `json:"code,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Scan == nil {
		return fmt.Errorf("scan: missing")
	}
	scan, err := parseCode(raw.Scan)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	code := scan
	if raw.Code != nil {
		if code, err = parseCode(raw.Code); err != nil {
			return fmt.Errorf("code: %w", err)
		}
	}
	k.Scan, k.Code = scan, code
	return nil
}

// parseCode accepts either a JSON number or a key name / numeric string.
func parseCode(v any) (keyboard.Code, error) {
	switch val := v.(type) {
	case float64:
		if val < 0 || val > 255 || val != float64(int(val)) {
			return 0, fmt.Errorf("value %v out of key code range", val)
		}
		return keyboard.Code(val), nil
	case string:
		return keyboard.ParseCode(strings.TrimSpace(val))
	default:
		return 0, fmt.Errorf("expected number or key name, got %T", v)
	}
}

// FromDevice converts an input device to its JSON form.
func FromDevice(d input.Device) Device {
	out := Device{Type: d.Type()}
	switch d.Type() {
	case input.Nes:
		s, _ := d.Nes()
		n := FromNes(s)
		out.Nes = &n
	case input.Controller:
		s, _ := d.Controller()
		c := ControllerState{
			Up: s.Up, Down: s.Down, Left: s.Left, Right: s.Right,
			Start: s.Start, Select: s.Select, Guide: s.Guide,
			A: s.A, B: s.B, X: s.X, Y: s.Y,
			LeftShoulder: s.LeftShoulder, RightShoulder: s.RightShoulder,
			LeftStick: s.LeftStick, RightStick: s.RightStick,
			LeftStickX: s.LeftStickX, LeftStickY: s.LeftStickY,
			RightStickX: s.RightStickX, RightStickY: s.RightStickY,
			LeftTrigger: s.LeftTrigger, RightTrigger: s.RightTrigger,
		}
		out.Controller = &c
	case input.Keyboard:
		s, _ := d.Keyboard()
		k := KeyboardState{Keys: []Key{}}
		for _, p := range s.Pressed() {
			k.Keys = append(k.Keys, Key{Scan: p.Scan, Code: p.Code})
		}
		out.Keyboard = &k
	}
	return out
}

// FromNes converts a NES pad state to its JSON form.
func FromNes(s nes.State) NesState {
	return NesState{A: s.A, B: s.B, Up: s.Up, Down: s.Down, Left: s.Left, Right: s.Right, Start: s.Start, Select: s.Select}
}

// ToDevice converts the JSON form back to an input device.
func (d Device) ToDevice() (input.Device, error) {
	if !d.Type.Valid() {
		return input.Device{}, fmt.Errorf("invalid device type %d", uint8(d.Type))
	}
	if (d.Nes != nil && d.Type != input.Nes) ||
		(d.Controller != nil && d.Type != input.Controller) ||
		(d.Keyboard != nil && d.Type != input.Keyboard) {
		return input.Device{}, fmt.Errorf("payload does not match device type %s", d.Type)
	}
	switch d.Type {
	case input.Nes:
		var s nes.State
		if n := d.Nes; n != nil {
			s = nes.State{A: n.A, B: n.B, Up: n.Up, Down: n.Down, Left: n.Left, Right: n.Right, Start: n.Start, Select: n.Select}
		}
		return input.NesDevice(s), nil
	case input.Controller:
		var s controller.State
		if c := d.Controller; c != nil {
			s = controller.State{
				Up: c.Up, Down: c.Down, Left: c.Left, Right: c.Right,
				Start: c.Start, Select: c.Select, Guide: c.Guide,
				A: c.A, B: c.B, X: c.X, Y: c.Y,
				LeftShoulder: c.LeftShoulder, RightShoulder: c.RightShoulder,
				LeftStick: c.LeftStick, RightStick: c.RightStick,
				LeftStickX: c.LeftStickX, LeftStickY: c.LeftStickY,
				RightStickX: c.RightStickX, RightStickY: c.RightStickY,
				LeftTrigger: c.LeftTrigger, RightTrigger: c.RightTrigger,
			}
		}
		return input.ControllerDevice(s), nil
	default:
		var s keyboard.State
		if k := d.Keyboard; k != nil {
			for _, key := range k.Keys {
				s.KeyDown(keyboard.Key{Scan: key.Scan, Code: key.Code})
			}
		}
		return input.KeyboardDevice(s), nil
	}
}

// Pool converts the requested devices into a pool, in order.
func (r AssignRequest) Pool() (input.Pool, error) {
	var p input.Pool
	for i, d := range r.Devices {
		dev, err := d.ToDevice()
		if err != nil {
			return input.Pool{}, fmt.Errorf("device %d: %w", i, err)
		}
		p.Add(dev)
	}
	return p, nil
}

// NewAssignResponse converts an assignment to its JSON form.
func NewAssignResponse(a input.Assignment) AssignResponse {
	out := AssignResponse{Players: make([]*Device, len(a))}
	for i, d := range a {
		if d == nil {
			continue
		}
		dto := FromDevice(*d)
		out.Players[i] = &dto
	}
	return out
}

// Assignment converts the response back into an assignment.
func (r AssignResponse) Assignment() (input.Assignment, error) {
	out := make(input.Assignment, len(r.Players))
	for i, d := range r.Players {
		if d == nil {
			continue
		}
		dev, err := d.ToDevice()
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		out[i] = &dev
	}
	return out, nil
}
