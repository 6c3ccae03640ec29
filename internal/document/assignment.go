package document

import (
	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
)

// Slot is one player's entry in an assignment document.
type Slot struct {
	Player int              `json:"player"`
	Wants  input.DeviceType `json:"wants"`
	Device *apitypes.Device `json:"device,omitempty"`
	// Nes is the NES view of Device.
	Nes *apitypes.NesState `json:"nes,omitempty"`
}

// Assignment is the printable result of assigning a pool for a game.
type Assignment struct {
	Game    string `json:"game"`
	Players []Slot `json:"players"`
}

// NewAssignment describes a for the players of info. Unassigned players keep
// their slot with no device.
func NewAssignment(info game.Info, a input.Assignment) Assignment {
	out := Assignment{Game: info.Name, Players: make([]Slot, len(info.Players))}
	for i, want := range info.Players {
		out.Players[i] = Slot{Player: i, Wants: want}
		if i >= len(a) || a[i] == nil {
			continue
		}
		dto := apitypes.FromDevice(*a[i])
		out.Players[i].Device = &dto
		if view, ok := a[i].Convert(input.Nes); ok {
			st, _ := view.Nes()
			n := apitypes.FromNes(st)
			out.Players[i].Nes = &n
		}
	}
	return out
}
