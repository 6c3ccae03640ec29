package input

import (
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

// Arguments is the per-player input handed to a game step.
type Arguments struct {
	players []*PlayerArguments
}

// PlayerArguments is one player's device for the current step.
type PlayerArguments struct {
	device Device
}

// NewArguments wraps an assignment. The assignment's devices are copied.
func NewArguments(a Assignment) Arguments {
	players := make([]*PlayerArguments, len(a))
	for i, d := range a {
		if d == nil {
			continue
		}
		c, _ := d.Convert(d.kind)
		players[i] = &PlayerArguments{device: c}
	}
	return Arguments{players: players}
}

// Len returns the number of player slots, assigned or not.
func (a Arguments) Len() int { return len(a.players) }

// Player returns the input for the 0-based player index. ok is false when
// the index is out of range or no device was available for that player.
func (a Arguments) Player(index int) (p PlayerArguments, ok bool) {
	if index < 0 || index >= len(a.players) || a.players[index] == nil {
		return PlayerArguments{}, false
	}
	return *a.players[index], true
}

// Device returns the player's device.
func (p PlayerArguments) Device() Device { return p.device }

// Nes returns the player's NES pad. ok is false unless the game asked for
// an NES pad for this player.
func (p PlayerArguments) Nes() (nes.State, bool) { return p.device.Nes() }

// Controller returns the player's controller. ok is false unless the game
// asked for a controller for this player.
func (p PlayerArguments) Controller() (controller.State, bool) { return p.device.Controller() }

// Keyboard returns the player's keyboard. ok is false unless the game asked
// for a keyboard for this player.
func (p PlayerArguments) Keyboard() (keyboard.State, bool) { return p.device.Keyboard() }
