package keyboard

import "github.com/romyengine/romy/input/nes"

// Bindings maps each NES button to the scan codes that press it.
type Bindings struct {
	A, B, Up, Down, Left, Right, Start, Select []Code
}

// NesBindings is the default keyboard layout for NES pads: WASD, the arrow
// keys or F/R/T for the d-pad, K/X/J for A and J/Z/N for B.
var NesBindings = Bindings{
	A:      []Code{KeyK, KeyX, KeyJ},
	B:      []Code{KeyJ, KeyZ, KeyN},
	Up:     []Code{KeyW, KeyUp, KeyF},
	Down:   []Code{KeyS, KeyDown},
	Left:   []Code{KeyA, KeyLeft, KeyR},
	Right:  []Code{KeyD, KeyRight, KeyT},
	Start:  []Code{KeyEnter},
	Select: []Code{KeyTab},
}

// Apply returns the NES state produced by the keys held in s.
func (b Bindings) Apply(s State) nes.State {
	held := func(codes []Code) bool {
		for _, c := range codes {
			if s.IsDownScan(c) {
				return true
			}
		}
		return false
	}
	return nes.State{
		A:      held(b.A),
		B:      held(b.B),
		Up:     held(b.Up),
		Down:   held(b.Down),
		Left:   held(b.Left),
		Right:  held(b.Right),
		Start:  held(b.Start),
		Select: held(b.Select),
	}
}
