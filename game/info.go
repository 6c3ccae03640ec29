// Package game describes the static configuration of a game (its title, step
// rate and the device each player needs) and builds the arguments for each
// simulation step.
package game

import (
	"time"

	"github.com/romyengine/romy/input"
)

// Info holds what the engine needs to know about the game being played.
type Info struct {
	Name         string
	StepInterval time.Duration
	Players      []input.DeviceType
}

// NewInfo returns game info with the given title, step rate and one device
// type per player.
func NewInfo(name string, stepsPerSecond int, players ...input.DeviceType) Info {
	return Info{
		Name:         name,
		StepInterval: StepsPerSecondToInterval(stepsPerSecond),
		Players:      append([]input.DeviceType(nil), players...),
	}
}

// Uniform returns n players that all want the same device type.
func Uniform(n int, t input.DeviceType) []input.DeviceType {
	if n <= 0 {
		return nil
	}
	out := make([]input.DeviceType, n)
	for i := range out {
		out[i] = t
	}
	return out
}

// StepsPerSecondToInterval converts a step rate to the time between steps.
// Non-positive rates yield 0.
func StepsPerSecondToInterval(steps int) time.Duration {
	if steps <= 0 {
		return 0
	}
	return time.Second / time.Duration(steps)
}

// StepsPerSecond is the inverse of StepsPerSecondToInterval.
func (i Info) StepsPerSecond() int {
	if i.StepInterval <= 0 {
		return 0
	}
	return int(time.Second / i.StepInterval)
}

// Step distributes the frame's devices over the players.
func (i Info) Step(pool input.Pool) StepArguments {
	a, _ := i.StepTrace(pool)
	return a
}

// StepTrace is Step that also reports how the assignment was reached.
func (i Info) StepTrace(pool input.Pool) (StepArguments, input.Trace) {
	a, tr := input.AssignTrace(pool, i.Players)
	return StepArguments{Input: input.NewArguments(a)}, tr
}

// StepArguments is what a game receives for one simulation step.
type StepArguments struct {
	Input input.Arguments
}
