package game

import (
	"fmt"

	"github.com/romyengine/romy/input"
)

// Config is the user-facing game configuration, shared by every command.
type Config struct {
	Name           string   `help:"Game title" default:"romy" env:"ROMY_GAME_NAME"`
	StepsPerSecond int      `help:"Number of game steps per second" default:"60" env:"ROMY_GAME_STEPS_PER_SECOND"`
	Players        []string `help:"Device type requested by each player, in order (nes, controller, keyboard)" default:"nes" env:"ROMY_GAME_PLAYERS"`
}

// Info validates the configuration and converts it to Info.
func (c Config) Info() (Info, error) {
	if c.StepsPerSecond <= 0 {
		return Info{}, fmt.Errorf("steps per second must be positive, got %d", c.StepsPerSecond)
	}
	players, err := input.ParseDeviceTypes(c.Players)
	if err != nil {
		return Info{}, fmt.Errorf("invalid player configuration: %w", err)
	}
	return NewInfo(c.Name, c.StepsPerSecond, players...), nil
}
