// Package config holds the root command line of the romy binary.
package config

import "github.com/romyengine/romy/internal/cmd"

// CLI is parsed by kong. Every command can also be configured from JSON,
// YAML or TOML files; flags and environment variables take precedence.
type CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (.json, .yaml, .yml or .toml)" env:"ROMY_CONFIG" type:"path"`

	Log struct {
		Level   string `help:"Log level" enum:"trace,debug,info,warn,warning,error" default:"info" env:"ROMY_LOG_LEVEL"`
		File    string `help:"Also write logs to this file" env:"ROMY_LOG_FILE"`
		RawFile string `help:"Write a hex trace of every stream frame to this file" env:"ROMY_LOG_RAW_FILE"`
	} `embed:"" prefix:"log."`

	Server  cmd.Server        `cmd:"" help:"Run the API server for the configured game"`
	Assign  cmd.Assign        `cmd:"" help:"Assign the devices of a pool document to the players"`
	Watch   cmd.Watch         `cmd:"" help:"Play the game's input from the terminal keyboard"`
	Proxy   cmd.Proxy         `cmd:"" help:"Forward API connections to a server and log the decoded traffic"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
	Service cmd.Service       `cmd:"" help:"Manage the systemd service"`
}
