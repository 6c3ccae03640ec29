package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/document"
)

// Assign assigns the devices of a pool document to the configured players
// without a server.
type Assign struct {
	Game   game.Config `embed:"" prefix:"game."`
	Pool   string      `arg:"" name:"pool-file" help:"Pool document (.json, .yaml, .yml or .toml)" type:"existingfile"`
	Format string      `help:"Output format" enum:"json,yaml,toml" default:"json" env:"ROMY_ASSIGN_FORMAT"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the assign command is executed.
func (a *Assign) Run(logger *slog.Logger) error {
	info, err := a.Game.Info()
	if err != nil {
		return err
	}
	format, err := document.ParseFormat(a.Format)
	if err != nil {
		return err
	}
	pool, err := document.LoadPool(a.Pool)
	if err != nil {
		return err
	}

	assigned, tr := input.AssignTrace(pool, info.Players)
	logger.Debug("assigned pool", "file", a.Pool, "devices", pool.Len(), "claimed", tr.Claimed, "dropped", tr.Dropped, "passes", tr.Passes)

	out, err := document.Encode(document.NewAssignment(info, assigned), format)
	if err != nil {
		return err
	}
	w := a.Out
	if w == nil {
		w = os.Stdout
	}
	_, err = w.Write(out)
	return err
}
