package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/nes"
	"github.com/romyengine/romy/internal/termkeys"
)

// Watch turns typed keys into a keyboard device, steps the game with it
// and prints what each player receives.
type Watch struct {
	Game  game.Config `embed:"" prefix:"game."`
	Hold  int         `help:"Steps a typed key stays down" default:"8" env:"ROMY_WATCH_HOLD"`
	Steps int         `help:"Stop after this many steps; 0 runs until Ctrl-C" default:"0" env:"ROMY_WATCH_STEPS"`

	In  io.Reader `kong:"-"`
	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger) error {
	info, err := w.Game.Info()
	if err != nil {
		return err
	}
	in, out := w.In, w.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	eol := "\n"
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("switch terminal to raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, old) }()
		// Raw mode disables output post-processing.
		eol = "\r\n"
		logger.Debug("terminal in raw mode", "fd", fd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "%s: %d player(s) at %d steps/s, Ctrl-C to quit%s", info.Name, len(info.Players), info.StepsPerSecond(), eol)
	return w.watch(ctx, info, in, out, eol)
}

// watch steps the game once per step interval. Once the input ends it keeps
// stepping until every held key is released.
func (w *Watch) watch(ctx context.Context, info game.Info, in io.Reader, out io.Writer, eol string) error {
	src := termkeys.NewSource(w.Hold)
	runErr := make(chan error, 1)
	go func() { runErr <- src.Run(in) }()

	ticker := time.NewTicker(max(info.StepInterval, time.Microsecond))
	defer ticker.Stop()

	eof := false
	last := ""
	for step := 0; w.Steps <= 0 || step < w.Steps; step++ {
		select {
		case <-ctx.Done():
			return nil
		case err := <-runErr:
			if errors.Is(err, termkeys.ErrInterrupted) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			eof, runErr = true, nil
			step--
			continue
		case <-ticker.C:
		}

		keys := src.Sample()
		args := info.Step(input.NewPool(input.KeyboardDevice(keys)))
		if line := describePlayers(info, args.Input); line != last {
			fmt.Fprintf(out, "%6d  %s%s", step, line, eol)
			last = line
		}
		if eof && keys.Len() == 0 {
			return nil
		}
	}
	return nil
}

// describePlayers renders every player's NES view on one line.
func describePlayers(info game.Info, args input.Arguments) string {
	parts := make([]string, len(info.Players))
	for i, want := range info.Players {
		p, ok := args.Player(i)
		if !ok {
			parts[i] = fmt.Sprintf("P%d %s: none", i+1, want)
			continue
		}
		view, ok := p.Device().Convert(input.Nes)
		if !ok {
			parts[i] = fmt.Sprintf("P%d %s: ?", i+1, want)
			continue
		}
		st, _ := view.Nes()
		parts[i] = fmt.Sprintf("P%d %s: %s", i+1, want, nesButtons(st))
	}
	return strings.Join(parts, " | ")
}

func nesButtons(s nes.State) string {
	var held []string
	for _, b := range []struct {
		on   bool
		name string
	}{
		{s.Up, "Up"}, {s.Down, "Down"}, {s.Left, "Left"}, {s.Right, "Right"},
		{s.A, "A"}, {s.B, "B"}, {s.Select, "Select"}, {s.Start, "Start"},
	} {
		if b.on {
			held = append(held, b.name)
		}
	}
	if len(held) == 0 {
		return "-"
	}
	return strings.Join(held, " ")
}
