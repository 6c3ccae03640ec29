package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
)

func TestWatchPrintsHeldKeys(t *testing.T) {
	var out bytes.Buffer
	w := &Watch{Hold: 3}
	info := game.NewInfo("test", 1000, input.Nes, input.Keyboard)

	err := w.watch(context.Background(), info, strings.NewReader("k\x1b[A"), &out, "\n")
	require.NoError(t, err)

	// The terminal keyboard is always in the pool, so once the keys are
	// released it stays with the nes player, idle.
	assert.Contains(t, out.String(), "P1 nes: Up A | P2 keyboard: none")
	assert.NotContains(t, out.String(), "P1 nes: none")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "P1 nes: - | P2 keyboard: none"), out.String())
}

func TestWatchKeyboardGameKeepsSlotAfterRelease(t *testing.T) {
	var out bytes.Buffer
	w := &Watch{Hold: 2}
	info := game.NewInfo("test", 1000, input.Keyboard)

	err := w.watch(context.Background(), info, strings.NewReader("k"), &out, "\n")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "P1 keyboard: A")
	assert.NotContains(t, out.String(), "P1 keyboard: none")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "P1 keyboard: -"), out.String())
}

func TestWatchStopsOnInterrupt(t *testing.T) {
	var out bytes.Buffer
	w := &Watch{Hold: 1000}
	info := game.NewInfo("test", 1000, input.Nes)

	require.NoError(t, w.watch(context.Background(), info, strings.NewReader("\x03"), &out, "\n"))
}

func TestWatchStepLimit(t *testing.T) {
	var out bytes.Buffer
	w := &Watch{Hold: 1000, Steps: 5}
	info := game.NewInfo("test", 1000, input.Nes)

	require.NoError(t, w.watch(context.Background(), info, blockingReader{}, &out, "\n"))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestWatchContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &Watch{Hold: 1}
	require.NoError(t, w.watch(ctx, game.NewInfo("test", 1, input.Nes), blockingReader{}, &bytes.Buffer{}, "\n"))
}

// blockingReader never delivers input.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestDescribePlayers(t *testing.T) {
	info := game.NewInfo("test", 60, input.Nes, input.Controller, input.Keyboard)
	a := input.Assignment{
		ptr(input.ControllerDevice(controller.State{A: true, LeftStickX: 1}).Convert(input.Nes)),
		ptr(input.ControllerDevice(controller.State{Start: true}), true),
		nil,
	}
	got := describePlayers(info, input.NewArguments(a))
	assert.Equal(t, "P1 nes: Right A | P2 controller: Start | P3 keyboard: none", got)

	kb := input.Assignment{nil, nil, ptr(input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyTab, Code: keyboard.KeyTab})), true)}
	assert.Equal(t, "P1 nes: none | P2 controller: none | P3 keyboard: Select", describePlayers(info, input.NewArguments(kb)))
}

func ptr(d input.Device, _ bool) *input.Device { return &d }
