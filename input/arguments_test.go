package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
)

func TestArguments(t *testing.T) {
	pool := input.NewPool(
		input.ControllerDevice(controller.State{A: true, LeftStickX: 1}),
		input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyEnter, Code: keyboard.KeyEnter})),
	)
	args := input.NewArguments(input.Assign(pool, []input.DeviceType{input.Nes, input.Keyboard, input.Controller}))
	assert.Equal(t, 3, args.Len())

	p0, ok := args.Player(0)
	require.True(t, ok)
	st, ok := p0.Nes()
	require.True(t, ok)
	assert.Equal(t, nes.State{A: true, Right: true}, st)
	_, ok = p0.Controller()
	assert.False(t, ok, "typed views only match the requested variant")
	_, ok = p0.Keyboard()
	assert.False(t, ok)

	p1, ok := args.Player(1)
	require.True(t, ok)
	ks, ok := p1.Keyboard()
	require.True(t, ok)
	assert.True(t, ks.IsDownScan(keyboard.KeyEnter))
	assert.Equal(t, input.Keyboard, p1.Device().Type())

	_, ok = args.Player(2)
	assert.False(t, ok, "no controller left for player 3")

	for _, idx := range []int{-1, 3, 100} {
		_, ok := args.Player(idx)
		assert.False(t, ok, "index %d", idx)
	}
}

func TestArgumentsZeroValue(t *testing.T) {
	var args input.Arguments
	assert.Equal(t, 0, args.Len())
	_, ok := args.Player(0)
	assert.False(t, ok)
}

func TestArgumentsCopyAssignment(t *testing.T) {
	a := input.Assignment{nesSlot(nes.State{A: true})}
	args := input.NewArguments(a)
	*a[0] = input.NesDevice(nes.State{})

	p, _ := args.Player(0)
	st, _ := p.Nes()
	assert.True(t, st.A)
}
