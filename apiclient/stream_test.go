package apiclient_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/apiclient"
	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/controller"
	"github.com/romyengine/romy/input/keyboard"
	"github.com/romyengine/romy/input/nes"
	"github.com/romyengine/romy/internal/server/api"
	"github.com/romyengine/romy/internal/server/api/handler"
	th "github.com/romyengine/romy/internal/testing"
	"github.com/romyengine/romy/wire"
)

func startStreamServer(t *testing.T, cfg api.ServerConfig, info game.Info) (addr string, done func()) {
	t.Helper()
	return th.StartAPIServerWithConfig(t, cfg, func(r *api.Router, _ *api.Server) {
		r.RegisterStream(apiclient.StreamPath, handler.Stream(info, nil, nil))
	})
}

func TestOpenStream_NotSupportedWithMockTransport(t *testing.T) {
	c := testClient(map[string]string{}, nil)
	_, err := c.OpenStream(context.Background())
	assert.ErrorContains(t, err, "not supported with mock transport")
}

func TestAssignStream(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "plain"},
		{name: "encrypted", password: "hunter2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := game.NewInfo("duo", 60, input.Nes, input.Nes)
			addr, done := startStreamServer(t, api.ServerConfig{Password: tt.password}, info)
			defer done()

			c := apiclient.NewWithPassword(addr, tt.password)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			s, err := c.OpenStream(ctx)
			require.NoError(t, err)
			defer s.Close()

			// Step 1: a pad and a keyboard, one each.
			a, err := s.Step(ctx, input.NewPool(
				input.KeyboardDevice(keyboard.New(keyboard.Key{Scan: keyboard.KeyEnter, Code: keyboard.KeyEnter})),
				input.NesDevice(nes.State{B: true}),
			))
			require.NoError(t, err)
			require.Len(t, a, 2)
			require.NotNil(t, a[0])
			require.NotNil(t, a[1])
			p0, _ := a[0].Nes()
			p1, _ := a[1].Nes()
			assert.Equal(t, nes.State{B: true}, p0)
			assert.Equal(t, nes.State{Start: true}, p1)

			// Step 2: nothing plugged in.
			a, err = s.Step(ctx, input.Pool{})
			require.NoError(t, err)
			assert.Equal(t, input.Assignment{nil, nil}, a)

			// Step 3: a single controller only reaches player 1.
			a, err = s.Step(ctx, input.NewPool(input.ControllerDevice(controller.State{LeftStickX: 0.9})))
			require.NoError(t, err)
			require.NotNil(t, a[0])
			p0, _ = a[0].Nes()
			assert.Equal(t, nes.State{Right: true}, p0)
			assert.Nil(t, a[1])

			require.NoError(t, s.Close())
			require.NoError(t, s.Close())
		})
	}
}

func TestAssignStreamMalformedFrame(t *testing.T) {
	addr, done := startStreamServer(t, api.ServerConfig{}, game.NewInfo("solo", 60, input.Nes))
	defer done()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	_, err = conn.Write([]byte(apiclient.StreamPath + "\x00"))
	require.NoError(t, err)
	// One device of type 0 is rejected and the server hangs up instead of
	// answering.
	require.NoError(t, wire.WriteFrame(conn, []byte{1, 0}))
	_, err = wire.ReadFrame(conn)
	assert.ErrorIs(t, err, io.EOF)
}
