package handler_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/input/nes"
	"github.com/romyengine/romy/internal/log"
	"github.com/romyengine/romy/internal/metrics"
	"github.com/romyengine/romy/internal/server/api"
	"github.com/romyengine/romy/internal/server/api/handler"
	handlerTest "github.com/romyengine/romy/internal/testing"
	"github.com/romyengine/romy/wire"
)

func TestStream(t *testing.T) {
	m := metrics.New()
	var frames bytes.Buffer
	info := game.NewInfo("test", 60, input.Nes)
	addr, done := handlerTest.StartAPIServer(t, func(r *api.Router, _ *api.Server) {
		r.RegisterStream("stream", handler.Stream(info, m, log.NewFrames(&frames)))
	})

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	_, err = conn.Write([]byte("stream\x00"))
	require.NoError(t, err)

	steps := []struct {
		pool input.Pool
		want []byte
	}{
		{
			pool: input.NewPool(input.NesDevice(nes.State{A: true})),
			want: []byte{1, byte(input.Nes), nes.ButtonA},
		},
		{
			pool: input.Pool{},
			want: []byte{1, 0},
		},
		{
			pool: input.NewPool(input.NesDevice(nes.State{Up: true}), input.NesDevice(nes.State{Start: true})),
			want: []byte{1, byte(input.Nes), nes.ButtonUp | nes.ButtonStart},
		},
	}
	for i, st := range steps {
		body, err := wire.MarshalPool(st.pool)
		require.NoError(t, err)
		require.NoError(t, wire.WriteFrame(conn, body))
		got, err := wire.ReadFrame(conn)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, st.want, got, "step %d", i)
	}
	assert.Contains(t, scrape(t, m), "romy_stream_sessions 1")

	require.NoError(t, conn.Close())
	done()
	assert.Contains(t, scrape(t, m), "romy_stream_sessions 0")
	assert.Contains(t, scrape(t, m), `romy_assign_requests_total{route="stream"} 3`)
	assert.Equal(t, 6, bytes.Count(frames.Bytes(), []byte("frame:")))
}
