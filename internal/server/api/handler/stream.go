package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/log"
	"github.com/romyengine/romy/internal/metrics"
	"github.com/romyengine/romy/internal/server/api"
	"github.com/romyengine/romy/wire"
)

// Stream returns a stream handler that answers every pool frame the client
// sends with the matching assignment frame. Frames use wire's length-prefixed
// framing. A malformed frame ends the session.
func Stream(info game.Info, m *metrics.Metrics, frames log.FrameLogger) api.StreamHandlerFunc {
	if frames == nil {
		frames = log.NewFrames(nil)
	}
	return func(ctx context.Context, conn api.StreamConn, params map[string]string, logger *slog.Logger) error {
		m.StreamOpened()
		defer m.StreamClosed()

		session := conn.RemoteAddr().String()
		steps := 0
		for {
			body, err := wire.ReadFrame(conn)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					logger.Debug("stream closed", "steps", steps)
					return nil
				}
				return fmt.Errorf("read frame: %w", err)
			}
			frames.Log(session, true, body)

			pool, err := wire.UnmarshalPool(body)
			if err != nil {
				return fmt.Errorf("decode pool frame %d: %w", steps, err)
			}
			a, tr := input.AssignTrace(pool, info.Players)
			m.ObserveAssign("stream", a, tr)

			out, err := wire.MarshalAssignment(a)
			if err != nil {
				return fmt.Errorf("encode assignment frame %d: %w", steps, err)
			}
			frames.Log(session, false, out)
			if err := wire.WriteFrame(conn, out); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
			logger.Log(ctx, log.LevelTrace, "stream step", "step", steps, "devices", pool.Len(), "claimed", tr.Claimed)
			steps++
		}
	}
}
