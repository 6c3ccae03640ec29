package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/wire"
)

// StreamPath is the API route serving assignment streams.
const StreamPath = "stream"

// AssignStream is a long-lived connection on which every pool sent is
// answered with its assignment, in order.
type AssignStream struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// OpenStream connects to the server's stream route.
func (c *Client) OpenStream(ctx context.Context) (*AssignStream, error) {
	if c.transport.mock != nil {
		return nil, errors.New("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(StreamPath + "\x00")); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	// The stream has no overall deadline; Step sets its own.
	_ = conn.SetDeadline(time.Time{})
	return &AssignStream{conn: conn}, nil
}

// Send writes one pool frame.
func (s *AssignStream) Send(pool input.Pool) error {
	body, err := wire.MarshalPool(pool)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return wire.WriteFrame(s.conn, body)
}

// Recv reads the next assignment frame.
func (s *AssignStream) Recv() (input.Assignment, error) {
	body, err := wire.ReadFrame(s.conn)
	if err != nil {
		return nil, err
	}
	return wire.UnmarshalAssignment(body)
}

// Step sends pool and waits for its assignment.
func (s *AssignStream) Step(ctx context.Context, pool input.Pool) (input.Assignment, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetDeadline(deadline)
		defer s.conn.SetDeadline(time.Time{})
	}
	if err := s.Send(pool); err != nil {
		return nil, err
	}
	return s.Recv()
}

// Close closes the stream connection. It is safe to call more than once.
func (s *AssignStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
