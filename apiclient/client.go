package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/input"
)

// Client provides a high-level interface to the romy API, handling request
// formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the romy API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the romy server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// GameInfo describes the game the server assigns players for.
func (c *Client) GameInfo() (*apitypes.GameInfoResponse, error) {
	return c.GameInfoCtx(context.Background())
}

func (c *Client) GameInfoCtx(ctx context.Context) (*apitypes.GameInfoResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "game/info", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.GameInfoResponse](raw)
}

// Assign sends the pool to the server and returns one slot per player,
// nil where no device could be assigned.
func (c *Client) Assign(pool input.Pool) (input.Assignment, error) {
	return c.AssignCtx(context.Background(), pool)
}

func (c *Client) AssignCtx(ctx context.Context, pool input.Pool) (input.Assignment, error) {
	raw, err := c.transport.DoCtx(ctx, "assign", assignRequest(pool), nil)
	if err != nil {
		return nil, err
	}
	resp, err := parse[apitypes.AssignResponse](raw)
	if err != nil {
		return nil, err
	}
	return resp.Assignment()
}

// Player sends the pool and returns the device assigned to one 0-based player.
func (c *Client) Player(index int, pool input.Pool) (*apitypes.PlayerResponse, error) {
	return c.PlayerCtx(context.Background(), index, pool)
}

func (c *Client) PlayerCtx(ctx context.Context, index int, pool input.Pool) (*apitypes.PlayerResponse, error) {
	pathParams := map[string]string{"index": strconv.Itoa(index)}
	raw, err := c.transport.DoCtx(ctx, "player/{index}", assignRequest(pool), pathParams)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PlayerResponse](raw)
}

func assignRequest(pool input.Pool) apitypes.AssignRequest {
	req := apitypes.AssignRequest{Devices: []apitypes.Device{}}
	for _, d := range pool.Devices() {
		req.Devices = append(req.Devices, apitypes.FromDevice(d))
	}
	return req
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
