package api

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
)

// Request contains route parameters and the payload that followed the path.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response.
// Returns an error on failure. The logger provided is a connection-scoped logger
// enriched with remote address and session metadata by the API server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamConn is the connection handed to a stream handler. Reads continue
// after the request line, including anything the client already sent.
type StreamConn interface {
	io.ReadWriter
	RemoteAddr() net.Addr
}

// StreamHandlerFunc handles long-lived connections for bidirectional streaming.
// The handler owns the connection until it returns; the server closes it
// afterwards. Returning a non-nil error indicates a terminal failure which
// the server logs.
type StreamHandlerFunc func(ctx context.Context, conn StreamConn, params map[string]string, logger *slog.Logger) error

// Router implements simple path pattern matching with placeholders in {name}.
type Router struct {
	routes       []route[HandlerFunc]
	streamRoutes []route[StreamHandlerFunc]
}

type route[H any] struct {
	parts   []string
	names   []string // parameter name per part, "" for literals
	handler H
}

// NewRouter returns a new Router instance.
func NewRouter() *Router { return &Router{} }

func newRoute[H any](pattern string, handler H) route[H] {
	orig := strings.Split(pattern, "/")
	rt := route[H]{parts: make([]string, len(orig)), names: make([]string, len(orig)), handler: handler}
	for i, p := range orig {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			rt.names[i] = p[1 : len(p)-1]
			continue
		}
		rt.parts[i] = strings.ToLower(p)
	}
	return rt
}

func (rt route[H]) match(parts []string) (map[string]string, bool) {
	if len(rt.parts) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range parts {
		if rt.names[i] != "" {
			params[rt.names[i]] = p
			continue
		}
		if rt.parts[i] != p {
			return nil, false
		}
	}
	return params, true
}

func lookup[H any](routes []route[H], path string) (h H, params map[string]string, ok bool) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range routes {
		if params, ok := rt.match(parts); ok {
			return rt.handler, params, true
		}
	}
	return h, nil, false
}

// Register registers a handler for a path pattern like "player/{index}".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, newRoute(pattern, handler))
}

// RegisterStream registers a StreamHandler for long-lived connections.
func (r *Router) RegisterStream(pattern string, handler StreamHandlerFunc) {
	r.streamRoutes = append(r.streamRoutes, newRoute(pattern, handler))
}

// Match returns the HandlerFunc and params if the given path matches any
// registered pattern. Returns nil if none match.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	h, params, _ := lookup(r.routes, path)
	return h, params
}

// MatchStream returns the StreamHandler and params if the given path matches
// any registered stream pattern. Returns nil if none match.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	h, params, _ := lookup(r.streamRoutes, path)
	return h, params
}
