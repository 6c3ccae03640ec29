package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/romyengine/romy/internal/server/api/auth"
)

var (
	errRequestTooLarge = errors.New("request too large")
	wsRegex            = regexp.MustCompile(`\s`)
)

// Server implements a small TCP API for assigning input devices to players.
//
// Request framing: `<path>[ <payload>]\x00`. A regular route answers with a
// single JSON line and the connection is closed. A stream route keeps the
// connection and hands it to its handler.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
	key    []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New creates a new API server. Handlers are added through Router before Start.
func New(addr string, config ServerConfig, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		logger: logger,
		router: NewRouter(),
		config: config,
		ctx:    ctx,
		cancel: cancel,
		conns:  map[net.Conn]struct{}{},
	}
}

// Router returns the router used by the API server so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the address the server listens on once started.
func (a *Server) Addr() string {
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// AuthEnabled reports whether clients must complete the password handshake.
func (a *Server) AuthEnabled() bool { return a.config.Password != "" && !a.config.NoAuth }

// Start listens on the configured address and serves incoming API commands.
func (a *Server) Start() error {
	if a.AuthEnabled() {
		key, err := auth.DeriveKey(a.config.Password)
		if err != nil {
			return fmt.Errorf("derive API key: %w", err)
		}
		a.key = key
	}
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String(), "auth", a.AuthEnabled())
	a.wg.Add(1)
	go a.serve()
	return nil
}

// Close stops the API server, ends every open connection and waits for
// their handlers to return.
func (a *Server) Close() {
	a.cancel()
	if a.ln != nil {
		_ = a.ln.Close()
	}
	a.mu.Lock()
	for c := range a.conns {
		_ = c.Close()
	}
	a.mu.Unlock()
	a.wg.Wait()
}

func (a *Server) serve() {
	defer a.wg.Done()
	for {
		c, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
				return
			}
			a.logger.Error("API accept error", "error", err)
			return
		}
		if !a.track(c) {
			_ = c.Close()
			return
		}
		a.wg.Add(1)
		go a.handleConn(c)
	}
}

func (a *Server) track(c net.Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx.Err() != nil {
		return false
	}
	a.conns[c] = struct{}{}
	return true
}

func (a *Server) untrack(c net.Conn) {
	a.mu.Lock()
	delete(a.conns, c)
	a.mu.Unlock()
	_ = c.Close()
}

func (a *Server) writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(WrapError(err))
	fmt.Fprintf(w, "%s\n", problemJSON)
}

func (a *Server) writeOK(w io.Writer, rest string) {
	fmt.Fprintf(w, "%s\n", rest)
}

// streamConn continues reading from the request reader so bytes the client
// sent right after the request line are not lost.
type streamConn struct {
	r      *bufio.Reader
	w      io.Writer
	remote net.Addr
}

func (s streamConn) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s streamConn) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s streamConn) RemoteAddr() net.Addr        { return s.remote }

func readRequest(r *bufio.Reader, limit int) (string, error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\x00')
		buf = append(buf, chunk...)
		if limit > 0 && len(buf) > limit {
			return "", errRequestTooLarge
		}
		if err == nil {
			return string(buf[:len(buf)-1]), nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return "", err
		}
	}
}

func (a *Server) handleConn(conn net.Conn) {
	defer a.wg.Done()
	defer a.untrack(conn)

	connLogger := a.logger.With("remote", conn.RemoteAddr().String(), "session", uuid.NewString())
	if a.config.ConnectionTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(a.config.ConnectionTimeout))
	}

	var rw io.ReadWriter = conn
	r := bufio.NewReader(conn)
	if a.key != nil {
		sessionKey, err := auth.ServerHandshake(r, conn, a.key)
		if err != nil {
			connLogger.Warn("api auth failed", "error", err)
			a.writeError(conn, err)
			return
		}
		secure, err := auth.WrapConn(conn, sessionKey, auth.RoleServer)
		if err != nil {
			connLogger.Error("api wrap conn", "error", err)
			return
		}
		rw = secure
		r = bufio.NewReader(secure)
	}

	reqData, err := readRequest(r, a.config.MaxRequestSize)
	if err != nil {
		switch {
		case errors.Is(err, errRequestTooLarge):
			connLogger.Error("api request too large", "limit", a.config.MaxRequestSize)
			a.writeError(rw, ErrTooLarge(fmt.Sprintf("request exceeds %d bytes", a.config.MaxRequestSize)))
		case errors.Is(err, io.EOF):
			connLogger.Error("api incomplete request (no null terminator)")
		default:
			connLogger.Error("read api data", "error", err)
		}
		return
	}

	if reqData == "" {
		connLogger.Error("api empty command")
		a.writeError(rw, ErrBadRequest("empty request"))
		return
	}

	var path, payload string
	if loc := wsRegex.FindStringIndex(reqData); loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
	}

	if path == "" {
		connLogger.Error("api empty path")
		a.writeError(rw, ErrBadRequest("empty path"))
		return
	}

	path = strings.ToLower(path)
	connLogger.Info("api cmd", "path", path)

	if h, params := a.router.Match(path); h != nil {
		req := &Request{Ctx: a.ctx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("api handler error", "path", path, "error", err)
			a.writeError(rw, err)
			return
		}
		connLogger.Debug("api handler success", "path", path)
		a.writeOK(rw, res.JSON)
		return
	}

	if sh, params := a.router.MatchStream(path); sh != nil {
		connLogger.Info("api stream begin", "path", path)
		_ = conn.SetDeadline(time.Time{})
		sc := streamConn{r: r, w: rw, remote: conn.RemoteAddr()}
		if err := sh(a.ctx, sc, params, connLogger); err != nil {
			connLogger.Error("api stream handler error", "path", path, "error", err)
		}
		connLogger.Info("api stream end", "path", path)
		return
	}

	connLogger.Error("api unknown path", "path", path)
	a.writeError(rw, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}
