// Package testing holds helpers shared by the API server tests.
package testing

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"testing"

	"github.com/romyengine/romy/internal/log"
	"github.com/romyengine/romy/internal/server/api"
)

// StartAPIServer starts an API server without authentication on a free port
// and calls register so the test can add the handlers it needs. Returns the
// address and a function to call when done.
func StartAPIServer(t *testing.T, register func(r *api.Router, apiSrv *api.Server)) (addr string, done func()) {
	t.Helper()
	return StartAPIServerWithConfig(t, api.ServerConfig{}, register)
}

// StartAPIServerWithConfig is StartAPIServer with an explicit configuration.
// The listen address is always a free loopback port.
func StartAPIServerWithConfig(t *testing.T, cfg api.ServerConfig, register func(r *api.Router, apiSrv *api.Server)) (addr string, done func()) {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	apiSrv := api.New(cfg.Addr, cfg, log.Discard())
	if register != nil {
		register(apiSrv.Router(), apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	return apiSrv.Addr(), apiSrv.Close
}

// ExecCmd dials the API server, sends cmd and reads the full response.
// The command should not include the null terminator. Returns the response
// without the trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()

	_, _ = fmt.Fprintf(c, "%s\x00", cmd)

	r := bufio.NewReader(c)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}

var wsRegex = regexp.MustCompile(`\s`)

// ExecuteLine routes a command string through the provided router,
// emulating the server's request handling but without network IO.
// Returns the JSON line the server would write.
func ExecuteLine(t *testing.T, r *api.Router, data string) string {
	t.Helper()
	if data == "" {
		return problem(api.ErrBadRequest("empty request"))
	}

	var path, payload string
	if loc := wsRegex.FindStringIndex(data); loc != nil {
		path = data[:loc[0]]
		payload = data[loc[1]:]
	} else {
		path = data
	}
	if path == "" {
		return problem(api.ErrBadRequest("empty path"))
	}

	path = strings.ToLower(path)
	if h, params := r.Match(path); h != nil {
		req := &api.Request{Ctx: context.Background(), Params: params, Payload: payload}
		res := &api.Response{}
		if err := h(req, res, log.Discard()); err != nil {
			return problem(err)
		}
		return res.JSON
	}
	return problem(api.ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}

func problem(err error) string {
	b, _ := json.Marshal(api.WrapError(err))
	return string(b)
}
