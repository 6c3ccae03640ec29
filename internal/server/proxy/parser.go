package proxy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/server/api/auth"
	"github.com/romyengine/romy/wire"
)

// session is what both directions of one proxied connection learned from
// the client's request.
type session struct {
	stream    atomic.Bool
	encrypted atomic.Bool
}

type parserState int

const (
	stateRequest parserState = iota
	stateFrames
	stateResponse
	stateDone
)

// Parser decodes romy API traffic for structured logging: the request line,
// the JSON response line and, on stream sessions, every pool and assignment
// frame. Encrypted sessions are only reported, never decoded.
type Parser struct {
	logger   *slog.Logger
	toServer bool
	sess     *session
	state    parserState
	buf      bytes.Buffer
}

// NewParser returns the parsers for both directions of one connection.
func NewParser(logger *slog.Logger) (clientToServer, serverToClient *Parser) {
	s := &session{}
	return &Parser{logger: logger, toServer: true, sess: s, state: stateRequest},
		&Parser{logger: logger, toServer: false, sess: s, state: stateResponse}
}

// Parse processes data read from one side of the connection.
func (p *Parser) Parse(data []byte) {
	if p.state == stateDone {
		return
	}
	p.buf.Write(data)

	for {
		switch p.state {
		case stateRequest:
			if !p.parseRequest() {
				return
			}
		case stateResponse:
			if p.sess.encrypted.Load() {
				p.done()
				return
			}
			if p.sess.stream.Load() {
				p.state = stateFrames
				continue
			}
			if !p.parseResponse() {
				return
			}
		case stateFrames:
			if !p.parseFrame() {
				return
			}
		default:
			return
		}
	}
}

func (p *Parser) done() {
	p.state = stateDone
	p.buf.Reset()
}

func (p *Parser) parseRequest() bool {
	line, err := p.buf.ReadBytes(0)
	if err != nil {
		// Incomplete; put it back.
		p.buf.Write(line)
		return false
	}
	req := string(line[:len(line)-1])
	if req+"\x00" == auth.HandshakeMagic {
		p.sess.encrypted.Store(true)
		p.logger.Info("romy session", "dir", dirString(p.toServer), "encrypted", true)
		p.done()
		return false
	}

	path, payload, _ := strings.Cut(req, " ")
	path = strings.ToLower(path)
	p.logger.Info("romy request", "dir", dirString(p.toServer), "path", path, "payloadBytes", len(payload))
	if path == "stream" {
		p.sess.stream.Store(true)
		p.state = stateFrames
		return true
	}
	p.done()
	return false
}

func (p *Parser) parseResponse() bool {
	line, err := p.buf.ReadBytes('\n')
	if err != nil {
		p.buf.Write(line)
		return false
	}
	line = bytes.TrimSpace(line)
	if bytes.Contains(line, []byte(`"status"`)) && bytes.Contains(line, []byte(`"title"`)) {
		p.logger.Info("romy response", "dir", dirString(p.toServer), "problem", string(line))
	} else {
		p.logger.Info("romy response", "dir", dirString(p.toServer), "bytes", len(line))
	}
	p.done()
	return false
}

func (p *Parser) parseFrame() bool {
	peek := p.buf.Bytes()
	if len(peek) < 2 {
		return false
	}
	n := int(binary.LittleEndian.Uint16(peek[:2]))
	if len(peek) < 2+n {
		return false
	}
	body := append([]byte(nil), peek[2:2+n]...)
	p.buf.Next(2 + n)

	if p.toServer {
		pool, err := wire.UnmarshalPool(body)
		if err != nil {
			p.logger.Warn("romy frame", "dir", dirString(p.toServer), "error", err, "hex", fmt.Sprintf("% x", body))
			return true
		}
		p.logger.Info("romy frame", "dir", dirString(p.toServer), "kind", "pool", "devices", describeDevices(pool.Devices()))
		return true
	}
	a, err := wire.UnmarshalAssignment(body)
	if err != nil {
		p.logger.Warn("romy frame", "dir", dirString(p.toServer), "error", err, "hex", fmt.Sprintf("% x", body))
		return true
	}
	p.logger.Info("romy frame", "dir", dirString(p.toServer), "kind", "assignment", "players", describeSlots(a))
	return true
}

func describeDevices(ds []input.Device) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describeSlots(a input.Assignment) string {
	parts := make([]string, len(a))
	for i, d := range a {
		if d == nil {
			parts[i] = "-"
			continue
		}
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func dirString(clientToServer bool) string {
	if clientToServer {
		return "C->S"
	}
	return "S->C"
}
