// Package proxy implements a logging TCP proxy in front of a romy API
// server. Traffic is forwarded unchanged; requests, responses and stream
// frames are decoded into log records on the way through.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/romyengine/romy/internal/log"
)

type Server struct {
	listenAddr        string
	upstreamAddr      string
	connectionTimeout time.Duration
	logger            *slog.Logger
	frames            log.FrameLogger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func New(listenAddr, upstreamAddr string, connectionTimeout time.Duration, logger *slog.Logger, frames log.FrameLogger) *Server {
	if frames == nil {
		frames = log.NewFrames(nil)
	}
	return &Server{
		listenAddr:        listenAddr,
		upstreamAddr:      upstreamAddr,
		connectionTimeout: connectionTimeout,
		logger:            logger,
		frames:            frames,
	}
}

// Listen opens the listening socket.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.logger.Info("romy proxy listening", "addr", ln.Addr().String(), "upstream", s.upstreamAddr)
	return nil
}

// Addr returns the listen address, resolved once Listen succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.listenAddr
}

// ListenAndServe listens and serves until Close.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Serve accepts connections on the socket opened by Listen until Close.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("proxy is not listening")
	}
	for {
		clientConn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("Proxy server stopped")
				s.wg.Wait()
				return nil
			}
			s.logger.Error("Accept error", "error", err)
			continue
		}
		s.logger.Info("Client connected", "remote", clientConn.RemoteAddr())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleProxy(clientConn)
		}()
	}
}

// Close stops accepting. Proxied connections end when either side hangs up.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) handleProxy(clientConn net.Conn) {
	defer clientConn.Close()

	upstreamConn, err := net.DialTimeout("tcp", s.upstreamAddr, s.connectionTimeout)
	if err != nil {
		s.logger.Error("Failed to connect to upstream", "upstream", s.upstreamAddr, "error", err)
		return
	}
	defer upstreamConn.Close()

	session := uuid.NewString()
	logger := s.logger.With("session", session, "client", clientConn.RemoteAddr().String())
	logger.Info("Proxying connection", "upstream", upstreamConn.RemoteAddr())

	if s.connectionTimeout > 0 {
		deadline := time.Now().Add(s.connectionTimeout)
		_ = clientConn.SetDeadline(deadline)
		_ = upstreamConn.SetDeadline(deadline)
	}

	toServer, toClient := NewParser(logger)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		n, err := s.copyWithLogging(upstreamConn, clientConn, session, toServer)
		if err != nil && !isExpectedDisconnect(err) {
			logger.Debug("Client->Server copy error", "error", err)
		}
		logger.Debug("Client->Server stream ended", "bytes", n)
		halfClose(upstreamConn, true)
		halfClose(clientConn, false)
	}()

	go func() {
		defer wg.Done()
		n, err := s.copyWithLogging(clientConn, upstreamConn, session, toClient)
		if err != nil && !isExpectedDisconnect(err) {
			logger.Debug("Server->Client copy error", "error", err)
		}
		logger.Debug("Server->Client stream ended", "bytes", n)
		halfClose(clientConn, true)
		halfClose(upstreamConn, false)
	}()

	wg.Wait()
	logger.Info("Connection closed")
}

func (s *Server) copyWithLogging(dst, src net.Conn, session string, parser *Parser) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	firstPacket := true

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			s.frames.Log(session, parser.toServer, buf[:n])
			parser.Parse(buf[:n])

			// Stream sessions stay open indefinitely once traffic flows.
			if firstPacket {
				_ = src.SetDeadline(time.Time{})
				_ = dst.SetDeadline(time.Time{})
				firstPacket = false
			}

			wn, werr := dst.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
			if wn != n {
				return total, fmt.Errorf("short write: wrote %d of %d", wn, n)
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return total, nil
			}
			return total, rerr
		}
	}
}

func halfClose(conn net.Conn, write bool) {
	if tc, ok := conn.(*net.TCPConn); ok {
		if write {
			_ = tc.CloseWrite()
		} else {
			_ = tc.CloseRead()
		}
	}
}

func isExpectedDisconnect(err error) bool {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset") ||
		strings.Contains(e, "broken pipe") ||
		strings.Contains(e, "forcibly closed")
}
