package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/internal/server/api/apierror"
)

const (
	HandshakeMagic = "rMY1\x00"
	NonceSize      = 32
	authContext    = "romy-auth-v1"
	okPrefix       = "OK\x00"
)

func clientProof(key, clientNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(authContext))
	_, _ = mac.Write(clientNonce)
	return mac.Sum(nil)
}

func newNonce() ([]byte, error) {
	n := make([]byte, NonceSize)
	if _, err := rand.Read(n); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return n, nil
}

// ClientHandshake sends magic, client nonce and proof of the key, then reads
// the server nonce. It returns the derived session key. A server that
// rejects the client answers with a problem JSON line, returned as
// *apitypes.ApiError.
func ClientHandshake(r io.Reader, w io.Writer, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("handshake: missing key")
	}
	clientNonce, err := newNonce()
	if err != nil {
		return nil, err
	}

	msg := append([]byte(HandshakeMagic), clientNonce...)
	msg = append(msg, clientProof(key, clientNonce)...)
	if _, err := w.Write(msg); err != nil {
		return nil, fmt.Errorf("write handshake: %w", err)
	}

	prefix := make([]byte, len(okPrefix))
	if _, err := io.ReadFull(r, prefix); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apierror.ErrUnauthorized("connection closed during handshake")
		}
		return nil, fmt.Errorf("read handshake response: %w", err)
	}
	if string(prefix) != okPrefix {
		rest, _ := io.ReadAll(r)
		line := strings.TrimSuffix(string(append(prefix, rest...)), "\n")
		var apiErr apitypes.ApiError
		if err := json.Unmarshal([]byte(line), &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
			return nil, &apiErr
		}
		return nil, fmt.Errorf("invalid handshake response from server: %q", line)
	}

	serverNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, serverNonce); err != nil {
		return nil, fmt.Errorf("read server nonce: %w", err)
	}
	return DeriveSessionKey(key, serverNonce, clientNonce), nil
}

// ServerHandshake consumes a client handshake from r, verifies the proof and
// answers with "OK\0" and the server nonce. It returns the derived session
// key; a wrong proof yields an Unauthorized api error and nothing is written.
func ServerHandshake(r io.Reader, w io.Writer, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("handshake: missing key")
	}
	magic := make([]byte, len(HandshakeMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read handshake magic: %w", err)
	}
	if string(magic) != HandshakeMagic {
		return nil, apierror.ErrUnauthorized("authentication required")
	}

	clientNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, clientNonce); err != nil {
		return nil, fmt.Errorf("read client nonce: %w", err)
	}
	proof := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, proof); err != nil {
		return nil, fmt.Errorf("read client auth: %w", err)
	}
	if !hmac.Equal(proof, clientProof(key, clientNonce)) {
		return nil, apierror.ErrUnauthorized("invalid password")
	}

	serverNonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(append([]byte(okPrefix), serverNonce...)); err != nil {
		return nil, fmt.Errorf("write handshake response: %w", err)
	}
	return DeriveSessionKey(key, serverNonce, clientNonce), nil
}

// Dial performs the client handshake on conn and returns the sealed connection.
func Dial(conn net.Conn, password string) (net.Conn, error) {
	key, err := DeriveKey(password)
	if err != nil {
		return nil, err
	}
	sessionKey, err := ClientHandshake(conn, conn, key)
	if err != nil {
		return nil, err
	}
	return WrapConn(conn, sessionKey, RoleClient)
}
