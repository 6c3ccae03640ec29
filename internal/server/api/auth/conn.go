package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Role tags the sender of a sealed packet so both directions can share one
// session key without reusing nonces.
type Role byte

const (
	RoleClient Role = 'C'
	RoleServer Role = 'S'
)

const maxPacketSize = 2 * 1024 * 1024 // 2 MB

var (
	ErrPacketTooLarge = errors.New("auth: sealed packet too large")
	ErrReplay         = errors.New("auth: unexpected packet sequence")
)

// Conn seals every Write as one packet:
//
//	length:u32 BE | nonce[12] (role, 0, 0, 0, counter:u64 BE) | ciphertext
type Conn struct {
	net.Conn
	aead cipher.AEAD
	role Role

	wmu     sync.Mutex
	sendCtr uint64

	rmu     sync.Mutex
	recvCtr uint64
	recvBuf bytes.Buffer
}

func WrapConn(conn net.Conn, sessionKey []byte, role Role) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead, role: role}, nil
}

func (c *Conn) peer() Role {
	if c.role == RoleClient {
		return RoleServer
	}
	return RoleClient
}

func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	nonce := make([]byte, chacha20poly1305.NonceSize)
	nonce[0] = byte(c.role)
	binary.BigEndian.PutUint64(nonce[4:], c.sendCtr)
	c.sendCtr++

	ct := c.aead.Seal(nil, nonce, p, nil)
	pkt := make([]byte, 4, 4+len(nonce)+len(ct))
	binary.BigEndian.PutUint32(pkt, uint32(len(nonce)+len(ct)))
	pkt = append(pkt, nonce...)
	pkt = append(pkt, ct...)
	if _, err := c.Conn.Write(pkt); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	if c.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length > maxPacketSize {
			return 0, ErrPacketTooLarge
		}
		if length < chacha20poly1305.NonceSize {
			return 0, io.ErrUnexpectedEOF
		}
		pkt := make([]byte, length)
		if _, err := io.ReadFull(c.Conn, pkt); err != nil {
			return 0, err
		}
		nonce, ct := pkt[:chacha20poly1305.NonceSize], pkt[chacha20poly1305.NonceSize:]
		if Role(nonce[0]) != c.peer() || binary.BigEndian.Uint64(nonce[4:]) != c.recvCtr {
			return 0, ErrReplay
		}
		pt, err := c.aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return 0, err
		}
		c.recvCtr++
		c.recvBuf.Write(pt)
	}
	return c.recvBuf.Read(p)
}
