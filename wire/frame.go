package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the largest body a stream frame can carry.
const MaxFrameSize = 1<<16 - 1

var ErrFrameTooLarge = errors.New("wire: frame too large")

// WriteFrame writes body prefixed with its length as a little-endian uint16.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}
	buf := make([]byte, 2+len(body))
	binary.LittleEndian.PutUint16(buf, uint16(len(body)))
	copy(buf[2:], body)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed frame. A clean end of stream before the
// header yields io.EOF; a stream cut inside a frame yields
// io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	body := make([]byte, binary.LittleEndian.Uint16(hdr[:]))
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return body, nil
}
