// Package termkeys turns the byte stream of a raw-mode terminal into a
// keyboard state. Terminals report key presses but never releases, so a
// pressed key is held for a fixed number of steps.
package termkeys

import (
	"errors"
	"io"
	"sync"

	"github.com/romyengine/romy/input/keyboard"
)

const (
	esc       = 0x1b
	interrupt = 0x03 // Ctrl-C
	eot       = 0x04 // Ctrl-D
)

var arrows = map[byte]keyboard.Code{
	'A': keyboard.KeyUp,
	'B': keyboard.KeyDown,
	'C': keyboard.KeyRight,
	'D': keyboard.KeyLeft,
}

// Decode maps one read from the terminal to key presses in order. quit is
// set when Ctrl-C or Ctrl-D was typed; bytes after it are ignored.
//
// Escape sequences are expected to arrive within a single read. CSI arrow
// sequences (ESC [ A..D, also ESC O A..D) become arrow keys, other CSI
// sequences are skipped and a bare ESC is the Escape key.
func Decode(b []byte) (keys []keyboard.Code, quit bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == interrupt || c == eot:
			return keys, true
		case c == esc:
			if i+1 >= len(b) || (b[i+1] != '[' && b[i+1] != 'O') {
				keys = append(keys, keyboard.KeyEscape)
				continue
			}
			j := i + 2
			// Parameter and intermediate bytes, then one final byte.
			for j < len(b) && (b[j] < 0x40 || b[j] > 0x7e) {
				j++
			}
			if j < len(b) {
				if k, ok := arrows[b[j]]; ok && j == i+2 {
					keys = append(keys, k)
				}
			}
			i = j
		default:
			if k, ok := keyboard.CharToKey[c]; ok {
				keys = append(keys, k)
			}
		}
	}
	return keys, false
}

// Holder keeps every pressed key down for a number of steps after its last
// press.
type Holder struct {
	steps int
	left  map[keyboard.Code]int
	order []keyboard.Code
}

// NewHolder returns a Holder keeping keys for steps samples. Values below 1
// are treated as 1.
func NewHolder(steps int) *Holder {
	return &Holder{steps: max(steps, 1), left: map[keyboard.Code]int{}}
}

// Press marks c as down and restarts its countdown.
func (h *Holder) Press(c keyboard.Code) {
	if _, ok := h.left[c]; !ok {
		h.order = append(h.order, c)
	}
	h.left[c] = h.steps
}

// Sample returns the keys currently held, in first-press order, and counts
// one step down for each.
func (h *Holder) Sample() keyboard.State {
	var s keyboard.State
	kept := h.order[:0]
	for _, c := range h.order {
		s.KeyDown(keyboard.Key{Scan: c, Code: c})
		h.left[c]--
		if h.left[c] > 0 {
			kept = append(kept, c)
			continue
		}
		delete(h.left, c)
	}
	h.order = kept
	return s
}

// ErrInterrupted is returned by Source.Run when the user typed Ctrl-C or Ctrl-D.
var ErrInterrupted = errors.New("interrupted")

// Source collects terminal key presses in the background and hands out one
// keyboard state per step.
type Source struct {
	mu   sync.Mutex
	hold *Holder
}

// NewSource returns a Source holding each key for holdSteps samples.
func NewSource(holdSteps int) *Source {
	return &Source{hold: NewHolder(holdSteps)}
}

// Run reads r until it fails, reaches EOF or the user quits. EOF ends the
// run without error.
func (s *Source) Run(r io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys, quit := Decode(buf[:n])
			s.mu.Lock()
			for _, k := range keys {
				s.hold.Press(k)
			}
			s.mu.Unlock()
			if quit {
				return ErrInterrupted
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Sample returns the keyboard state for the next step.
func (s *Source) Sample() keyboard.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hold.Sample()
}
