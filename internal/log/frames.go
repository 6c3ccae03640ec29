package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// FrameLogger records the binary frames exchanged on streaming sessions.
type FrameLogger interface {
	Log(session string, in bool, data []byte)
}

type frameLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewFrames creates a FrameLogger writing to w. A nil writer disables it.
func NewFrames(w io.Writer) FrameLogger {
	return &frameLogger{w: w, now: time.Now}
}

// Log emits one line per frame with a timestamp and hex dump.
// in=true means client->server, in=false means server->client.
func (f *frameLogger) Log(session string, in bool, data []byte) {
	if f.w == nil || len(data) == 0 {
		return
	}
	dir := "S->C"
	if in {
		dir = "C->S"
	}
	line := fmt.Sprintf("%s %s %s frame: %d bytes, hex: % x\n",
		f.now().Format("2006/01/02 15:04:05.000"), session, dir, len(data), data)

	f.mu.Lock()
	_, _ = io.WriteString(f.w, line)
	f.mu.Unlock()
}
