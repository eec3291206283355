package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// History stores console lines in memory, each prefixed with a timestamp, and mirrors
// them to a zap logger so they land in the log file too.
type History struct {
	mu    sync.Mutex
	lines []string
	log   *zap.Logger
	now   func() time.Time
}

// NewHistory returns an empty history. A nil logger keeps lines in memory only.
func NewHistory(log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{log: log.Named("console"), now: time.Now}
}

// Log appends a line as "[2006-01-02 15:04:05] line".
func (h *History) Log(line string) {
	stamped := "[" + h.now().Format("2006-01-02 15:04:05") + "] " + line

	h.mu.Lock()
	h.lines = append(h.lines, stamped)
	h.mu.Unlock()

	h.log.Info("console", zap.String("line", line))
}

// Lines returns a copy of all stored lines.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Last returns up to n of the most recent lines, oldest first.
func (h *History) Last(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > len(h.lines) {
		n = len(h.lines)
	}
	out := make([]string, n)
	copy(out, h.lines[len(h.lines)-n:])
	return out
}
