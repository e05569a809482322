package runlog

import (
	"fmt"
	"os"
	"sync"
)

// ErrorSink appends free-text error entries to a log file. Failures to write
// are swallowed: the sink must never take the run down with it.
type ErrorSink struct {
	mu   sync.Mutex
	path string
}

// NewErrorSink targets path, created on first append.
func NewErrorSink(path string) *ErrorSink {
	return &ErrorSink{path: path}
}

// Append writes one entry.
func (s *ErrorSink) Append(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = fmt.Fprintf(f, "%s\n\n", msg)
}
