package logger

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Logger wraps the standard log.Logger with a verbose switch
type Logger struct {
	*log.Logger
	verbose atomic.Bool
}

// New creates a new logger writing to stdout
func New() *Logger {
	return NewWriter(os.Stdout)
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// SetVerbose toggles output from Verbosef
func (l *Logger) SetVerbose(v bool) {
	l.verbose.Store(v)
}

// Verbose reports whether verbose output is on
func (l *Logger) Verbose() bool {
	return l.verbose.Load()
}

// Verbosef logs only in verbose mode
func (l *Logger) Verbosef(format string, args ...any) {
	if l.verbose.Load() {
		l.Printf(format, args...)
	}
}
