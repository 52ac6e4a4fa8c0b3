// Package logging defines the small leveled logger threaded through the engine,
// the data loaders and the server.
package logging

import (
	"io"
	"log"
)

// Logger is the leveled logging surface used across lensquote
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// StdLogger writes leveled lines through the standard log package
type StdLogger struct {
	l     *log.Logger
	debug bool
}

// NewStdLogger creates a logger writing to w. Debug lines are dropped unless debug is set.
func NewStdLogger(w io.Writer, prefix string, debug bool) *StdLogger {
	return &StdLogger{l: log.New(w, prefix, log.LstdFlags), debug: debug}
}

func (s *StdLogger) Debugf(format string, args ...any) {
	if s.debug {
		s.l.Printf("DEBUG: "+format, args...)
	}
}
func (s *StdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO: "+format, args...) }
func (s *StdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN: "+format, args...) }
func (s *StdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR: "+format, args...) }

// OrNop returns l, or a NopLogger when l is nil
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
