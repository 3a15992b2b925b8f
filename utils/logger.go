package utils

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger writes leveled lines in the "[LEVEL] message" form used across the
// commands and lambdas.
type Logger struct {
	logger *log.Logger
	debug  bool
}

func NewLogger(w io.Writer, debug bool) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags), debug: debug}
}

// DefaultLogger writes to stderr.
var DefaultLogger = NewLogger(os.Stderr, false)

func (l *Logger) write(level, format string, args ...any) {
	l.logger.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.debug {
		l.write("DEBUG", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any)  { l.write("INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.write("WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.write("ERROR", format, args...) }
