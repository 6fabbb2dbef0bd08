package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type Logger struct {
	Debug bool

	mu  sync.Mutex
	out io.Writer
}

func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug, out: os.Stdout}
}

// NewLoggerTo writes to w instead of stdout.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	return &Logger{Debug: debug, out: w}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.printf("[DEBUG] ", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf("[WARN] ", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("[ERROR] ", format, args...)
}

func (l *Logger) printf(level, format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintf(l.out, level+format, args...)
}
