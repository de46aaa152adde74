package batchstat

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// LogLevel log level
type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
)

func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Logger logger interface used by batchstat
type Logger interface {
	Debug(ctx context.Context, format string, args ...interface{})
	Info(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
}

// NewLogger create a Logger writing to w, messages below level are dropped
func NewLogger(w io.Writer, level LogLevel) Logger {
	return &defaultLogger{w: w, level: level}
}

type defaultLogger struct {
	mu    sync.Mutex
	w     io.Writer
	level LogLevel
}

func (l *defaultLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.output(Debug, format, args...)
}

func (l *defaultLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.output(Info, format, args...)
}

func (l *defaultLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.output(Warn, format, args...)
}

func (l *defaultLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.output(Error, format, args...)
}

func (l *defaultLogger) output(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "%s [%s] %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, msg)
}
