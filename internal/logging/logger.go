// Package logging provides a small leveled logger for diagnostics on stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelColors = map[Level]color.Attribute{
	DEBUG: color.FgCyan,
	INFO:  color.FgGreen,
	WARN:  color.FgYellow,
	ERROR: color.FgRed,
}

// Logger writes leveled lines. Safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	prefix   string
	colorize bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output destination.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithPrefix sets a prefix for log messages.
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.prefix = prefix
	}
}

// WithColors enables or disables colorized level tags.
func WithColors(enabled bool) Option {
	return func(l *Logger) {
		l.colorize = enabled
	}
}

// New creates a Logger writing to stderr at INFO.
func New(opts ...Option) *Logger {
	l := &Logger{
		out:      os.Stderr,
		level:    INFO,
		colorize: !color.NoColor,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(WithOutput(io.Discard), WithLevel(ERROR+1))
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	tag := fmt.Sprintf("%-5s", level.String())
	if l.colorize {
		c := color.New(levelColors[level])
		c.EnableColor()
		tag = c.Sprint(tag)
	}

	var sb strings.Builder
	sb.WriteString(tag)
	sb.WriteString(" ")
	if l.prefix != "" {
		sb.WriteString("[")
		sb.WriteString(l.prefix)
		sb.WriteString("] ")
	}
	sb.WriteString(strings.TrimRight(msg, "\n"))
	sb.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, sb.String())
}

// Debugf logs a message at DEBUG level.
func (l *Logger) Debugf(msg string, args ...any) {
	l.log(DEBUG, msg, args...)
}

// Infof logs a message at INFO level.
func (l *Logger) Infof(msg string, args ...any) {
	l.log(INFO, msg, args...)
}

// Warnf logs a message at WARN level.
func (l *Logger) Warnf(msg string, args ...any) {
	l.log(WARN, msg, args...)
}

// Errorf logs a message at ERROR level.
func (l *Logger) Errorf(msg string, args ...any) {
	l.log(ERROR, msg, args...)
}
