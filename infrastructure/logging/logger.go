// Package logging provides structured logging using bolt.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	defaultLogger *bolt.Logger
	once          sync.Once
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the output destination. Nil means stderr, so frames
	// printed on stdout stay clean.
	Output io.Writer
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

// parseLevel converts a string level to bolt.Level.
func parseLevel(s string) bolt.Level {
	switch strings.ToLower(s) {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// New builds a logger from config without touching the default logger.
func New(config Config) *bolt.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}

	return bolt.New(handler).SetLevel(parseLevel(config.Level))
}

// Get returns the process default logger, built from DefaultConfig on
// first use. A nil *Logger logs through it.
func Get() *bolt.Logger {
	once.Do(func() {
		defaultLogger = New(DefaultConfig())
	})
	return defaultLogger
}

// Logger binds the level helpers to a specific bolt logger, with fields
// attached to every event.
type Logger struct {
	base   *bolt.Logger
	fields []Field
}

// Wrap returns a Logger writing to l. A nil l uses the default logger.
func Wrap(l *bolt.Logger) *Logger {
	return &Logger{base: l}
}

// With returns a copy that adds fields to every event.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{base: l.base, fields: merged}
}

func (l *Logger) bolt() *bolt.Logger {
	if l == nil || l.base == nil {
		return Get()
	}
	return l.base
}

func (l *Logger) event(e *bolt.Event) *LogEvent {
	le := &LogEvent{event: e}
	if l != nil {
		for _, f := range l.fields {
			le.Add(f)
		}
	}
	return le
}

// Trace starts a trace level event.
func (l *Logger) Trace() *LogEvent { return l.event(l.bolt().Trace()) }

// Debug starts a debug level event.
func (l *Logger) Debug() *LogEvent { return l.event(l.bolt().Debug()) }

// Info starts an info level event.
func (l *Logger) Info() *LogEvent { return l.event(l.bolt().Info()) }

// Warn starts a warn level event.
func (l *Logger) Warn() *LogEvent { return l.event(l.bolt().Warn()) }

// Error starts an error level event.
func (l *Logger) Error() *LogEvent { return l.event(l.bolt().Error()) }

// LogEvent is a wrapper that allows adding Fields to a bolt.Event.
type LogEvent struct {
	event *bolt.Event
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}
