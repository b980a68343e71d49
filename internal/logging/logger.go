package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across racecoord components.
// Implementations must be safe for concurrent use, since race tasks log from
// many goroutines at once.
type Logger interface {
	// Info logs an informational message with optional structured fields.
	Info(msg string, fields ...Field)
	// Error logs an error message with the associated error and optional fields.
	Error(msg string, err error, fields ...Field)
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...Field)
}

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Duration creates a time.Duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates a field holding an error under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// zerologLogger implements Logger on top of a zerolog.Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewConsoleLogger returns a human-readable logger writing to w at the given
// level, tagged with the given component.
func NewConsoleLogger(w io.Writer, component string, level zerolog.Level) Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return &zerologLogger{zl: zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

// ParseLevel maps a textual level to a zerolog.Level. Unknown or empty values
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}

func (z *zerologLogger) Info(msg string, fields ...Field) {
	withFields(z.zl.Info(), fields).Msg(msg)
}

func (z *zerologLogger) Error(msg string, err error, fields ...Field) {
	withFields(z.zl.Error().Err(err), fields).Msg(msg)
}

func (z *zerologLogger) Debug(msg string, fields ...Field) {
	withFields(z.zl.Debug(), fields).Msg(msg)
}

func withFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}
