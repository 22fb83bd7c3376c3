// Package logger wraps zerolog with the constructors and context helpers used by the service.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// New creates a JSON logger writing to stdout with a "role" field and timestamps.
// An unparsable level falls back to info.
func New(level, role string) *Logger {
	return NewWithWriter(os.Stdout, level, role)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, role string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a Logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying an extra string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

// FromContext returns the logger attached to ctx by WithContext.
// A context without a logger yields a disabled logger, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}
