// Package logger provides a thin wrapper around zerolog.Logger used by the
// cascade loaders and the cascade CLI.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger writing JSON lines to w at the given level.
// Every entry carries a "component" field and a timestamp.
func New(w io.Writer, level zerolog.Level, component string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := zerolog.New(w).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Stderr returns a logger writing to the process error stream. This is the
// side channel the bootstrap loader reports to.
func Stderr(component string) *Logger {
	return New(os.Stderr, zerolog.InfoLevel, component)
}

// Console returns a human-readable logger for interactive use.
func Console(w io.Writer, level zerolog.Level) *Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info for
// empty or unknown input.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Child returns a logger that inherits the receiver's fields plus a
// "component" override.
func (l *Logger) Child(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}
