// Package logging builds the zerolog-backed, per-component named loggers
// used throughout schlazicontrol — the Go equivalent of the original's
// `static Logger logger( "component_name" )` pattern, one console-writer
// sink shared by every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger writing to w (or a colorized console writer
// over stderr when w is nil) at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Named returns a child logger tagged with name, mirroring every
// component's `static Logger logger( "name" )` in the original.
func Named(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
