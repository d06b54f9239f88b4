// Package logging configures the zerolog logger shared by all commands.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Debug bool
	Color bool
	// RunID tags every line; a random id is generated when empty.
	RunID string
}

// New returns a console logger writing to w. Debug lowers the level from
// info to debug.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()[:8]
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !opts.Color,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("run", runID).Logger()
}
