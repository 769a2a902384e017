// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger. Debug enables a pretty console writer on
// stderr at debug level; otherwise only warnings and above are emitted.
func Init(debug bool) {
	out := io.Writer(zerolog.ConsoleWriter{Out: os.Stderr})
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}
