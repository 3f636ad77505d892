// Package logging configures zerolog for the host tools
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup creates a logger at the named level. Unknown levels fall back to info. Pretty output
// is meant for terminals; otherwise each line is JSON
func Setup(level string, pretty bool) zerolog.Logger {
	return SetupWithWriter(level, pretty, os.Stderr)
}

// SetupWithWriter is Setup with a custom output
func SetupWithWriter(level string, pretty bool, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := out
	if pretty {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}
