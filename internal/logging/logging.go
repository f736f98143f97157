// Package logging builds the zerolog logger shared by the service, the HTTP
// API and the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Level   string
	JSON    bool
	Service string
	Version string
	Out     io.Writer
}

// Setup returns a logger writing to opts.Out (stderr by default). Console
// output is used unless JSON is requested. Unknown levels fall back to info.
func Setup(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Version != "" {
		ctx = ctx.Str("version", opts.Version)
	}
	return ctx.Logger()
}

// Nop returns a disabled logger, handy for tests and library defaults.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
