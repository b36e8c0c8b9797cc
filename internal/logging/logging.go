// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and format of a logger.
type Options struct {
	Level string
	JSON  bool
	Out   io.Writer
}

// New returns a logger writing to opts.Out, or stderr. Console output is the
// default; JSON output is for machines.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(opts.Level); v != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
