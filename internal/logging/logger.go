package logging

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures Build.
type Options struct {
	Level  slog.Level
	Format Format
	// Output defaults to Stderr, keeping Stdout free for traces and JSON output.
	Output io.Writer
}

// New creates the CLI logger: text on Stderr at the given level.
func New(level slog.Level) *slog.Logger {
	return Build(Options{Level: level})
}

// Build creates a logger from opts. The "error" key is renamed "err" so
// handler failures and resolution failures log under one key.
func Build(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
