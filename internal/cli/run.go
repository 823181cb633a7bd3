package cli

import (
	"context"
	"fmt"
	"io"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path     string
	Headless bool
	Watch    bool
	JSON     bool
	Strict   bool
	RedisURL string
	Log      LogOptions
}

// Execute handles the 'run' command logic, dispatching to Session or Watch mode.
func Execute(ctx context.Context, opts RunOptions, w io.Writer) error {
	if opts.Path == "" {
		return fmt.Errorf("a page document is required")
	}
	if opts.Watch {
		if opts.Headless || opts.JSON {
			return fmt.Errorf("--watch cannot be combined with --headless or --json")
		}
		return handleExecutionError(RunWatch(ctx, opts, w))
	}
	return handleExecutionError(RunSession(ctx, opts, w))
}
