package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/logging"
	"github.com/aretw0/bitty/internal/presentation/tui"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogOptions selects the CLI logger.
type LogOptions struct {
	Debug  bool
	Format string
}

// createLogger configures the application logger.
// Without --debug only warnings and errors reach Stderr.
func createLogger(opts LogOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	return logging.Build(logging.Options{
		Level:  level,
		Format: logging.Format(opts.Format),
	})
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// traceFormatter picks the trace rendering for w: NDJSON in JSON mode,
// colors on a terminal, plain text otherwise.
func traceFormatter(w io.Writer, jsonMode bool) bitty.TraceFormatter {
	if jsonMode {
		return formatJSON
	}
	if f, ok := w.(*os.File); ok {
		return tui.NewTraceFormatter(tui.ProfileFor(f))
	}
	return bitty.FormatTrace
}

func formatJSON(rec *domain.DispatchEvent) string {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}

// reportDegraded prints one line per component that failed to connect.
func reportDegraded(w io.Writer, eng *bitty.Engine) int {
	n := 0
	for _, c := range eng.Components() {
		if err := c.Err(); err != nil {
			printSystemMessage(w, "Component '%s' degraded: %v", rootName(c.Root()), err)
			n++
		}
	}
	return n
}

func rootName(n domain.Node) string {
	if el, ok := n.(*memory.Element); ok && el.ID() != "" {
		return "#" + el.ID()
	}
	return n.Tag()
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
