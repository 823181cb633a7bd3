package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/presentation/tui"
	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long events must stop arriving before a change triggers a re-run.
const settleDelay = 100 * time.Millisecond

// RunWatch replays the page, then replays it again every time the file changes,
// until ctx is done. Compile and mount errors are reported and waited out.
func RunWatch(ctx context.Context, opts RunOptions, w io.Writer) error {
	logger := createLogger(opts.Log)
	tui.PrintBanner(w, bitty.Version)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched rather than the file.
	if err := watcher.Add(filepath.Dir(opts.Path)); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", opts.Path, err)
	}
	logger.Info("Starting Watcher", "path", opts.Path)
	printSystemMessage(w, "Watching '%s'.", opts.Path)

	for {
		if err := runOnce(ctx, opts, w); err != nil {
			if isInterrupted(err) {
				return nil
			}
			logger.Error("Run failed", "err", err)
			printSystemMessage(w, "Error: %v", err)
		}
		printSystemMessage(w, "Waiting for changes...")

		name, ok := waitForChange(ctx, watcher, opts.Path, logger)
		if !ok {
			return nil
		}
		logger.Info("Change detected, triggering reload", "event", name)
		printSystemMessage(w, "Change detected in '%s'.", name)
	}
}

// waitForChange blocks until path is written, created or renamed and the
// burst of events settles. It returns false when ctx is done or the watcher closes.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher, path string, logger *slog.Logger) (string, bool) {
	target := filepath.Clean(path)
	var settle <-chan time.Time
	var changed string

	for {
		if ctx.Err() != nil {
			return "", false
		}
		select {
		case <-ctx.Done():
			return "", false
		case <-settle:
			return changed, true
		case ev, ok := <-watcher.Events:
			if !ok {
				return "", false
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				changed = ev.Name
				settle = time.After(settleDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return "", false
			}
			logger.Warn("Watcher error", "err", err)
		}
	}
}
