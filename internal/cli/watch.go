package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/domain"
)

// DefaultDebounce coalesces the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Engine   *crossroads.Engine
	Path     string
	Output   io.Writer
	JSON     bool
	Debounce time.Duration
	Logger   *slog.Logger
}

// WatchReport is one JSON line written per parse in JSON mode.
type WatchReport struct {
	Path  string        `json:"path"`
	Found bool          `json:"found"`
	Round *domain.Round `json:"round,omitempty"`
	Error string        `json:"error,omitempty"`
}

// RunWatch re-parses the message file every time it changes until ctx is cancelled.
// The directory is watched rather than the file so editors that replace it on save keep working.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	if opts.Engine == nil {
		opts.Engine = crossroads.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	opts.Logger.Info("Starting Watcher", "path", path)

	report := func() {
		if err := writeReport(ctx, opts, path); err != nil {
			opts.Logger.Error("Failed to write report", "err", err)
		}
	}
	report()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			opts.Logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			opts.Logger.Debug("Change detected", "event", ev.String())
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("Watcher error", "err", err)
		}
	}
}

func writeReport(ctx context.Context, opts WatchOptions, path string) error {
	rep := WatchReport{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		rep.Error = err.Error()
	} else if round, ok := opts.Engine.Parse(ctx, string(data)); ok {
		rep.Found = true
		rep.Round = &round
	}

	if opts.JSON {
		return json.NewEncoder(opts.Output).Encode(rep)
	}

	switch {
	case rep.Error != "":
		printSystemMessage(opts.Output, "Cannot read '%s': %s", filepath.Base(path), rep.Error)
	case !rep.Found:
		printSystemMessage(opts.Output, "No decision points in '%s'.", filepath.Base(path))
	default:
		printSystemMessage(opts.Output, "%d question(s) in '%s':", len(rep.Round.Questions), filepath.Base(path))
		DescribeRound(opts.Output, *rep.Round)
	}
	return nil
}
