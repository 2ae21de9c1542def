package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/domain"
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

// CreateLogger builds the stderr logger for a log level name.
// An empty level silences logging.
func CreateLogger(level string) (*slog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// CreateDebugHooks logs every lifecycle event at debug level.
func CreateDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoundParsed: func(ctx context.Context, e *domain.RoundEvent) {
			logger.Debug("Round parsed", "questions", e.Questions, "repairs", e.Repairs)
		},
		OnSubmitted: func(ctx context.Context, e *domain.DialogEvent) {
			logger.Debug("Dialog submitted", "reply_lines", strings.Count(e.Reply, "\n")+1)
		},
		OnSubmitRefused: func(ctx context.Context, e *domain.DialogEvent) {
			logger.Debug("Submit refused", "err", e.Error)
		},
		OnCancelled: func(ctx context.Context, e *domain.DialogEvent) {
			logger.Debug("Dialog cancelled", "tab", e.ActiveTab)
		},
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f any) bool {
	file, ok := f.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the width of f, or fallback when it is not a terminal.
func terminalWidth(f any, fallback int) int {
	file, ok := f.(*os.File)
	if !ok || !IsTerminal(file) {
		return fallback
	}
	w, _, err := term.GetSize(int(file.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// IsInterrupted reports whether err means the operator stopped the command.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}
