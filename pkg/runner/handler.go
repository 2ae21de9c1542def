package runner

import (
	"context"

	"github.com/aretw0/crossroads/internal/runtime"
)

// IOHandler defines the strategy for interacting with the operator.
// This allows switching between Text (line mode) and JSON (structured) surfaces.
type IOHandler interface {
	// Output presents the current state of the dialog.
	Output(ctx context.Context, d *runtime.Dialog) error

	// Input reads the next operator command and translates it into dialog events.
	Input(ctx context.Context, d *runtime.Dialog) ([]runtime.Event, error)

	// SystemOutput presents a meta-message (errors, status) distinct from the dialog.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms text before output (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)
