package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/domain"
)

// Runner drives one dialog to completion using an IOHandler.
// This allows the same loop to serve line-mode terminals, pipes and JSON hosts.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger
}

// Result is the outcome of a run.
type Result struct {
	Reply     string `json:"reply,omitempty"`
	Submitted bool   `json:"submitted"`
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run loops Output -> Input -> HandleEvent until the dialog submits or is cancelled.
// End of input cancels the dialog; so does ctx, in which case ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, d *runtime.Dialog) (Result, error) {
	for !d.IsComplete() {
		if err := r.Handler.Output(ctx, d); err != nil {
			return Result{}, fmt.Errorf("output error: %w", err)
		}

		events, err := r.Handler.Input(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				r.Logger.Debug("Runner input: context cancelled", "err", ctx.Err())
				d.Cancel(context.WithoutCancel(ctx))
				return Result{}, ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("Runner input: end of input")
				d.Cancel(ctx)
				break
			}
			if errors.Is(err, ErrInvalidInput) {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				continue
			}
			return Result{}, fmt.Errorf("input error: %w", err)
		}

		r.apply(ctx, d, events)
	}

	reply, submitted := d.Reply()
	if submitted {
		_ = r.Handler.SystemOutput(ctx, "Answers submitted.")
	} else {
		_ = r.Handler.SystemOutput(ctx, "Decision cancelled.")
	}
	return Result{Reply: reply, Submitted: submitted}, nil
}

func (r *Runner) apply(ctx context.Context, d *runtime.Dialog, events []runtime.Event) {
	for _, ev := range events {
		err := d.HandleEvent(ctx, ev)
		if errors.Is(err, domain.ErrDialogComplete) {
			return
		}
		if err != nil {
			r.Logger.Debug("Rejected event", "kind", ev.Kind, "err", err)
			_ = r.Handler.SystemOutput(ctx, err.Error())
		}
	}
}
