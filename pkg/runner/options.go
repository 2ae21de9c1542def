package runner

import (
	"log/slog"
)

// Option configures a Runner built by NewRunner.
type Option func(*Runner)

// WithLogger sets the logger used for loop diagnostics such as cancelled input.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler selects the surface the dialog is driven through,
// typically a TextHandler for terminals or a JSONHandler for host processes.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}
